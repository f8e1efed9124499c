package repository

import (
	"context"
	"time"

	"github.com/astrofinix/Revelax/internal/domain"
)

// RoomRepository 定义了房间记录的存储和检索操作。
// 这是协调器消费的记录存储能力面；核心代码只依赖这个接口，
// 不关心背后是哪种数据库。
type RoomRepository interface {
	// FindByID 根据房间 ID 查找房间。
	// 如果房间不存在，返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindByCode 根据邀请码查找房间。
	// 如果房间不存在，返回 ErrRoomNotFound。
	FindByCode(ctx context.Context, code string) (*domain.Room, error)

	// Save 保存房间信息。已存在 (基于 ID) 则更新，否则创建。
	Save(ctx context.Context, room *domain.Room) error

	// Delete 删除房间记录。删除不存在的房间不视为错误。
	Delete(ctx context.Context, id uint) error

	// UpdateAdmin 更新房间的管理员指针。
	UpdateAdmin(ctx context.Context, id uint, adminID string) error

	// IsCodeExists 检查邀请码是否已被占用。
	IsCodeExists(ctx context.Context, code string) (bool, error)

	// TouchLastActive 刷新房间的最后活跃时间。
	TouchLastActive(ctx context.Context, id uint) error

	// FindIdleSince 查询最后活跃时间早于 cutoff 的房间，
	// 供后台清扫任务使用。
	FindIdleSince(ctx context.Context, cutoff time.Time) ([]domain.Room, error)
}
