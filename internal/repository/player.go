package repository

import (
	"context"

	"github.com/astrofinix/Revelax/internal/domain"
)

// PlayerRepository 定义了玩家记录的存储和检索操作。
type PlayerRepository interface {
	// Save 保存玩家信息。已存在 (基于 ID) 则更新，否则创建。
	Save(ctx context.Context, player *domain.Player) error

	// FindByUserID 根据玩家的 UserID 查找记录。
	// 如果玩家不存在，返回 ErrPlayerNotFound。
	FindByUserID(ctx context.Context, userID string) (*domain.Player, error)

	// FindConnectedByRoom 查询指定房间内 is_connected = true 的全部玩家。
	// 管理员切换只允许从这个结果集中选取。
	FindConnectedByRoom(ctx context.Context, roomID uint) ([]domain.Player, error)

	// SetConnected 更新玩家的在线标记。
	SetConnected(ctx context.Context, userID string, connected bool) error

	// DeleteByRoom 删除指定房间的全部玩家记录 (房间销毁时调用)。
	DeleteByRoom(ctx context.Context, roomID uint) error
}
