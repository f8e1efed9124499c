package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/astrofinix/Revelax/internal/domain"
	"github.com/astrofinix/Revelax/internal/repository"
)

// GormPlayerRepository 是 PlayerRepository 接口的 GORM 实现
type GormPlayerRepository struct {
	db *gorm.DB
}

// NewGormPlayerRepository 创建 GormPlayerRepository 实例
func NewGormPlayerRepository(db *gorm.DB) *GormPlayerRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPlayerRepository")
	}
	return &GormPlayerRepository{db: db}
}

// Save 实现保存玩家信息（创建或更新）
func (r *GormPlayerRepository) Save(ctx context.Context, player *domain.Player) error {
	result := r.db.WithContext(ctx).Save(player)
	if err := result.Error; err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save player (user_id: %s, room_id: %d): %w", player.UserID, player.RoomID, err)
	}
	return nil
}

// FindByUserID 实现根据 UserID 查找玩家
func (r *GormPlayerRepository) FindByUserID(ctx context.Context, userID string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("gorm: find player by user_id '%s': %w", userID, err)
	}
	return &player, nil
}

// FindConnectedByRoom 实现查询房间内在线玩家列表
func (r *GormPlayerRepository) FindConnectedByRoom(ctx context.Context, roomID uint) ([]domain.Player, error) {
	var players []domain.Player
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND is_connected = ?", roomID, true).
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find connected players for room %d: %w", roomID, err)
	}
	return players, nil
}

// SetConnected 实现更新玩家在线标记
func (r *GormPlayerRepository) SetConnected(ctx context.Context, userID string, connected bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Player{}).Where("user_id = ?", userID).
		Update("is_connected", connected)
	if result.Error != nil {
		return fmt.Errorf("gorm: set connected=%t for player '%s': %w", connected, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrPlayerNotFound
	}
	return nil
}

// DeleteByRoom 实现删除房间的全部玩家记录
func (r *GormPlayerRepository) DeleteByRoom(ctx context.Context, roomID uint) error {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&domain.Player{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete players for room %d: %w", roomID, result.Error)
	}
	return nil
}
