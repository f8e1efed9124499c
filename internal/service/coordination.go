package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/domain"
	"github.com/astrofinix/Revelax/internal/repository"
)

// CoordinationService 承担断线协议中面向存储层的部分：空房间销毁和
// 管理员重新指派。hub 只改内存注册表，所有持久化都经过这里。
type CoordinationService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	presence   repository.PresenceRepository
}

// NewCoordinationService 创建 CoordinationService 实例。
func NewCoordinationService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository, presence repository.PresenceRepository) *CoordinationService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for CoordinationService")
	}
	if playerRepo == nil {
		panic("PlayerRepository cannot be nil for CoordinationService")
	}
	return &CoordinationService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		presence:   presence,
	}
}

// TearDownRoom 在最后一名玩家离开后删除房间及其玩家记录。
// 玩家先删、房间后删：中途失败时不会留下指向已删除房间的玩家行。
// Redis 在线镜像清理失败只记录，不影响结果。
func (s *CoordinationService) TearDownRoom(ctx context.Context, roomID uint, roomCode string) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "room_code": roomCode})

	if err := s.playerRepo.DeleteByRoom(ctx, roomID); err != nil {
		return fmt.Errorf("delete players for room %d: %w", roomID, err)
	}
	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		return fmt.Errorf("delete room %d: %w", roomID, err)
	}

	if s.presence != nil {
		if err := s.presence.ClearRoom(ctx, roomCode); err != nil {
			logCtx.WithError(err).Warn("Failed to clear presence mirror for deleted room")
		}
	}

	logCtx.Info("Room torn down")
	return nil
}

// ReassignAdmin 在每次仍有剩余玩家的断线后从在线玩家中均匀随机挑选
// 新管理员并持久化。不判断离开的是否就是当前管理员——这是对原始行为的
// 刻意保留，不是疏漏。
// 在线玩家列表为空时 (存储层竞态) 不做任何变更，返回 (nil, nil)。
func (s *CoordinationService) ReassignAdmin(ctx context.Context, roomID uint) (*domain.Player, error) {
	logCtx := logrus.WithField("room_id", roomID)

	players, err := s.playerRepo.FindConnectedByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list connected players for room %d: %w", roomID, err)
	}
	if len(players) == 0 {
		// 良性分支：所有玩家都已被标记为离线，无人可指派
		logCtx.Debug("No connected players left, skipping admin reassignment")
		return nil, nil
	}

	newAdmin := players[rand.Intn(len(players))]
	if err := s.roomRepo.UpdateAdmin(ctx, roomID, newAdmin.UserID); err != nil {
		return nil, fmt.Errorf("persist new admin %s for room %d: %w", newAdmin.UserID, roomID, err)
	}

	logCtx.WithField("new_admin_id", newAdmin.UserID).Info("Admin reassigned")
	return &newAdmin, nil
}

// ReconcileRoom 修复一次失败的断线处理周期留下的不一致：
// 没有在线玩家且没有活跃连接的房间被销毁；管理员指针没有指向任何
// 在线玩家的房间被重新指派。幂等，可安全重试。
func (s *CoordinationService) ReconcileRoom(ctx context.Context, roomID uint, roomCode string) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "room_code": roomCode})

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			// 已被并发的断线周期删除
			logCtx.Debug("Reconcile: room already deleted")
			return nil
		}
		return fmt.Errorf("load room %d: %w", roomID, err)
	}

	players, err := s.playerRepo.FindConnectedByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("list connected players for room %d: %w", roomID, err)
	}

	if len(players) == 0 {
		liveConns := int64(0)
		if s.presence != nil {
			if n, err := s.presence.ConnectionCount(ctx, roomCode); err != nil {
				logCtx.WithError(err).Warn("Reconcile: presence check failed, assuming no live connections")
			} else {
				liveConns = n
			}
		}
		if liveConns == 0 {
			logCtx.Info("Reconcile: room has no connected players, tearing down")
			return s.TearDownRoom(ctx, roomID, roomCode)
		}
		return nil
	}

	// 管理员指针必须指向某个在线玩家
	for _, p := range players {
		if p.UserID == room.AdminID {
			return nil
		}
	}
	logCtx.WithField("stale_admin_id", room.AdminID).Info("Reconcile: repairing stale admin pointer")
	_, err = s.ReassignAdmin(ctx, roomID)
	return err
}
