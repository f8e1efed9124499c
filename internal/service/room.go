package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/domain"
	"github.com/astrofinix/Revelax/internal/repository"
)

// 生成唯一邀请码的最大尝试次数。碰撞概率约 1/36^6，按期望 O(1) 次就会
// 成功；上限是防御性措施，超过即返回 ErrCodeSpaceExhausted。
const maxInviteCodeAttempts = 10

// RoomService 负责房间管理相关的业务逻辑。
type RoomService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
}

// NewRoomService 创建 RoomService 实例。
func NewRoomService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	if playerRepo == nil {
		panic("PlayerRepository cannot be nil for RoomService")
	}
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
	}
}

// CreateRoom 创建一个新房间，并把创建者作为第一名玩家 (管理员) 写入。
// adminID 为空时由服务端分配；username 为空时生成随机用户名。
func (s *RoomService) CreateRoom(ctx context.Context, name, adminID, username, gameMode string) (*domain.Room, *domain.Player, error) {
	logCtx := logrus.WithField("room_name", name)

	if username == "" {
		username = GenerateRandomUsername()
	}
	if err := ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if gameMode == "" {
		gameMode = domain.DefaultGameMode
	}
	if !domain.IsValidGameMode(gameMode) {
		return nil, nil, ErrInvalidGameMode
	}
	if adminID == "" {
		adminID = uuid.NewString()
	}
	logCtx = logCtx.WithField("admin_id", adminID)

	// 1. 生成唯一的邀请码
	code, err := s.generateUniqueInviteCode(ctx)
	if err != nil {
		if errors.Is(err, ErrCodeSpaceExhausted) {
			logCtx.WithError(err).Error("Invite code space exhausted")
			return nil, nil, err
		}
		logCtx.WithError(err).Error("Failed to generate unique invite code")
		return nil, nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("room_code", code)

	// 2. 创建房间记录
	room := &domain.Room{
		Code:       code,
		Name:       name,
		AdminID:    adminID,
		State:      domain.RoomStateWaiting,
		GameMode:   gameMode,
		LastActive: time.Now(),
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		// 唯一性在生成环节已检查过，走到这里视为内部错误
		logCtx.WithError(err).Error("Failed to save new room to database")
		return nil, nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	// 3. 创建管理员玩家 (房间的第一名玩家)
	player := &domain.Player{
		UserID:      adminID,
		RoomID:      room.ID,
		Username:    username,
		IsConnected: true,
	}
	if err := s.playerRepo.Save(ctx, player); err != nil {
		logCtx.WithError(err).Error("Failed to save admin player, rolling back room")
		// 不允许留下没有任何玩家的房间记录
		if delErr := s.roomRepo.Delete(ctx, room.ID); delErr != nil {
			logCtx.WithError(delErr).Error("Failed to roll back room after player save failure")
		}
		return nil, nil, ErrInternalServer
	}

	logCtx.Info("Room created successfully")
	return room, player, nil
}

// JoinRoom 处理玩家通过邀请码加入房间：校验邀请码、人数上限和用户名，
// 然后写入玩家记录 (is_connected = true)。实时连接的建立是独立的后续步骤。
func (s *RoomService) JoinRoom(ctx context.Context, code, userID, username string) (*domain.Room, *domain.Player, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_code": code, "user_id": userID})

	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.WithError(err).Warn("Failed to find room by invite code: Not found")
			return nil, nil, ErrInvalidInviteCode
		}
		logCtx.WithError(err).Error("Failed to find room by invite code: Repository error")
		return nil, nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	if username == "" {
		username = GenerateRandomUsername()
	}
	if err := ValidateUsername(username); err != nil {
		return nil, nil, err
	}

	connected, err := s.playerRepo.FindConnectedByRoom(ctx, room.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to count connected players")
		return nil, nil, ErrInternalServer
	}
	if len(connected) >= domain.MaxPlayers {
		logCtx.Warn("Join rejected: room is full")
		return nil, nil, ErrRoomFull
	}

	if userID == "" {
		userID = uuid.NewString()
	}
	player := &domain.Player{
		UserID:      userID,
		RoomID:      room.ID,
		Username:    username,
		IsConnected: true,
	}
	if err := s.playerRepo.Save(ctx, player); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// 同一玩家重新加入：复用已有记录并恢复在线标记
			existing, findErr := s.playerRepo.FindByUserID(ctx, userID)
			if findErr != nil {
				logCtx.WithError(findErr).Error("Failed to load existing player on rejoin")
				return nil, nil, ErrInternalServer
			}
			if setErr := s.playerRepo.SetConnected(ctx, userID, true); setErr != nil {
				logCtx.WithError(setErr).Error("Failed to reconnect existing player")
				return nil, nil, ErrInternalServer
			}
			existing.IsConnected = true
			player = existing
		} else {
			logCtx.WithError(err).Error("Failed to save joining player")
			return nil, nil, ErrInternalServer
		}
	}

	// 最后活跃时间是清扫任务的依据，刷新失败只记录
	if err := s.roomRepo.TouchLastActive(ctx, room.ID); err != nil {
		logCtx.WithError(err).Warn("Failed to touch room last_active")
	}

	logCtx.Info("Player joined room successfully")
	return room, player, nil
}

// FindRoomByCode 供 WebSocket Handler 在升级连接前验证房间是否存在。
func (s *RoomService) FindRoomByCode(ctx context.Context, code string) (*domain.Room, error) {
	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_code", code).Error("FindRoomByCode: Repository error")
		return nil, ErrInternalServer
	}
	return room, nil
}

// SetPlayerConnected 更新玩家在存储层的在线标记。
// 这是 is_connected 字段对外的唯一写入口 (加入房间除外)。
func (s *RoomService) SetPlayerConnected(ctx context.Context, userID string, connected bool) error {
	err := s.playerRepo.SetConnected(ctx, userID, connected)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("SetPlayerConnected: Repository error")
		return ErrInternalServer
	}
	return nil
}

// generateUniqueInviteCode 生成唯一的邀请码，对照存储层检查直到不碰撞。
func (s *RoomService) generateUniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return "", err
		}

		exists, err := s.roomRepo.IsCodeExists(ctx, code)
		if err != nil {
			logrus.WithError(err).WithField("room_code", code).Error("Database error checking invite code uniqueness")
			return "", err
		}
		if !exists {
			logrus.WithField("room_code", code).Debugf("Generated unique invite code after %d attempt(s).", attempt+1)
			return code, nil
		}
		// code 已存在，重试
		logrus.WithField("room_code", code).Warnf("Generated invite code already exists, retrying (attempt %d)...", attempt+1)
	}
	logrus.Errorf("Failed to generate a unique invite code after %d attempts", maxInviteCodeAttempts)
	return "", ErrCodeSpaceExhausted
}
