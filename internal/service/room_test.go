package service_test // 测试包

import (
	"context"
	"errors"
	"testing"

	// 导入必要的包
	"github.com/astrofinix/Revelax/internal/domain"
	"github.com/astrofinix/Revelax/internal/repository"
	"github.com/astrofinix/Revelax/internal/repository/mocks" // 导入 Mock 实现
	"github.com/astrofinix/Revelax/internal/service"          // 导入被测试的包
	"github.com/stretchr/testify/assert"                      // 导入断言库
	"github.com/stretchr/testify/mock"                        // 导入 Mock 库
	"github.com/stretchr/testify/require"                     // 导入 Require 断言库
)

// --- 测试 CreateRoom 方法 ---

func TestRoomService_CreateRoom_Success(t *testing.T) {
	// Arrange: 准备 Mock 对象, Service 实例, 和测试数据
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)

	ctx := context.Background()
	roomName := "Friday Night"
	adminID := "admin-uuid-1"
	username := "host_player"

	// 设置 Mock 预期:
	// 1. 生成的邀请码首次检查即不碰撞
	mockRoomRepo.On("IsCodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

	// 2. Save 房间时模拟数据库填充 ID
	mockRoomRepo.On("Save", ctx, mock.MatchedBy(func(room *domain.Room) bool {
		assert.Len(t, room.Code, 6, "邀请码应为 6 位")
		assert.Equal(t, roomName, room.Name)
		assert.Equal(t, adminID, room.AdminID)
		assert.Equal(t, domain.RoomStateWaiting, room.State, "新房间应处于 waiting 状态")
		assert.Equal(t, domain.DefaultGameMode, room.GameMode, "未指定模式时应使用默认模式")
		assert.False(t, room.LastActive.IsZero(), "最后活跃时间应被设置")
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Room).ID = 7 // 模拟数据库分配的 ID
		}).
		Return(nil).
		Once()

	// 3. 保存管理员玩家记录
	mockPlayerRepo.On("Save", ctx, mock.MatchedBy(func(player *domain.Player) bool {
		assert.Equal(t, adminID, player.UserID, "第一名玩家就是管理员")
		assert.Equal(t, uint(7), player.RoomID)
		assert.Equal(t, username, player.Username)
		assert.True(t, player.IsConnected)
		return true
	})).Return(nil).Once()

	// Act
	room, player, err := roomService.CreateRoom(ctx, roomName, adminID, username, "")

	// Assert
	assert.NoError(t, err, "成功创建房间时不应有错误")
	require.NotNil(t, room)
	require.NotNil(t, player)
	assert.Equal(t, uint(7), room.ID)
	assert.Equal(t, room.ID, player.RoomID)
	assert.Equal(t, room.AdminID, player.UserID, "房间的管理员指针应指向创建者")

	// Verify
	mockRoomRepo.AssertExpectations(t)
	mockPlayerRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_CodeCollisionRetries(t *testing.T) {
	// Arrange: 前两次生成的邀请码已被占用，第三次成功
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	mockRoomRepo.On("IsCodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Twice()
	mockRoomRepo.On("IsCodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	mockRoomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Room).ID = 1 }).
		Return(nil).Once()
	mockPlayerRepo.On("Save", ctx, mock.AnythingOfType("*domain.Player")).Return(nil).Once()

	// Act
	room, _, err := roomService.CreateRoom(ctx, "Retry Room", "admin-uuid", "somebody", "yap_sesh")

	// Assert: 碰撞只导致重试，调用方拿到的仍是一个可用的房间
	assert.NoError(t, err)
	require.NotNil(t, room)
	assert.Len(t, room.Code, 6)

	mockRoomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_CodeSpaceExhausted(t *testing.T) {
	// Arrange: 所有尝试都碰撞，达到上限后放弃
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	mockRoomRepo.On("IsCodeExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Times(10)

	// Act
	_, _, err := roomService.CreateRoom(ctx, "Doomed Room", "admin-uuid", "somebody", "")

	// Assert
	require.Error(t, err, "邀请码空间耗尽时应返回错误")
	assert.True(t, errors.Is(err, service.ErrCodeSpaceExhausted), "错误类型应为 ErrCodeSpaceExhausted")

	// Verify: 没有任何记录被写入
	mockRoomRepo.AssertExpectations(t)
	mockRoomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	mockPlayerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_InvalidGameMode(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)

	// Act
	_, _, err := roomService.CreateRoom(context.Background(), "Bad Mode", "admin-uuid", "somebody", "no_such_mode")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidGameMode))
	mockRoomRepo.AssertNotCalled(t, "IsCodeExists", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_PlayerSaveFails_RollsBackRoom(t *testing.T) {
	// Arrange: 房间已写入但玩家保存失败，房间记录必须被回滚
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	mockRoomRepo.On("IsCodeExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	mockRoomRepo.On("Save", ctx, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Room).ID = 3 }).
		Return(nil).Once()
	mockPlayerRepo.On("Save", ctx, mock.AnythingOfType("*domain.Player")).Return(errors.New("disk on fire")).Once()
	mockRoomRepo.On("Delete", ctx, uint(3)).Return(nil).Once()

	// Act
	_, _, err := roomService.CreateRoom(ctx, "Half Room", "admin-uuid", "somebody", "")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))

	// Verify: 回滚的 Delete 必须发生
	mockRoomRepo.AssertExpectations(t)
	mockPlayerRepo.AssertExpectations(t)
}

// --- 测试 JoinRoom 方法 ---

func TestRoomService_JoinRoom_Success(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	roomInDb := &domain.Room{ID: 4, Code: "AB12CD", Name: "Open Room", AdminID: "admin-uuid", State: domain.RoomStateWaiting}
	mockRoomRepo.On("FindByCode", ctx, "AB12CD").Return(roomInDb, nil).Once()
	mockPlayerRepo.On("FindConnectedByRoom", ctx, uint(4)).
		Return([]domain.Player{{UserID: "admin-uuid", IsConnected: true}}, nil).Once()
	mockPlayerRepo.On("Save", ctx, mock.MatchedBy(func(player *domain.Player) bool {
		assert.Equal(t, "user-uuid-2", player.UserID)
		assert.Equal(t, uint(4), player.RoomID)
		assert.True(t, player.IsConnected, "加入即视为在线")
		return true
	})).Return(nil).Once()
	mockRoomRepo.On("TouchLastActive", ctx, uint(4)).Return(nil).Once()

	// Act
	room, player, err := roomService.JoinRoom(ctx, "AB12CD", "user-uuid-2", "guest_one")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, room)
	require.NotNil(t, player)
	assert.Equal(t, uint(4), room.ID)

	mockRoomRepo.AssertExpectations(t)
	mockPlayerRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_InvalidCode(t *testing.T) {
	// Arrange: 邀请码在记录存储中不存在
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByCode", ctx, "ZZZZZZ").Return(nil, repository.ErrRoomNotFound).Once()

	// Act
	_, _, err := roomService.JoinRoom(ctx, "ZZZZZZ", "user-uuid", "guest_one")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidInviteCode), "不存在的邀请码应映射为 ErrInvalidInviteCode")
	mockPlayerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_JoinRoom_RoomFull(t *testing.T) {
	// Arrange: 在线玩家数已达上限
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	roomInDb := &domain.Room{ID: 9, Code: "FULL01"}
	full := make([]domain.Player, domain.MaxPlayers)
	for i := range full {
		full[i] = domain.Player{RoomID: 9, IsConnected: true}
	}
	mockRoomRepo.On("FindByCode", ctx, "FULL01").Return(roomInDb, nil).Once()
	mockPlayerRepo.On("FindConnectedByRoom", ctx, uint(9)).Return(full, nil).Once()

	// Act
	_, _, err := roomService.JoinRoom(ctx, "FULL01", "late-user", "latecomer")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRoomFull))
	mockPlayerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_JoinRoom_RejoinExistingPlayer(t *testing.T) {
	// Arrange: 同一玩家重复加入，Save 命中唯一约束，应复用已有记录
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	roomInDb := &domain.Room{ID: 5, Code: "RJOIN1"}
	existing := &domain.Player{ID: 11, UserID: "user-uuid-3", RoomID: 5, Username: "old_name", IsConnected: false}

	mockRoomRepo.On("FindByCode", ctx, "RJOIN1").Return(roomInDb, nil).Once()
	mockPlayerRepo.On("FindConnectedByRoom", ctx, uint(5)).Return([]domain.Player{}, nil).Once()
	mockPlayerRepo.On("Save", ctx, mock.AnythingOfType("*domain.Player")).Return(repository.ErrDuplicateEntry).Once()
	mockPlayerRepo.On("FindByUserID", ctx, "user-uuid-3").Return(existing, nil).Once()
	mockPlayerRepo.On("SetConnected", ctx, "user-uuid-3", true).Return(nil).Once()
	mockRoomRepo.On("TouchLastActive", ctx, uint(5)).Return(nil).Once()

	// Act
	_, player, err := roomService.JoinRoom(ctx, "RJOIN1", "user-uuid-3", "old_name")

	// Assert
	assert.NoError(t, err, "重新加入不应报错")
	require.NotNil(t, player)
	assert.Equal(t, uint(11), player.ID, "应复用已有的玩家记录")
	assert.True(t, player.IsConnected, "在线标记应被恢复")

	mockPlayerRepo.AssertExpectations(t)
}

func TestRoomService_JoinRoom_InvalidUsername(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	mockRoomRepo.On("FindByCode", ctx, "AB12CD").Return(&domain.Room{ID: 4, Code: "AB12CD"}, nil).Once()

	// Act: 纯数字用户名被规则拒绝
	_, _, err := roomService.JoinRoom(ctx, "AB12CD", "user-uuid", "12345")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidUsername))
	mockPlayerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- 测试 SetPlayerConnected 方法 ---

func TestRoomService_SetPlayerConnected_PlayerNotFound(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	ctx := context.Background()

	mockPlayerRepo.On("SetConnected", ctx, "ghost", false).Return(repository.ErrPlayerNotFound).Once()

	// Act
	err := roomService.SetPlayerConnected(ctx, "ghost", false)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPlayerNotFound))
	mockPlayerRepo.AssertExpectations(t)
}
