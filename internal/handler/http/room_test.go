package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/astrofinix/Revelax/internal/domain"
	handler "github.com/astrofinix/Revelax/internal/handler/http"
	"github.com/astrofinix/Revelax/internal/repository"
	"github.com/astrofinix/Revelax/internal/repository/mocks"
	"github.com/astrofinix/Revelax/internal/service"
)

// setupRouter 用 Mock 存储层组装一套完整的 HTTP 路由
func setupRouter(mockRoomRepo *mocks.RoomRepository, mockPlayerRepo *mocks.PlayerRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	roomService := service.NewRoomService(mockRoomRepo, mockPlayerRepo)
	roomHandler := handler.NewRoomHandler(roomService)
	playerHandler := handler.NewPlayerHandler(roomService)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/rooms", roomHandler.CreateRoom)
		api.POST("/rooms/join", roomHandler.JoinRoom)
		api.GET("/gamemodes", roomHandler.ListGameModes)
		api.PATCH("/players/:userId/connection", playerHandler.SetConnection)
	}
	return router
}

func TestRoomHandler_CreateRoom_Success(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	router := setupRouter(mockRoomRepo, mockPlayerRepo)

	mockRoomRepo.On("IsCodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	mockRoomRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Room")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Room).ID = 1 }).
		Return(nil).Once()
	mockPlayerRepo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Player")).Return(nil).Once()

	body := bytes.NewBufferString(`{"roomName": "Game Night", "username": "the_host"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/rooms", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: 响应信封和房间字段
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	room, ok := resp["room"].(map[string]any)
	require.True(t, ok, "响应应包含 room 对象")
	assert.Len(t, room["roomCode"], 6, "邀请码应为 6 位")
	assert.NotEmpty(t, room["adminId"], "未提供 adminId 时服务端应分配")

	mockRoomRepo.AssertExpectations(t)
	mockPlayerRepo.AssertExpectations(t)
}

func TestRoomHandler_CreateRoom_MissingRoomName(t *testing.T) {
	// Arrange
	router := setupRouter(new(mocks.RoomRepository), new(mocks.PlayerRepository))

	body := bytes.NewBufferString(`{"username": "the_host"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/rooms", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRoomHandler_JoinRoom_InvalidCodeReturns404(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	router := setupRouter(mockRoomRepo, mockPlayerRepo)

	mockRoomRepo.On("FindByCode", mock.Anything, "ZZZZZZ").Return(nil, repository.ErrRoomNotFound).Once()

	body := bytes.NewBufferString(`{"inviteCode": "ZZZZZZ", "username": "guest_one"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/rooms/join", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert: 不存在的邀请码映射为 404
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRoomHandler_JoinRoom_WrongCodeLengthRejectedEarly(t *testing.T) {
	// Arrange: 长度不是 6 的邀请码在绑定阶段即被拒绝，不触达存储层
	mockRoomRepo := new(mocks.RoomRepository)
	router := setupRouter(mockRoomRepo, new(mocks.PlayerRepository))

	body := bytes.NewBufferString(`{"inviteCode": "SHORT", "username": "guest_one"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/rooms/join", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRoomRepo.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
}

func TestRoomHandler_JoinRoom_FullRoomReturns409(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	router := setupRouter(mockRoomRepo, mockPlayerRepo)

	roomInDb := &domain.Room{ID: 2, Code: "FULL01"}
	full := make([]domain.Player, domain.MaxPlayers)
	mockRoomRepo.On("FindByCode", mock.Anything, "FULL01").Return(roomInDb, nil).Once()
	mockPlayerRepo.On("FindConnectedByRoom", mock.Anything, uint(2)).Return(full, nil).Once()

	body := bytes.NewBufferString(`{"inviteCode": "FULL01", "username": "latecomer"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/rooms/join", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRoomHandler_ListGameModes(t *testing.T) {
	// Arrange
	router := setupRouter(new(mocks.RoomRepository), new(mocks.PlayerRepository))

	req, _ := http.NewRequest(http.MethodGet, "/api/gamemodes", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success   bool              `json:"success"`
		GameModes []domain.GameMode `json:"gameModes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.GameModes, len(domain.GameModes), "应返回完整的模式目录")
}

func TestPlayerHandler_SetConnection_Success(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	router := setupRouter(mockRoomRepo, mockPlayerRepo)

	mockPlayerRepo.On("SetConnected", mock.Anything, "user-uuid-1", false).Return(nil).Once()

	body := bytes.NewBufferString(`{"connected": false}`)
	req, _ := http.NewRequest(http.MethodPatch, "/api/players/user-uuid-1/connection", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	mockPlayerRepo.AssertExpectations(t)
}

func TestPlayerHandler_SetConnection_UnknownPlayerReturns404(t *testing.T) {
	// Arrange
	mockRoomRepo := new(mocks.RoomRepository)
	mockPlayerRepo := new(mocks.PlayerRepository)
	router := setupRouter(mockRoomRepo, mockPlayerRepo)

	mockPlayerRepo.On("SetConnected", mock.Anything, "ghost", true).Return(repository.ErrPlayerNotFound).Once()

	body := bytes.NewBufferString(`{"connected": true}`)
	req, _ := http.NewRequest(http.MethodPatch, "/api/players/ghost/connection", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}
