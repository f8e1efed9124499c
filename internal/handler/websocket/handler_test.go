package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/astrofinix/Revelax/internal/domain"
	wsHandler "github.com/astrofinix/Revelax/internal/handler/websocket"
	"github.com/astrofinix/Revelax/internal/hub"
	"github.com/astrofinix/Revelax/internal/repository"
	"github.com/astrofinix/Revelax/internal/repository/mocks"
	"github.com/astrofinix/Revelax/internal/service"
)

// 等待异步注册完成的轮询参数
const (
	testWait = 2 * time.Second
	testTick = 10 * time.Millisecond
)

// noopCoordinator 满足 Hub 的依赖；连接在测试结束时随服务器关闭，
// 断线协议的行为由 hub 包自己的测试覆盖。
type noopCoordinator struct{}

func (noopCoordinator) TearDownRoom(ctx context.Context, roomID uint, roomCode string) error {
	return nil
}
func (noopCoordinator) ReassignAdmin(ctx context.Context, roomID uint) (*domain.Player, error) {
	return nil, nil
}

func setupWsRouter(mockRoomRepo *mocks.RoomRepository) (*gin.Engine, *hub.Hub) {
	gin.SetMode(gin.TestMode)
	h := hub.NewHub(noopCoordinator{}, nil, nil)
	roomService := service.NewRoomService(mockRoomRepo, new(mocks.PlayerRepository))
	handler := wsHandler.NewWebSocketHandler(h, roomService)

	router := gin.New()
	router.GET("/ws/room/:code", handler.HandleConnection)
	return router, h
}

func TestWebSocketHandler_UnknownRoomRejectedBeforeUpgrade(t *testing.T) {
	// Arrange: 房间在存储层不存在，应在升级前以普通 HTTP 404 拒绝
	mockRoomRepo := new(mocks.RoomRepository)
	mockRoomRepo.On("FindByCode", mock.Anything, "NOSUCH").Return(nil, repository.ErrRoomNotFound).Once()
	router, h := setupWsRouter(mockRoomRepo)

	req, _ := http.NewRequest(http.MethodGet, "/ws/room/NOSUCH?userId=user-a", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, h.ConnectionCount("NOSUCH"), "被拒绝的连接不得进入 Hub")
	mockRoomRepo.AssertExpectations(t)
}

func TestWebSocketHandler_StoreFailureRejectedBeforeUpgrade(t *testing.T) {
	// Arrange: 存储层不可用时同样拒绝，绝不注册未验证的连接
	mockRoomRepo := new(mocks.RoomRepository)
	mockRoomRepo.On("FindByCode", mock.Anything, "ROOM01").Return(nil, assert.AnError).Once()
	router, h := setupWsRouter(mockRoomRepo)

	req, _ := http.NewRequest(http.MethodGet, "/ws/room/ROOM01?userId=user-a", nil)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, h.ConnectionCount("ROOM01"))
}

func TestWebSocketHandler_ValidRoomAcceptsConnection(t *testing.T) {
	// Arrange: 真实的 WebSocket 握手，连接应被注册进对应房间
	mockRoomRepo := new(mocks.RoomRepository)
	roomInDb := &domain.Room{ID: 1, Code: "ROOM01", AdminID: "user-a"}
	mockRoomRepo.On("FindByCode", mock.Anything, "ROOM01").Return(roomInDb, nil).Once()
	router, h := setupWsRouter(mockRoomRepo)

	server := httptest.NewServer(router)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/room/ROOM01?userId=user-a"

	// Act
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "握手应成功")
	defer conn.Close()
	defer resp.Body.Close()

	// Assert
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	assert.Eventually(t, func() bool {
		return h.ConnectionCount("ROOM01") == 1
	}, testWait, testTick, "连接应出现在 Hub 注册表中")
}
