package websocket

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/hub"
	"github.com/astrofinix/Revelax/internal/service"
)

// WebSocketHandler 负责处理 WebSocket 升级请求和客户端注册
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	roomService *service.RoomService // 升级连接前验证房间是否存在
}

// NewWebSocketHandler 创建 WebSocketHandler 实例
func NewWebSocketHandler(h *hub.Hub, roomService *service.RoomService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if roomService == nil {
		panic("RoomService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: Implement proper origin checking for production
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:    upgrader,
		hub:         h,
		roomService: roomService,
	}
}

// HandleConnection 处理 WebSocket 连接请求。
// URL 格式: /ws/room/{code}?userId=...，邀请码取自路径的最后一段。
// 房间必须先在存储层验证存在：不存在或存储层不可用时拒绝连接，
// 绝不把未验证的连接注册进 Hub。
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	roomCode := c.Param("code")
	userID := c.Query("userId")
	logCtx := logrus.WithFields(logrus.Fields{"room_code": roomCode, "user_id": userID})

	if roomCode == "" {
		ErrorJSON(c, http.StatusBadRequest, "room code is required")
		return
	}

	// 1. 验证房间存在 (此时尚未升级，可以返回普通 HTTP 错误)
	room, err := h.roomService.FindRoomByCode(c.Request.Context(), roomCode)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			logCtx.WithError(err).Warn("WS Handler: Room not found")
			ErrorJSON(c, http.StatusNotFound, "Room not found")
		} else {
			logCtx.WithError(err).Error("WS Handler: Error checking room existence")
			ErrorJSON(c, http.StatusInternalServerError, "Failed to validate room")
		}
		return
	}
	logCtx = logCtx.WithField("room_id", room.ID)

	// 2. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已经写了 HTTP 错误响应，这里只记录日志
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	// 3. 注册到 Hub 并启动读写 goroutine。
	// 之后这条连接的生命周期就由 readPump/writePump 接管了。
	client := hub.NewClient(h.hub, conn, room.ID, room.Code, userID)
	h.hub.Register(client)
	client.Run()
}

// ErrorJSON 以 JSON 返回升级前的错误。
func ErrorJSON(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
