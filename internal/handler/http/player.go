package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/service"
)

// PlayerHandler 封装了玩家状态相关的 HTTP 处理逻辑
type PlayerHandler struct {
	roomService *service.RoomService
}

// NewPlayerHandler 创建 PlayerHandler 实例
func NewPlayerHandler(roomService *service.RoomService) *PlayerHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for PlayerHandler")
	}
	return &PlayerHandler{roomService: roomService}
}

// SetConnectionRequest 定义更新在线状态请求的结构体
type SetConnectionRequest struct {
	Connected *bool `json:"connected" binding:"required"`
}

// SetConnection 更新玩家在存储层的 is_connected 标记。
// 这是实时通道之外对玩家在线状态的显式写入口 (例如客户端退到后台时)。
func (h *PlayerHandler) SetConnection(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		ErrorResponse(c, http.StatusBadRequest, "userId is required")
		return
	}

	var req SetConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.SetConnection: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: connected is required")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "connected": *req.Connected})

	if err := h.roomService.SetPlayerConnected(c.Request.Context(), userID, *req.Connected); err != nil {
		logCtx.WithError(err).Warn("Handler.SetConnection: Failed to update connection flag")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.SetConnection: Connection flag updated")
	SuccessResponse(c, http.StatusOK, gin.H{})
}
