package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/domain"
	"github.com/astrofinix/Revelax/internal/service"
)

// RoomHandler 封装了与房间管理相关的 HTTP 处理逻辑
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

// CreateRoomRequest 定义创建房间请求的结构体。
// adminId 允许客户端预先生成自己的身份标识；缺省时由服务端分配。
type CreateRoomRequest struct {
	RoomName string `json:"roomName" binding:"required"`
	AdminID  string `json:"adminId"`
	Username string `json:"username"`
	GameMode string `json:"gameMode"`
}

// CreateRoom 处理创建新房间的请求：生成唯一邀请码、创建房间记录，
// 并把创建者作为第一名玩家 (管理员) 写入。
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: roomName is required")
		return
	}
	logCtx := logrus.WithField("room_name", req.RoomName)

	room, player, err := h.roomService.CreateRoom(c.Request.Context(), req.RoomName, req.AdminID, req.Username, req.GameMode)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.CreateRoom: Failed to create room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithFields(logrus.Fields{"room_id": room.ID, "room_code": room.Code}).Info("Handler.CreateRoom: Room created successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"room":   room,
		"player": player,
	})
}

// JoinRoomRequest 定义加入房间请求的结构体
type JoinRoomRequest struct {
	InviteCode string `json:"inviteCode" binding:"required,len=6"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
}

// JoinRoom 处理玩家通过邀请码加入房间的请求。
// 加入只写存储层记录；实时通道由客户端随后单独建立。
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.JoinRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: inviteCode must be 6 characters")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"invite_code": req.InviteCode, "user_id": req.UserID})

	room, player, err := h.roomService.JoinRoom(c.Request.Context(), req.InviteCode, req.UserID, req.Username)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.JoinRoom: Failed to join room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("room_id", room.ID).Info("Handler.JoinRoom: Player joined room successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"room":   room,
		"player": player,
	})
}

// ListGameModes 返回内置的游戏模式目录。
func (h *RoomHandler) ListGameModes(c *gin.Context) {
	modes := make([]domain.GameMode, 0, len(domain.GameModes))
	for _, mode := range domain.GameModes {
		modes = append(modes, mode)
	}
	SuccessResponse(c, http.StatusOK, gin.H{"gameModes": modes})
}
