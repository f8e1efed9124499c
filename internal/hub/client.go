package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client 代表一个连接到 Hub 的 WebSocket 客户端。
// 一条连接在注册时绑定到且只绑定到一个房间邀请码。
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	roomID   uint   // 房间记录的 ID (升级连接前从存储层取得)
	roomCode string // 房间邀请码
	userID   string // 玩家的 UserID

	send chan []byte // 向此客户端发送消息的缓冲通道

	sendMu     sync.Mutex // 保护 send 通道的关闭状态
	sendClosed bool
}

// NewClient 创建一个新的 Client 实例
func NewClient(hub *Hub, conn *websocket.Conn, roomID uint, roomCode string, userID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		roomID:   roomID,
		roomCode: roomCode,
		userID:   userID,
		send:     make(chan []byte, 256),
	}
}

// Run 启动客户端的读写 goroutine
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// trySend 非阻塞地把消息放入发送队列。
// 通道已关闭或已满时返回 false，消息被丢弃 (广播是尽力而为的)。
func (c *Client) trySend(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend 关闭发送通道，WritePump 随之退出。重复调用安全。
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// CloseConn 直接关闭底层 WebSocket 连接。
func (c *Client) CloseConn() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// ReadPump 从 WebSocket 连接读取消息直到连接关闭。
// 核心协议没有定义任何客户端到服务端的消息类型，读取循环的作用是
// 消费 Pong、发现断线；退出时触发断线协议。它在自己的 goroutine 中运行。
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "room_code": c.roomCode}).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	// 初始读取超时和 Pong 处理：静默的对端会在 pongWait 内被判定断线
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"user_id": c.userID, "room_code": c.roomCode})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			break // 退出循环，触发 defer 中的注销
		}
		// 收到的游戏消息不属于核心协议，直接丢弃
	}
}

// WritePump 将消息从 send 通道泵送到 WebSocket 连接，并定期发送 Ping。
// 它在自己的 goroutine 中运行。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithFields(logrus.Fields{"user_id": c.userID, "room_code": c.roomCode}).Debug("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// send 通道已被 Hub 关闭 (注销时)
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"user_id": c.userID, "room_code": c.roomCode}).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				// Ping 发不出去，连接多半已经断了
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}

func (c *Client) RoomID() uint     { return c.roomID }
func (c *Client) RoomCode() string { return c.roomCode }
func (c *Client) UserID() string   { return c.userID }
