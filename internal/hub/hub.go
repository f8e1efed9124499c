package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/domain"
	"github.com/astrofinix/Revelax/internal/dto"
	"github.com/astrofinix/Revelax/internal/repository"
)

// 包级别的 WebSocket 常量，供 hub 和 client 使用
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Coordinator 是断线协议中面向存储层的能力面 (由 service.CoordinationService 实现)。
type Coordinator interface {
	TearDownRoom(ctx context.Context, roomID uint, roomCode string) error
	ReassignAdmin(ctx context.Context, roomID uint) (*domain.Player, error)
}

// ReconcileEnqueuer 在断线周期的持久化步骤失败后安排一次后台修复。
type ReconcileEnqueuer interface {
	EnqueueRoomReconcile(roomID uint, roomCode string) error
}

// roomEntry 是单个房间的实时连接集合。
// entry 自带互斥锁：对集合的每次变更和随之而来的"房间是否空了"判断在
// 这把锁下作为一个原子单元执行；不同房间互不阻塞。
type roomEntry struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool // 置位后 entry 已从注册表摘除，不再接受新连接
}

// Hub 维护房间邀请码到活跃连接集合的注册表，并执行断线协议：
// 移除连接、空房间销毁、管理员重新指派和事件广播。
// 注册表只描述本进程内的连接拓扑；持久记录始终以存储层为准。
type Hub struct {
	// 顶层锁只保护 rooms map 本身的插入/查找/删除，
	// 不会在持有它的同时去拿任何 entry 的锁。
	mu    sync.RWMutex
	rooms map[string]*roomEntry

	coord      Coordinator
	presence   repository.PresenceRepository // 可为 nil，纯尽力而为的镜像
	reconciler ReconcileEnqueuer             // 可为 nil
}

// NewHub 创建并返回一个新的 Hub 实例
func NewHub(coord Coordinator, presence repository.PresenceRepository, reconciler ReconcileEnqueuer) *Hub {
	if coord == nil {
		panic("Coordinator cannot be nil for Hub")
	}
	return &Hub{
		rooms:      make(map[string]*roomEntry),
		coord:      coord,
		presence:   presence,
		reconciler: reconciler,
	}
}

// entry 返回指定邀请码的 roomEntry，不存在则创建 (ABSENT -> ACTIVE)。
func (h *Hub) entry(roomCode string) *roomEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.rooms[roomCode]
	if !ok {
		e = &roomEntry{clients: make(map[*Client]struct{})}
		h.rooms[roomCode] = e
	}
	return e
}

// lookup 返回指定邀请码的 roomEntry，不存在返回 nil。
func (h *Hub) lookup(roomCode string) *roomEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[roomCode]
}

// removeEntry 把已关闭的 entry 从注册表摘除。
func (h *Hub) removeEntry(roomCode string, e *roomEntry) {
	h.mu.Lock()
	if h.rooms[roomCode] == e {
		delete(h.rooms, roomCode)
	}
	h.mu.Unlock()
}

// Register 将连接加入其房间的注册表。
// 房间记录是否存在由 WebSocket Handler 在升级连接前对照存储层验证，
// 注册本身不产生任何持久化副作用，也不广播。
func (h *Hub) Register(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	for {
		e := h.entry(client.roomCode)
		e.mu.Lock()
		if e.closed {
			// entry 正在被并发的最后一次断线销毁，换一个新的重试
			e.mu.Unlock()
			continue
		}
		e.clients[client] = struct{}{}
		e.mu.Unlock()
		break
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"room_code": client.roomCode,
		"user_id":   client.userID,
	})
	logCtx.Info("Client registered to Hub")

	if h.presence != nil {
		if err := h.presence.AddConnection(context.Background(), client.roomCode, client.userID); err != nil {
			logCtx.WithError(err).Warn("Failed to mirror connection to presence store")
		}
	}
}

// Unregister 执行断线协议。任何导致连接关闭的原因 (客户端主动关闭、
// 网络故障、心跳超时) 最终都会走到这里，且重复调用是无副作用的。
//
// 在 entry 锁下：移除连接并判断集合大小。集合空了就销毁房间
// (ACTIVE -> TORN_DOWN，无广播)；否则从在线玩家中随机指派新管理员并
// 广播 admin_changed。存储层调用失败不回滚内存变更——连接确实已经没了，
// 注册表永远如实反映这一点；落库的缺口记入日志并交给后台修复任务。
func (h *Hub) Unregister(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_code": client.roomCode,
		"room_id":   client.roomID,
		"user_id":   client.userID,
	})

	e := h.lookup(client.roomCode)
	if e == nil {
		logCtx.Debug("Room not found during client unregister")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.clients[client]; !ok {
		// 已经移除过 (重复断线事件)，无事可做
		logCtx.Debug("Client not found in room during unregister")
		return
	}
	delete(e.clients, client)
	client.closeSend()
	logCtx.Info("Client unregistered from Hub")

	ctx := context.Background()
	if h.presence != nil {
		if err := h.presence.RemoveConnection(ctx, client.roomCode, client.userID); err != nil {
			logCtx.WithError(err).Warn("Failed to remove connection from presence store")
		}
	}

	if len(e.clients) == 0 {
		// 最后一个连接离开：先摘除注册表条目再删记录，
		// 不会出现第二次销毁，也没有剩余的人需要通知
		e.closed = true
		h.removeEntry(client.roomCode, e)
		if err := h.coord.TearDownRoom(ctx, client.roomID, client.roomCode); err != nil {
			logCtx.WithError(err).Error("Failed to delete empty room record, scheduling reconcile")
			h.enqueueReconcile(client.roomID, client.roomCode, logCtx)
		}
		logCtx.Info("Room empty, removed from Hub")
		return
	}

	newAdmin, err := h.coord.ReassignAdmin(ctx, client.roomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to reassign admin, scheduling reconcile")
		h.enqueueReconcile(client.roomID, client.roomCode, logCtx)
		return
	}
	if newAdmin == nil {
		// 存储层竞态：玩家都已标记离线，无人可指派，保持现状
		logCtx.Debug("Admin pool empty, no reassignment performed")
		return
	}

	message, err := json.Marshal(dto.NewAdminChangedEvent(newAdmin.UserID))
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal admin_changed event")
		return
	}
	h.broadcastLocked(e, message, logCtx)
}

// broadcastLocked 将消息发给 entry 内的所有连接。调用方必须持有 e.mu。
// 先拷贝接收者快照再逐个非阻塞发送：发送通道已满或已关闭的连接被直接
// 跳过，由其 WritePump 或下一次断线处理善后。
func (h *Hub) broadcastLocked(e *roomEntry, message []byte, logCtx *logrus.Entry) {
	recipients := make([]*Client, 0, len(e.clients))
	for c := range e.clients {
		recipients = append(recipients, c)
	}

	sent := 0
	for _, c := range recipients {
		if c.trySend(message) {
			sent++
		} else {
			logCtx.WithField("receiver_user_id", c.userID).Warn("Client send channel full or closed during broadcast, skipping")
		}
	}
	logCtx.WithFields(logrus.Fields{
		"message_size":    len(message),
		"recipient_count": sent,
	}).Debug("Broadcast delivered")
}

// ConnectionCount 返回指定房间当前注册的连接数 (不存在返回 0)。
func (h *Hub) ConnectionCount(roomCode string) int {
	e := h.lookup(roomCode)
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.clients)
}

// Shutdown 关闭所有房间的全部连接，用于进程优雅退出。
// 不触发断线协议：持久记录留待重启后的清扫任务处理。
func (h *Hub) Shutdown() {
	h.mu.Lock()
	rooms := h.rooms
	h.rooms = make(map[string]*roomEntry)
	h.mu.Unlock()

	for code, e := range rooms {
		e.mu.Lock()
		e.closed = true
		for c := range e.clients {
			c.closeSend()
			c.CloseConn()
		}
		e.clients = make(map[*Client]struct{})
		e.mu.Unlock()
		logrus.WithField("room_code", code).Debug("Room connections closed on shutdown")
	}
	logrus.Info("Hub shut down")
}

func (h *Hub) enqueueReconcile(roomID uint, roomCode string, logCtx *logrus.Entry) {
	if h.reconciler == nil {
		return
	}
	if err := h.reconciler.EnqueueRoomReconcile(roomID, roomCode); err != nil {
		logCtx.WithError(err).Error("Failed to enqueue room reconcile task")
	}
}
