package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量
const (
	// TypeRoomReconcile 修复一次失败的断线处理周期留下的不一致
	// (残留的空房间记录或指向离线玩家的管理员指针)。
	TypeRoomReconcile = "room:reconcile"
	// TypeRoomSweep 周期性扫描不再有活跃连接的房间并销毁。
	TypeRoomSweep = "room:sweep"
)

// RoomReconcilePayload 定义了房间修复任务的数据结构
type RoomReconcilePayload struct {
	RoomID   uint   `json:"room_id"`
	RoomCode string `json:"room_code"`
}

// NewRoomReconcileTask 创建一个针对单个房间的修复任务
func NewRoomReconcileTask(roomID uint, roomCode string) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomReconcilePayload{RoomID: roomID, RoomCode: roomCode})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoomReconcile, payload), nil
}

// NewRoomSweepTask 创建一个全量清扫任务 (无负载)
func NewRoomSweepTask() *asynq.Task {
	return asynq.NewTask(TypeRoomSweep, nil)
}

// Enqueuer 封装 asynq.Client，是 hub 向后台调度修复任务的入口。
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer 创建 Enqueuer 实例
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	if client == nil {
		panic("asynq client cannot be nil for Enqueuer")
	}
	return &Enqueuer{client: client}
}

// EnqueueRoomReconcile 调度一次指定房间的修复。
func (e *Enqueuer) EnqueueRoomReconcile(roomID uint, roomCode string) error {
	task, err := NewRoomReconcileTask(roomID, roomCode)
	if err != nil {
		return fmt.Errorf("build reconcile task for room %d: %w", roomID, err)
	}
	if _, err := e.client.Enqueue(task, asynq.Queue("critical"), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue reconcile task for room %d: %w", roomID, err)
	}
	return nil
}
