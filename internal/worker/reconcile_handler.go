package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/astrofinix/Revelax/internal/repository"
	"github.com/astrofinix/Revelax/internal/tasks"
)

// 清扫任务认定房间"闲置"的时间窗口。窗口内没有任何活跃迹象的房间
// 才会被进一步检查，避免误删刚创建还没人连上的房间。
const sweepIdleWindow = 30 * time.Minute

// roomReconciler 是修复逻辑的能力面 (由 service.CoordinationService 实现)。
type roomReconciler interface {
	ReconcileRoom(ctx context.Context, roomID uint, roomCode string) error
}

// ReconcileHandler 处理 room:reconcile 任务：对单个房间执行一次
// 存储层与连接拓扑的对账。
type ReconcileHandler struct {
	coord roomReconciler
}

// NewReconcileHandler 创建 ReconcileHandler 实例
func NewReconcileHandler(coord roomReconciler) *ReconcileHandler {
	if coord == nil {
		panic("reconciler cannot be nil for ReconcileHandler")
	}
	return &ReconcileHandler{coord: coord}
}

// ProcessTask 实现 asynq.Handler
func (h *ReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.RoomReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// 负载损坏，重试没有意义
		return fmt.Errorf("unmarshal reconcile payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"component": "worker",
		"task_type": t.Type(),
		"room_id":   payload.RoomID,
		"room_code": payload.RoomCode,
	})
	logCtx.Info("Reconciling room")

	if err := h.coord.ReconcileRoom(ctx, payload.RoomID, payload.RoomCode); err != nil {
		logCtx.WithError(err).Warn("Room reconcile failed, will retry")
		return err
	}
	return nil
}

// SweepHandler 处理 room:sweep 任务：遍历闲置房间，对没有活跃连接的
// 逐个执行对账 (对账会销毁确实空了的房间)。兜住错过断线事件的情况，
// 例如协调器进程崩溃后遗留的房间记录。
type SweepHandler struct {
	roomRepo repository.RoomRepository
	presence repository.PresenceRepository
	coord    roomReconciler
}

// NewSweepHandler 创建 SweepHandler 实例
func NewSweepHandler(roomRepo repository.RoomRepository, presence repository.PresenceRepository, coord roomReconciler) *SweepHandler {
	if roomRepo == nil {
		panic("room repository cannot be nil for SweepHandler")
	}
	if coord == nil {
		panic("reconciler cannot be nil for SweepHandler")
	}
	return &SweepHandler{roomRepo: roomRepo, presence: presence, coord: coord}
}

// ProcessTask 实现 asynq.Handler
func (h *SweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithFields(logrus.Fields{"component": "worker", "task_type": t.Type()})

	cutoff := time.Now().Add(-sweepIdleWindow)
	rooms, err := h.roomRepo.FindIdleSince(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Sweep: failed to list idle rooms")
		return err
	}
	if len(rooms) == 0 {
		logCtx.Debug("Sweep: no idle rooms")
		return nil
	}

	swept := 0
	for _, room := range rooms {
		if h.presence != nil {
			count, err := h.presence.ConnectionCount(ctx, room.Code)
			if err != nil {
				logCtx.WithError(err).WithField("room_code", room.Code).Warn("Sweep: presence check failed, skipping room")
				continue
			}
			if count > 0 {
				// 还有活跃连接，只是长时间没有成员变动
				continue
			}
		}
		if err := h.coord.ReconcileRoom(ctx, room.ID, room.Code); err != nil {
			logCtx.WithError(err).WithField("room_code", room.Code).Warn("Sweep: reconcile failed")
			continue
		}
		swept++
	}

	logCtx.WithFields(logrus.Fields{"candidates": len(rooms), "reconciled": swept}).Info("Sweep completed")
	return nil
}
