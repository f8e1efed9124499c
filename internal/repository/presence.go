package repository

import "context"

// PresenceRepository 维护实时连接拓扑在 Redis 中的"尽力而为"镜像。
// hub 的内存注册表才是进程内的权威；这份镜像供后台清扫任务跨进程查询
// 房间是否还有活跃连接，所有写入失败都只记录日志，不影响协调流程。
type PresenceRepository interface {
	// AddConnection 将一条连接记入房间的在线集合。
	AddConnection(ctx context.Context, roomCode string, userID string) error

	// RemoveConnection 从房间的在线集合中移除一条连接。
	RemoveConnection(ctx context.Context, roomCode string, userID string) error

	// ConnectionCount 返回房间当前记录的在线连接数。
	ConnectionCount(ctx context.Context, roomCode string) (int64, error)

	// ClearRoom 清除房间的全部在线记录 (房间销毁时调用)。
	ClearRoom(ctx context.Context, roomCode string) error

	// TrackedRooms 返回当前有在线记录的房间邀请码列表。
	TrackedRooms(ctx context.Context) ([]string, error)
}
