package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 在线记录的保底过期时间。正常情况下条目在断线时被显式移除，
// 过期时间只用于兜住进程崩溃后遗留的脏数据。
const presenceTTL = 24 * time.Hour

// RedisPresenceRepository 是 PresenceRepository 接口的 Redis 实现。
// 每个房间一个 Set 存放在线玩家的 UserID，另用一个全局 Set 做房间索引，
// 供清扫任务遍历。
type RedisPresenceRepository struct {
	client    *redis.Client
	keyPrefix string // Redis key 前缀，方便多环境共用一个实例
}

// NewRedisPresenceRepository 创建 RedisPresenceRepository 实例
func NewRedisPresenceRepository(client *redis.Client, keyPrefix string) *RedisPresenceRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisPresenceRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "rvx:" // 默认前缀
	}
	return &RedisPresenceRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// --- Key Generation Helpers ---

func (r *RedisPresenceRepository) roomPresenceKey(roomCode string) string {
	return fmt.Sprintf("%sroom:%s:conns", r.keyPrefix, roomCode)
}

func (r *RedisPresenceRepository) roomIndexKey() string {
	return fmt.Sprintf("%srooms", r.keyPrefix)
}

// --- PresenceRepository Interface Implementation ---

// AddConnection 将连接记入房间的在线集合，并把房间加入索引。
func (r *RedisPresenceRepository) AddConnection(ctx context.Context, roomCode string, userID string) error {
	key := r.roomPresenceKey(roomCode)
	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, key, userID)
	pipe.Expire(ctx, key, presenceTTL)
	pipe.SAdd(ctx, r.roomIndexKey(), roomCode)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: add connection %s to room %s: %w", userID, roomCode, err)
	}
	return nil
}

// RemoveConnection 从房间的在线集合移除连接；集合清空时同步移出索引。
func (r *RedisPresenceRepository) RemoveConnection(ctx context.Context, roomCode string, userID string) error {
	key := r.roomPresenceKey(roomCode)
	if err := r.client.SRem(ctx, key, userID).Err(); err != nil {
		return fmt.Errorf("redis: remove connection %s from room %s: %w", userID, roomCode, err)
	}
	count, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis: count connections for room %s: %w", roomCode, err)
	}
	if count == 0 {
		if err := r.client.SRem(ctx, r.roomIndexKey(), roomCode).Err(); err != nil {
			return fmt.Errorf("redis: remove room %s from index: %w", roomCode, err)
		}
	}
	return nil
}

// ConnectionCount 返回房间当前记录的在线连接数。
func (r *RedisPresenceRepository) ConnectionCount(ctx context.Context, roomCode string) (int64, error) {
	count, err := r.client.SCard(ctx, r.roomPresenceKey(roomCode)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: count connections for room %s: %w", roomCode, err)
	}
	return count, nil
}

// ClearRoom 清除房间的全部在线记录。
func (r *RedisPresenceRepository) ClearRoom(ctx context.Context, roomCode string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.roomPresenceKey(roomCode))
	pipe.SRem(ctx, r.roomIndexKey(), roomCode)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: clear presence for room %s: %w", roomCode, err)
	}
	return nil
}

// TrackedRooms 返回当前有在线记录的房间邀请码。
func (r *RedisPresenceRepository) TrackedRooms(ctx context.Context) ([]string, error) {
	codes, err := r.client.SMembers(ctx, r.roomIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list tracked rooms: %w", err)
	}
	return codes, nil
}
