package domain

import "time"

// 房间状态：waiting -> active -> completed
const (
	RoomStateWaiting   = "waiting"
	RoomStateActive    = "active"
	RoomStateCompleted = "completed"
)

// MaxPlayers 单个房间允许的最大玩家数。
const MaxPlayers = 8

// Room 表示一个派对卡牌游戏房间。
// 房间的持久记录是存储层的"真相"；实时连接拓扑由 hub 单独维护，两者只允许
// 在一次断线处理周期内短暂不一致。
type Room struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                                        // 房间唯一标识符 (主键，存储层分配)
	Code       string    `gorm:"uniqueIndex:idx_room_code;size:191;not null" json:"roomCode"` // 6 位邀请码，必须唯一且不能为空
	Name       string    `gorm:"size:191;not null" json:"roomName"`                           // 房间名称
	AdminID    string    `gorm:"size:64;index" json:"adminId"`                                // 当前管理员的玩家 UserID (仅在管理员切换的瞬间可能为空)
	State      string    `gorm:"size:16;not null;default:waiting" json:"gameState"`           // 房间状态 (waiting/active/completed)
	GameMode   string    `gorm:"size:32" json:"gameMode"`                                     // 游戏模式 (见 gamemode.go)
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`                             // 房间创建时间 (GORM 自动填充)
	LastActive time.Time `gorm:"index" json:"-"`                                              // 房间最后活跃时间 (用于清理不活跃房间，添加索引)
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`                                     // 记录最后更新时间 (GORM 自动填充)
}
