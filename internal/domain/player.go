package domain

import "time"

// Player 表示某个房间内的一名玩家。
// 一个 Player 终生属于一个 Room；IsConnected 是存储层对玩家在线状态的
// 权威记录（实时连接本身不落库）。
type Player struct {
	ID          uint      `gorm:"primaryKey" json:"-"`                               // 记录主键 (存储层分配)
	UserID      string    `gorm:"uniqueIndex:idx_player_user;size:64;not null" json:"userId"` // 玩家的不透明身份标识 (UUID)
	RoomID      uint      `gorm:"index;not null" json:"roomId"`                      // 所属房间 ID (外键关联 Room.ID)
	Username    string    `gorm:"size:32;not null" json:"username"`                  // 显示用户名
	IsConnected bool      `gorm:"not null;default:false" json:"isConnected"`         // 在线状态 (存储侧的真相来源)
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joinedAt"`                    // 加入时间 (GORM 自动填充)
}
