package dto

// AdminChangedEvent 表示管理员变更时广播给房间内所有客户端的消息结构。
// 这是目前核心协议中唯一的服务端推送事件类型。
type AdminChangedEvent struct {
	Type       string `json:"type"` // 固定为 "admin_changed"
	NewAdminID string `json:"newAdminId"`
}

// EventTypeAdminChanged AdminChangedEvent.Type 的取值。
const EventTypeAdminChanged = "admin_changed"

// NewAdminChangedEvent 构造一条管理员变更事件。
func NewAdminChangedEvent(newAdminID string) AdminChangedEvent {
	return AdminChangedEvent{Type: EventTypeAdminChanged, NewAdminID: newAdminID}
}
