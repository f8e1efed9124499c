package domain

// GameMode 描述一种对话卡牌玩法。卡牌内容本身不在本服务范围内，
// 这里只保留目录信息供创建房间时选择。
type GameMode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CardCount   int    `json:"cardCount"`
}

// GameModes 是内置的游戏模式目录。
var GameModes = map[string]GameMode{
	"fil_chill": {
		ID:          "fil_chill",
		Name:        "🍻 The Filipino Chillnuman",
		Description: "Casual bardagulan questions, dares to get everyone talking and laughing. Perfect for a chaos-and-fun-filled gathering.",
		CardCount:   20,
	},
	"yap_sesh": {
		ID:          "yap_sesh",
		Name:        "💬 Yap Session",
		Description: "A lively mix of quirky and easygoing questions to spark fun conversations and endless laughs. Perfect for warming up the group and setting the vibe.",
		CardCount:   25,
	},
	"night_talk": {
		ID:          "night_talk",
		Name:        "🌙 Deep Night Talks",
		Description: "Thought-provoking questions for meaningful conversations. Best played during those late-night heart-to-heart moments.",
		CardCount:   30,
	},
	"love_exp": {
		ID:          "love_exp",
		Name:        "❤️ The Love (?) Experiment",
		Description: "Inspired by the 36 questions that lead to love. Delve into questions designed to create meaningful connections.",
		CardCount:   36,
	},
}

// DefaultGameMode 未指定模式时使用的默认值。
const DefaultGameMode = "yap_sesh"

// IsValidGameMode 检查给定的模式 ID 是否存在于目录中。
func IsValidGameMode(id string) bool {
	_, ok := GameModes[id]
	return ok
}
