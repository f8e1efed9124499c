package service

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	allDigits       = regexp.MustCompile(`^\d+$`)
)

// 保留字和不当内容，命中即拒绝 (大小写不敏感，子串匹配)。
var blockedUsernameParts = []string{
	"admin",
	"moderator",
	"support",
	"fuck",
	"shit",
	"asshole",
}

// ValidateUsername 按规则校验用户名：2-12 个字符，只允许字母、数字和下划线，
// 不能是纯数字，且不得包含保留字。返回的错误包装了 ErrInvalidUsername，
// 错误文本可以直接展示给用户。
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	switch {
	case len(trimmed) < 2:
		return fmt.Errorf("%w: must be at least 2 characters long", ErrInvalidUsername)
	case len(trimmed) > 12:
		return fmt.Errorf("%w: cannot exceed 12 characters", ErrInvalidUsername)
	case !usernamePattern.MatchString(trimmed):
		return fmt.Errorf("%w: only letters, numbers, and underscores are allowed", ErrInvalidUsername)
	case allDigits.MatchString(trimmed):
		return fmt.Errorf("%w: cannot be only numbers", ErrInvalidUsername)
	}

	lower := strings.ToLower(trimmed)
	for _, part := range blockedUsernameParts {
		if strings.Contains(lower, part) {
			return fmt.Errorf("%w: contains inappropriate content", ErrInvalidUsername)
		}
	}
	return nil
}

var (
	usernameAdjectives = []string{
		"Cool", "Brave", "Funny", "Clever", "Wild",
		"Smart", "Quick", "Sharp", "Bold", "Sly",
	}
	usernameNouns = []string{
		"Player", "Gamer", "Hero", "Star", "Wolf",
		"Tiger", "Fox", "Eagle", "Lion", "Shark",
	}
)

// GenerateRandomUsername 生成一个随机用户名，供客户端未提供时兜底使用。
func GenerateRandomUsername() string {
	adjective := usernameAdjectives[rand.Intn(len(usernameAdjectives))]
	noun := usernameNouns[rand.Intn(len(usernameNouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, rand.Intn(999))
}
