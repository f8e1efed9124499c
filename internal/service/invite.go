package service

import (
	"crypto/rand"
	"fmt"
)

// 邀请码字母表与长度。6 位 A-Z0-9，36^6 ≈ 21 亿种组合。
const (
	inviteCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	inviteCodeLength   = 6
)

// GenerateInviteCode 生成一个 6 位随机邀请码。
// 纯函数，无外部状态；唯一性由调用方对照存储层检查。
func GenerateInviteCode() (string, error) {
	b := make([]byte, inviteCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	for i := range b {
		b[i] = inviteCodeAlphabet[int(b[i])%len(inviteCodeAlphabet)]
	}
	return string(b), nil
}
