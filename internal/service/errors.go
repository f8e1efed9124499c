package service

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrInvalidInviteCode  = errors.New("invalid or expired invite code")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique invite code")
	ErrRoomFull           = errors.New("room is full")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidGameMode    = errors.New("unknown game mode")
	ErrInternalServer     = errors.New("internal server error")
)
