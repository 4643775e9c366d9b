package accounts

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

const (
	MaxUsernameLen   = 150
	MinPasswordLen   = 8
	MaxPasswordBytes = 72
)
