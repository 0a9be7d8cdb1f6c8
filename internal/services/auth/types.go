package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUserNotFound  = errors.New("admin user not found")
	ErrAccountLocked = errors.New("account temporarily locked")
	ErrCodeInvalid   = errors.New("reset code is invalid or expired")
)

type AdminUser struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

type AccessClaims struct {
	UserID    int64
	SID       string
	ExpiresAt time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}
