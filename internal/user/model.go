package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// User represents an account in the system. Identity is deliberately thin:
// the booking core only needs a stable user ID to tie requesters and owners to.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
