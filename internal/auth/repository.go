package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrSessionNotFound is returned when no session matches a token digest.
var ErrSessionNotFound = errors.New("session not found")

// UserRepository provides operations on the users table.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// Upsert inserts u, or updates name and picture of the user with the same
	// email. u is overwritten with the stored row.
	Upsert(ctx context.Context, u *User) error
}

// SessionRepository provides operations on the user_sessions table.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error)
}
