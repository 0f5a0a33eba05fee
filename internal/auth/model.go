package auth

import "time"

// User represents a row in the users table.
type User struct {
	ID        string
	Email     string
	Name      string
	Picture   *string
	CreatedAt time.Time
}

// Session represents a row in the user_sessions table. Only the digest of the
// bearer token is stored.
type Session struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Exchange is the result of trading an identity provider session id for a
// local session.
type Exchange struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
