package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roadsentinel/roadsentinel/internal/store"
)

// PostgresRepository implements UserRepository and SessionRepository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgresRepository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// NewUserID generates a user id.
func NewUserID() string {
	return store.NewID("user", 12)
}

// GetByID retrieves a single user by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT user_id, email, name, picture, created_at
		FROM users
		WHERE user_id = $1`

	var u User
	err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// Upsert inserts a user keyed by email. On conflict the existing id and
// created_at are kept and name and picture are replaced.
func (r *PostgresRepository) Upsert(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = NewUserID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (user_id, email, name, picture, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE
		SET name = EXCLUDED.name, picture = EXCLUDED.picture
		RETURNING user_id, email, name, picture, created_at`

	err := r.pool.QueryRow(ctx, query, u.ID, u.Email, u.Name, u.Picture, u.CreatedAt).
		Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	return nil
}

// Create inserts a new session.
func (r *PostgresRepository) Create(ctx context.Context, s *Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO user_sessions (user_id, session_token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, s.UserID, s.TokenHash, s.ExpiresAt, s.CreatedAt); err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// GetByTokenHash returns the most recently created session with the given digest.
func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	query := `
		SELECT user_id, session_token_hash, expires_at, created_at
		FROM user_sessions
		WHERE session_token_hash = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var s Session
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if store.IsNoRows(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}

	return &s, nil
}

// DeleteByTokenHash removes every session with the given digest and reports
// how many were removed.
func (r *PostgresRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM user_sessions WHERE session_token_hash = $1`, tokenHash)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
