package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roadsentinel/roadsentinel/internal/metrics"
)

// Authentication failures. Callers surface all four the same way.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInvalidSession  = errors.New("invalid session")
	ErrSessionExpired  = errors.New("session expired")
)

// ErrSessionIDRequired is returned by ExchangeSession for an empty session id.
var ErrSessionIDRequired = errors.New("session_id required")

// IsAuthFailure reports whether err is one of the errors Authenticate returns
// for a caller that is not authenticated.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrUserNotFound)
}

// Service provides session authentication and exchange.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	provider IdentityProvider
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new auth Service. Sessions it creates expire after ttl.
func NewService(users UserRepository, sessions SessionRepository, provider IdentityProvider, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		provider: provider,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate resolves a bearer token to its user. It never writes.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	sess, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	if sess.ExpiresAt.UTC().Before(s.now()) {
		return nil, ErrSessionExpired
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up session user: %w", err)
	}

	return u, nil
}

// ExchangeSession trades an identity provider session id for a local session.
// The user is upserted by email and a new session is added; existing sessions
// are left alone.
func (s *Service) ExchangeSession(ctx context.Context, sessionID string) (*Exchange, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}

	ps, err := s.provider.Resolve(ctx, sessionID)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrInvalidExternalSession) {
			outcome = "rejected"
		}
		metrics.SessionExchanges.WithLabelValues(outcome).Inc()
		return nil, err
	}

	u := &User{
		ID:        NewUserID(),
		Email:     ps.Email,
		Name:      ps.Name,
		Picture:   ps.Picture,
		CreatedAt: s.now(),
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		metrics.SessionExchanges.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("storing user: %w", err)
	}

	now := s.now()
	sess := &Session{
		UserID:    u.ID,
		TokenHash: HashToken(ps.SessionToken),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		metrics.SessionExchanges.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("storing session: %w", err)
	}

	metrics.SessionExchanges.WithLabelValues("success").Inc()
	return &Exchange{User: u, Token: ps.SessionToken, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout deletes every session for token. An empty token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.sessions.DeleteByTokenHash(ctx, HashToken(token)); err != nil {
		return fmt.Errorf("deleting sessions: %w", err)
	}
	return nil
}
