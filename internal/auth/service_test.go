package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsentinel/roadsentinel/internal/auth"
)

// --- Mocks ---

type mockUserRepo struct {
	byID     map[string]*auth.User
	byEmail  map[string]*auth.User
	upsertFn func(ctx context.Context, u *auth.User) error
	getErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byID: map[string]*auth.User{}, byEmail: map[string]*auth.User{}}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*auth.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, u *auth.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, u)
	}
	if existing, ok := m.byEmail[u.Email]; ok {
		existing.Name = u.Name
		existing.Picture = u.Picture
		*u = *existing
		return nil
	}
	stored := *u
	m.byID[u.ID] = &stored
	m.byEmail[u.Email] = &stored
	return nil
}

type mockSessionRepo struct {
	sessions  []auth.Session
	createErr error
	getErr    error
}

func (m *mockSessionRepo) Create(_ context.Context, s *auth.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *mockSessionRepo) GetByTokenHash(_ context.Context, hash string) (*auth.Session, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].TokenHash == hash {
			s := m.sessions[i]
			return &s, nil
		}
	}
	return nil, auth.ErrSessionNotFound
}

func (m *mockSessionRepo) DeleteByTokenHash(_ context.Context, hash string) (int64, error) {
	var kept []auth.Session
	var n int64
	for _, s := range m.sessions {
		if s.TokenHash == hash {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.sessions = kept
	return n, nil
}

type mockProvider struct {
	calls     int
	resolveFn func(ctx context.Context, sessionID string) (*auth.ProviderSession, error)
}

func (m *mockProvider) Resolve(ctx context.Context, sessionID string) (*auth.ProviderSession, error) {
	m.calls++
	return m.resolveFn(ctx, sessionID)
}

// --- Helpers ---

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newService(users *mockUserRepo, sessions *mockSessionRepo, provider auth.IdentityProvider) *auth.Service {
	return auth.NewService(users, sessions, provider, 7*24*time.Hour, auth.WithClock(func() time.Time { return now }))
}

func okProvider(email, token string) *mockProvider {
	return &mockProvider{resolveFn: func(_ context.Context, _ string) (*auth.ProviderSession, error) {
		return &auth.ProviderSession{Email: email, Name: "Asha Rao", SessionToken: token}, nil
	}}
}

// ===== Authenticate =====

func TestAuthenticate_Errors(t *testing.T) {
	users := newMockUserRepo()
	users.byID["user_live"] = &auth.User{ID: "user_live", Email: "live@example.com"}

	sessions := &mockSessionRepo{sessions: []auth.Session{
		{UserID: "user_live", TokenHash: auth.HashToken("expired"), ExpiresAt: now.Add(-time.Second)},
		{UserID: "user_gone", TokenHash: auth.HashToken("orphan"), ExpiresAt: now.Add(time.Hour)},
		{UserID: "user_live", TokenHash: auth.HashToken("good"), ExpiresAt: now.Add(time.Hour)},
	}}
	svc := newService(users, sessions, nil)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty token", "", auth.ErrUnauthenticated},
		{"unknown token", "nope", auth.ErrInvalidSession},
		{"expired", "expired", auth.ErrSessionExpired},
		{"user missing", "orphan", auth.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.Authenticate(context.Background(), tt.token)

			assert.Nil(t, u)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, auth.IsAuthFailure(err))
		})
	}
}

func TestAuthenticate_Success(t *testing.T) {
	users := newMockUserRepo()
	users.byID["user_live"] = &auth.User{ID: "user_live", Email: "live@example.com"}
	sessions := &mockSessionRepo{sessions: []auth.Session{
		{UserID: "user_live", TokenHash: auth.HashToken("good"), ExpiresAt: now},
	}}
	svc := newService(users, sessions, nil)

	u, err := svc.Authenticate(context.Background(), "good")

	require.NoError(t, err)
	assert.Equal(t, "user_live", u.ID)
}

func TestAuthenticate_ExpiryComparedInUTC(t *testing.T) {
	users := newMockUserRepo()
	users.byID["user_live"] = &auth.User{ID: "user_live"}
	// One hour after now, expressed in a zone behind UTC.
	zone := time.FixedZone("EST", -5*3600)
	sessions := &mockSessionRepo{sessions: []auth.Session{
		{UserID: "user_live", TokenHash: auth.HashToken("tok"), ExpiresAt: now.Add(time.Hour).In(zone)},
	}}
	svc := newService(users, sessions, nil)

	_, err := svc.Authenticate(context.Background(), "tok")

	assert.NoError(t, err)
}

func TestAuthenticate_StoreErrorIsNotAuthFailure(t *testing.T) {
	sessions := &mockSessionRepo{getErr: errors.New("connection reset")}
	svc := newService(newMockUserRepo(), sessions, nil)

	_, err := svc.Authenticate(context.Background(), "tok")

	require.Error(t, err)
	assert.False(t, auth.IsAuthFailure(err))
}

// ===== ExchangeSession =====

func TestExchangeSession_RequiresSessionID(t *testing.T) {
	provider := okProvider("a@example.com", "tok")
	svc := newService(newMockUserRepo(), &mockSessionRepo{}, provider)

	_, err := svc.ExchangeSession(context.Background(), "")

	assert.ErrorIs(t, err, auth.ErrSessionIDRequired)
	assert.Equal(t, 0, provider.calls)
}

func TestExchangeSession_NewUser(t *testing.T) {
	users := newMockUserRepo()
	sessions := &mockSessionRepo{}
	svc := newService(users, sessions, okProvider("asha@example.com", "tok-1"))

	ex, err := svc.ExchangeSession(context.Background(), "sid-1")

	require.NoError(t, err)
	assert.Regexp(t, `^user_[0-9a-f]{12}$`, ex.User.ID)
	assert.Equal(t, "asha@example.com", ex.User.Email)
	assert.Equal(t, "tok-1", ex.Token)
	assert.Equal(t, now.Add(7*24*time.Hour), ex.ExpiresAt)

	require.Len(t, sessions.sessions, 1)
	assert.Equal(t, ex.User.ID, sessions.sessions[0].UserID)
	assert.Equal(t, auth.HashToken("tok-1"), sessions.sessions[0].TokenHash)
	assert.NotEqual(t, "tok-1", sessions.sessions[0].TokenHash)

	u, err := svc.Authenticate(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, ex.User.ID, u.ID)
}

func TestExchangeSession_ExistingUserKeepsID(t *testing.T) {
	users := newMockUserRepo()
	users.byID["user_000000000001"] = &auth.User{ID: "user_000000000001", Email: "asha@example.com", Name: "Old"}
	users.byEmail["asha@example.com"] = users.byID["user_000000000001"]
	sessions := &mockSessionRepo{sessions: []auth.Session{
		{UserID: "user_000000000001", TokenHash: auth.HashToken("old-tok"), ExpiresAt: now.Add(time.Hour)},
	}}
	svc := newService(users, sessions, okProvider("asha@example.com", "new-tok"))

	ex, err := svc.ExchangeSession(context.Background(), "sid")

	require.NoError(t, err)
	assert.Equal(t, "user_000000000001", ex.User.ID)
	assert.Equal(t, "Asha Rao", ex.User.Name)
	assert.Len(t, sessions.sessions, 2, "prior sessions are kept")

	_, err = svc.Authenticate(context.Background(), "old-tok")
	assert.NoError(t, err)
}

func TestExchangeSession_ProviderRejects(t *testing.T) {
	users := newMockUserRepo()
	sessions := &mockSessionRepo{}
	provider := &mockProvider{resolveFn: func(_ context.Context, _ string) (*auth.ProviderSession, error) {
		return nil, auth.ErrInvalidExternalSession
	}}
	svc := newService(users, sessions, provider)

	_, err := svc.ExchangeSession(context.Background(), "bad")

	assert.ErrorIs(t, err, auth.ErrInvalidExternalSession)
	assert.Empty(t, users.byID)
	assert.Empty(t, sessions.sessions)
}

func TestExchangeSession_SessionStoreFailure(t *testing.T) {
	sessions := &mockSessionRepo{createErr: errors.New("disk full")}
	svc := newService(newMockUserRepo(), sessions, okProvider("a@example.com", "tok"))

	_, err := svc.ExchangeSession(context.Background(), "sid")

	assert.Error(t, err)
}

// ===== Logout =====

func TestLogout_RemovesAllSessionsForToken(t *testing.T) {
	sessions := &mockSessionRepo{sessions: []auth.Session{
		{UserID: "u1", TokenHash: auth.HashToken("tok")},
		{UserID: "u1", TokenHash: auth.HashToken("tok")},
		{UserID: "u1", TokenHash: auth.HashToken("other")},
	}}
	svc := newService(newMockUserRepo(), sessions, nil)

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	require.Len(t, sessions.sessions, 1)
	assert.Equal(t, auth.HashToken("other"), sessions.sessions[0].TokenHash)

	require.NoError(t, svc.Logout(context.Background(), ""))
	assert.Len(t, sessions.sessions, 1)
}

func TestHashToken(t *testing.T) {
	h := auth.HashToken("abc")

	assert.Len(t, h, 64)
	assert.Equal(t, h, auth.HashToken("abc"))
	assert.NotEqual(t, h, auth.HashToken("abd"))
}
