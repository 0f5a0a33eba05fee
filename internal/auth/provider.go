package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// ErrInvalidExternalSession is returned when the identity provider rejects a
// session id.
var ErrInvalidExternalSession = errors.New("identity provider rejected session id")

// ErrProviderUnavailable wraps transport and decoding failures talking to the
// identity provider.
var ErrProviderUnavailable = errors.New("identity provider unavailable")

// ProviderSession is the identity returned by the provider for a session id.
type ProviderSession struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

// IdentityProvider resolves an external session id to an identity.
type IdentityProvider interface {
	Resolve(ctx context.Context, sessionID string) (*ProviderSession, error)
}

// HTTPProvider calls the identity provider over HTTPS.
type HTTPProvider struct {
	url    string
	client *http.Client
}

// NewHTTPProvider creates an HTTPProvider for the given endpoint.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Resolve sends sessionID in the X-Session-ID header. Any non-200 status is
// ErrInvalidExternalSession.
func (p *HTTPProvider) Resolve(ctx context.Context, sessionID string) (*ProviderSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building provider request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrInvalidExternalSession, resp.StatusCode)
	}

	var ps ProviderSession
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&ps); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrProviderUnavailable, err)
	}
	if ps.Email == "" || ps.SessionToken == "" {
		return nil, fmt.Errorf("%w: response missing email or session_token", ErrInvalidExternalSession)
	}

	return &ps, nil
}
