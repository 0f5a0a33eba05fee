package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/auth"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

const userKey contextKey = "user"

// Authenticator resolves a session token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.User, error)
}

// TokenFromRequest returns the session token from the session cookie, or from
// an "Authorization: Bearer" header when no cookie is set.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// Auth is middleware that resolves the request's session token to a User.
// Every authentication failure yields the same 401 response.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			user, err := authenticator.Authenticate(r.Context(), TokenFromRequest(r))
			if err != nil {
				if auth.IsAuthFailure(err) {
					slog.Debug("authentication rejected", "reason", err.Error(), "requestId", requestID)
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", requestID)
					return
				}
				slog.Error("failed to authenticate request", "error", err, "requestId", requestID)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the authenticated User from the request context.
func GetUser(ctx context.Context) *auth.User {
	if u, ok := ctx.Value(userKey).(*auth.User); ok {
		return u
	}
	return nil
}

// WithUser returns a copy of ctx carrying u. Used by tests that bypass Auth.
func WithUser(ctx context.Context, u *auth.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
