package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/api/validation"
	"github.com/roadsentinel/roadsentinel/internal/auth"
)

// SessionService exchanges and revokes sessions.
type SessionService interface {
	ExchangeSession(ctx context.Context, sessionID string) (*auth.Exchange, error)
	Logout(ctx context.Context, token string) error
}

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type userResponse struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Picture   *string `json:"picture"`
	CreatedAt string  `json:"created_at"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

// AuthHandler handles session exchange, logout and the current user.
type AuthHandler struct {
	sessions SessionService
	cookie   CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions SessionService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie}
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

// Exchange handles POST /auth/session.
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.SessionRequest
	if err := decodeBody(w, r, &req); err != nil && !isEmptyBody(err) {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	ex, err := h.sessions.ExchangeSession(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSessionIDRequired):
			response.Err(w, http.StatusBadRequest, "BAD_REQUEST", "session_id required", requestID)
		case errors.Is(err, auth.ErrInvalidExternalSession):
			slog.Debug("identity provider rejected session", "reason", err.Error(), "requestId", requestID)
			response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid session_id", requestID)
		case errors.Is(err, auth.ErrProviderUnavailable):
			slog.Error("failed to reach identity provider", "error", err)
			response.Err(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Identity provider unavailable", requestID)
		default:
			slog.Error("failed to exchange session", "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session", requestID)
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(ex.Token, int(h.cookie.TTL.Seconds())))
	response.Success(w, http.StatusOK, toUserResponse(ex.User), requestID)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, toUserResponse(currentUser(r)), middleware.GetRequestID(r.Context()))
}

// Logout handles POST /auth/logout. It succeeds whether or not the request
// carried a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.sessions.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		slog.Error("failed to delete sessions", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out", requestID)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	response.Success(w, http.StatusOK, messageResponse{Message: "Logged out"}, requestID)
}
