package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/roadsentinel/roadsentinel/internal/api/response"
)

// RateLimitByIP limits each client IP to requests per window. A non-positive
// requests disables the limit.
func RateLimitByIP(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.Err(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", GetRequestID(r.Context()))
		}),
	)
}
