package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
)

func TestRateLimitByIP(t *testing.T) {
	handler := middleware.RateLimitByIP(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7:4000").Code)
	assert.Equal(t, http.StatusOK, send("203.0.113.7:4001").Code)

	w := send("203.0.113.7:4002")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "RATE_LIMITED", env["error"].(map[string]interface{})["code"])

	// Other clients are unaffected.
	assert.Equal(t, http.StatusOK, send("198.51.100.20:5000").Code)
}

func TestRateLimitByIP_Disabled(t *testing.T) {
	handler := middleware.RateLimitByIP(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
