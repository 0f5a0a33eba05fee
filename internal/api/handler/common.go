package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/api/validation"
	"github.com/roadsentinel/roadsentinel/internal/auth"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

// decodeBody decodes the JSON request body into v. An empty body leaves v
// untouched and reports io.EOF.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// currentUser returns the user placed in the context by middleware.Auth.
// Handlers behind Auth can rely on it being non-nil.
func currentUser(r *http.Request) *auth.User {
	return middleware.GetUser(r.Context())
}

// queryInt parses an optional integer query parameter, returning def when
// absent. ok is false when a malformed value was answered with a 400.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_PARAM", name+" must be an integer", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return n, true
}

// checkParams validates parsed query parameters, answering a 400 when they
// are out of range.
func checkParams(w http.ResponseWriter, r *http.Request, params any) bool {
	if fieldErrors := validation.Struct(params); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "INVALID_PARAM", "Invalid query parameters", fieldErrors, middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func optionalQuery(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}
