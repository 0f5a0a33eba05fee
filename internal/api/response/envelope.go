// Package response writes the JSON envelope shared by every endpoint:
// {"data": ..., "error": {...}, "meta": {...}}.
package response

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Meta is attached to every response.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// ListMeta adds pagination to Meta. Count is the number of items returned,
// not the total available.
type ListMeta struct {
	Meta
	Count int `json:"count"`
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// Error is the error member of a failed response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type envelope[M any] struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
	Meta  M      `json:"meta"`
}

// fallbackBody is sent when a response cannot be encoded.
const fallbackBody = `{"data":null,"error":{"code":"INTERNAL_ERROR","message":"Failed to encode response"},"meta":null}`

// NewMeta returns Meta stamped with the current time. A new UUID is used when
// requestID is empty.
func NewMeta(requestID string) Meta {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// write encodes v before touching w so an encoding failure still yields a
// well-formed 500 instead of a truncated body under the intended status.
func write(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err, "status", status)
		status = http.StatusInternalServerError
		body = []byte(fallbackBody)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// Success writes data with a nil error.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	write(w, status, envelope[Meta]{Data: data, Meta: NewMeta(requestID)})
}

// SuccessList writes a list response. count is the number of items in data.
func SuccessList(w http.ResponseWriter, status int, data any, count, limit, skip int, requestID string) {
	write(w, status, envelope[ListMeta]{
		Data: data,
		Meta: ListMeta{
			Meta:  NewMeta(requestID),
			Count: count,
			Limit: limit,
			Skip:  skip,
		},
	})
}

// Err writes an error response with a nil data member.
func Err(w http.ResponseWriter, status int, code, message, requestID string) {
	ErrWithDetails(w, status, code, message, nil, requestID)
}

// ErrWithDetails is Err with a details member, typically a list of field errors.
func ErrWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	write(w, status, envelope[Meta]{
		Error: &Error{Code: code, Message: message, Details: details},
		Meta:  NewMeta(requestID),
	})
}
