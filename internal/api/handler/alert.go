package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roadsentinel/roadsentinel/internal/alert"
	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/api/validation"
)

type alertResponse struct {
	AlertID      string  `json:"alert_id"`
	DetectionID  *string `json:"detection_id"`
	Type         string  `json:"alert_type"`
	Message      string  `json:"message"`
	Severity     string  `json:"severity"`
	Acknowledged bool    `json:"acknowledged"`
	UserID       string  `json:"user_id"`
	Timestamp    string  `json:"timestamp"`
}

func toAlertResponse(a *alert.Alert) alertResponse {
	return alertResponse{
		AlertID:      a.ID,
		DetectionID:  a.DetectionID,
		Type:         a.Type,
		Message:      a.Message,
		Severity:     a.Severity,
		Acknowledged: a.Acknowledged,
		UserID:       a.UserID,
		Timestamp:    formatTime(a.Timestamp),
	}
}

type countResponse struct {
	Count int `json:"count"`
}

// AlertHandler handles alert endpoints.
type AlertHandler struct {
	repo alert.Repository
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(repo alert.Repository) *AlertHandler {
	return &AlertHandler{repo: repo}
}

// List handles GET /alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit, ok := queryInt(w, r, "limit", alert.DefaultLimit)
	if !ok {
		return
	}
	if !checkParams(w, r, &validation.ListParams{Limit: limit}) {
		return
	}

	filter := alert.ListFilter{Limit: limit}
	if raw := r.URL.Query().Get("acknowledged"); raw != "" {
		ack, err := strconv.ParseBool(raw)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_PARAM", "acknowledged must be true or false", requestID)
			return
		}
		filter.Acknowledged = &ack
	}

	alerts, err := h.repo.List(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		slog.Error("failed to list alerts", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list alerts", requestID)
		return
	}

	items := make([]alertResponse, 0, len(alerts))
	for i := range alerts {
		items = append(items, toAlertResponse(&alerts[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), limit, 0, requestID)
}

// Acknowledge handles PUT /alerts/{id}/acknowledge. Acknowledging twice succeeds.
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	if validation.ContainsNUL(id) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Alert not found", requestID)
		return
	}

	if err := h.repo.Acknowledge(r.Context(), id, currentUser(r).ID); err != nil {
		if errors.Is(err, alert.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Alert not found", requestID)
			return
		}
		slog.Error("failed to acknowledge alert", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to acknowledge alert", requestID)
		return
	}

	response.Success(w, http.StatusOK, messageResponse{Message: "Alert acknowledged"}, requestID)
}

// UnreadCount handles GET /alerts/unread-count.
func (h *AlertHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	n, err := h.repo.CountUnacknowledged(r.Context(), currentUser(r).ID, "")
	if err != nil {
		slog.Error("failed to count unread alerts", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count alerts", requestID)
		return
	}

	response.Success(w, http.StatusOK, countResponse{Count: n}, requestID)
}
