package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
)

// DBPinger checks database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request. A failed ping reports
// "degraded" with 503.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status, code := "healthy", http.StatusOK
	connected := true
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Warn("database ping failed", "error", err)
		status, code = "degraded", http.StatusServiceUnavailable
		connected = false
	}

	response.Success(w, code, healthData{
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
	}, requestID)
}

type rootData struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Root handles GET /api/.
func Root(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, rootData{Message: "RoadSentinel AI API", Status: "running"},
		middleware.GetRequestID(r.Context()))
}
