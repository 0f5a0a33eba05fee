package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/seed"
)

// Seeder writes demo data for a user.
type Seeder interface {
	Seed(ctx context.Context, userID string) (*seed.Result, error)
}

type seedResponse struct {
	Message        string `json:"message"`
	CamerasCreated int    `json:"cameras_created"`
	Detections     int    `json:"detections"`
	Alerts         int    `json:"alerts"`
}

// SeedHandler handles POST /seed-demo-data.
type SeedHandler struct {
	seeder Seeder
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(seeder Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// ServeHTTP seeds demo data for the current user.
func (h *SeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	userID := currentUser(r).ID

	res, err := h.seeder.Seed(r.Context(), userID)
	if err != nil {
		slog.Error("failed to seed demo data", "error", err, "userId", userID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to seed demo data", requestID)
		return
	}

	response.Success(w, http.StatusOK, seedResponse{
		Message:        "Demo data seeded successfully",
		CamerasCreated: res.CamerasCreated,
		Detections:     res.Detections,
		Alerts:         res.Alerts,
	}, requestID)
}
