package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/api/validation"
	"github.com/roadsentinel/roadsentinel/internal/camera"
)

type cameraResponse struct {
	CameraID  string   `json:"camera_id"`
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	SourceURL string   `json:"source_url"`
	Location  string   `json:"location"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	IsActive  bool     `json:"is_active"`
	CreatedAt string   `json:"created_at"`
}

func toCameraResponse(c *camera.Camera) cameraResponse {
	return cameraResponse{
		CameraID:  c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		SourceURL: c.SourceURL,
		Location:  c.Location,
		Lat:       c.Lat,
		Lng:       c.Lng,
		IsActive:  c.IsActive,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func toCameraFields(req validation.CameraRequest) camera.Fields {
	f := camera.Fields{
		Name:      req.Name,
		SourceURL: req.SourceURL,
		Lat:       req.Lat,
		Lng:       req.Lng,
		IsActive:  true,
	}
	if req.Location != nil {
		f.Location = *req.Location
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	return f
}

// CameraHandler handles camera CRUD endpoints.
type CameraHandler struct {
	repo camera.Repository
}

// NewCameraHandler creates a new CameraHandler.
func NewCameraHandler(repo camera.Repository) *CameraHandler {
	return &CameraHandler{repo: repo}
}

// decodeCamera reads and validates a camera body. ok is false when a 400 has
// already been written.
func decodeCamera(w http.ResponseWriter, r *http.Request) (camera.Fields, bool) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.CameraRequest
	if err := decodeBody(w, r, &req); err != nil && !isEmptyBody(err) {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return camera.Fields{}, false
	}

	if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return camera.Fields{}, false
	}

	return toCameraFields(req), true
}

// List handles GET /cameras.
func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	cams, err := h.repo.List(r.Context(), currentUser(r).ID)
	if err != nil {
		slog.Error("failed to list cameras", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list cameras", requestID)
		return
	}

	items := make([]cameraResponse, 0, len(cams))
	for i := range cams {
		items = append(items, toCameraResponse(&cams[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), camera.ListLimit, 0, requestID)
}

// Create handles POST /cameras.
func (h *CameraHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	fields, ok := decodeCamera(w, r)
	if !ok {
		return
	}

	c := &camera.Camera{
		UserID:    currentUser(r).ID,
		Name:      fields.Name,
		SourceURL: fields.SourceURL,
		Location:  fields.Location,
		Lat:       fields.Lat,
		Lng:       fields.Lng,
		IsActive:  fields.IsActive,
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		slog.Error("failed to create camera", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create camera", requestID)
		return
	}

	response.Success(w, http.StatusOK, toCameraResponse(c), requestID)
}

// Update handles PUT /cameras/{id}.
func (h *CameraHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	if validation.ContainsNUL(id) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Camera not found", requestID)
		return
	}

	fields, ok := decodeCamera(w, r)
	if !ok {
		return
	}

	c, err := h.repo.Update(r.Context(), id, currentUser(r).ID, fields)
	if err != nil {
		if errors.Is(err, camera.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Camera not found", requestID)
			return
		}
		slog.Error("failed to update camera", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update camera", requestID)
		return
	}

	response.Success(w, http.StatusOK, toCameraResponse(c), requestID)
}

// Delete handles DELETE /cameras/{id}.
func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	if validation.ContainsNUL(id) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Camera not found", requestID)
		return
	}

	if err := h.repo.Delete(r.Context(), id, currentUser(r).ID); err != nil {
		if errors.Is(err, camera.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Camera not found", requestID)
			return
		}
		slog.Error("failed to delete camera", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete camera", requestID)
		return
	}

	response.Success(w, http.StatusOK, messageResponse{Message: "Camera deleted"}, requestID)
}
