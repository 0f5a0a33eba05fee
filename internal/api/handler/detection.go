package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/api/validation"
	"github.com/roadsentinel/roadsentinel/internal/detection"
)

// DetectionService is the detection.Service surface used by the handler.
type DetectionService interface {
	List(ctx context.Context, userID string, filter detection.Filter) ([]detection.Detection, error)
	Create(ctx context.Context, userID string, in detection.Input) (*detection.Detection, error)
	Stats(ctx context.Context, userID string) (*detection.Stats, error)
	Timeline(ctx context.Context, userID string, days int) ([]detection.Bucket, error)
}

type detectionResponse struct {
	DetectionID string   `json:"detection_id"`
	CameraID    string   `json:"camera_id"`
	CameraName  string   `json:"camera_name"`
	Type        string   `json:"detection_type"`
	Confidence  float64  `json:"confidence"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Location    string   `json:"location"`
	Severity    string   `json:"severity"`
	Timestamp   string   `json:"timestamp"`
	UserID      string   `json:"user_id"`
}

func toDetectionResponse(d *detection.Detection) detectionResponse {
	return detectionResponse{
		DetectionID: d.ID,
		CameraID:    d.CameraID,
		CameraName:  d.CameraName,
		Type:        d.Type,
		Confidence:  d.Confidence,
		Lat:         d.Lat,
		Lng:         d.Lng,
		Location:    d.Location,
		Severity:    d.Severity,
		Timestamp:   formatTime(d.Timestamp),
		UserID:      d.UserID,
	}
}

type statsResponse struct {
	TotalDetections int `json:"total_detections"`
	Potholes        int `json:"potholes"`
	Billboards      int `json:"billboards"`
	Railings        int `json:"railings"`
	Barriers        int `json:"barriers"`
	ActiveCameras   int `json:"active_cameras"`
	CriticalAlerts  int `json:"critical_alerts"`
}

type bucketResponse struct {
	Date      string `json:"date"`
	Pothole   int    `json:"pothole"`
	Billboard int    `json:"billboard"`
	Railing   int    `json:"railing"`
	Barrier   int    `json:"barrier"`
}

// DetectionHandler handles detection endpoints.
type DetectionHandler struct {
	svc DetectionService
}

// NewDetectionHandler creates a new DetectionHandler.
func NewDetectionHandler(svc DetectionService) *DetectionHandler {
	return &DetectionHandler{svc: svc}
}

// List handles GET /detections.
func (h *DetectionHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit, ok := queryInt(w, r, "limit", detection.DefaultLimit)
	if !ok {
		return
	}
	skip, ok := queryInt(w, r, "skip", 0)
	if !ok {
		return
	}
	if !checkParams(w, r, &validation.ListParams{Limit: limit, Skip: skip}) {
		return
	}
	q := r.URL.Query()
	if !checkParams(w, r, &validation.DetectionFilterParams{
		Type:     q.Get("detection_type"),
		Severity: q.Get("severity"),
		CameraID: q.Get("camera_id"),
	}) {
		return
	}

	filter := detection.Filter{
		Type:     optionalQuery(r, "detection_type"),
		Severity: optionalQuery(r, "severity"),
		CameraID: optionalQuery(r, "camera_id"),
		Limit:    limit,
		Skip:     skip,
	}

	dets, err := h.svc.List(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		slog.Error("failed to list detections", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list detections", requestID)
		return
	}

	items := make([]detectionResponse, 0, len(dets))
	for i := range dets {
		items = append(items, toDetectionResponse(&dets[i]))
	}

	response.SuccessList(w, http.StatusOK, items, len(items), limit, skip, requestID)
}

// Create handles POST /detections.
func (h *DetectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req validation.DetectionRequest
	if err := decodeBody(w, r, &req); err != nil && !isEmptyBody(err) {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}
	if fieldErrors := validation.Struct(&req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	in := detection.Input{
		CameraID:   req.CameraID,
		Type:       req.Type,
		Confidence: *req.Confidence,
		Lat:        req.Lat,
		Lng:        req.Lng,
		Severity:   req.Severity,
	}
	if req.Location != nil {
		in.Location = *req.Location
	}

	d, err := h.svc.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		if errors.Is(err, detection.ErrAlertNotCreated) {
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Detection stored but alert creation failed", requestID)
			return
		}
		slog.Error("failed to create detection", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create detection", requestID)
		return
	}

	response.Success(w, http.StatusOK, toDetectionResponse(d), requestID)
}

// Stats handles GET /detections/stats.
func (h *DetectionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	st, err := h.svc.Stats(r.Context(), currentUser(r).ID)
	if err != nil {
		slog.Error("failed to compute detection stats", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats", requestID)
		return
	}

	response.Success(w, http.StatusOK, statsResponse{
		TotalDetections: st.Total,
		Potholes:        st.Potholes,
		Billboards:      st.Billboards,
		Railings:        st.Railings,
		Barriers:        st.Barriers,
		ActiveCameras:   st.ActiveCameras,
		CriticalAlerts:  st.CriticalAlerts,
	}, requestID)
}

// Timeline handles GET /detections/timeline.
func (h *DetectionHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	days, ok := queryInt(w, r, "days", detection.DefaultTimelineDays)
	if !ok {
		return
	}
	if !checkParams(w, r, &validation.TimelineParams{Days: days}) {
		return
	}

	buckets, err := h.svc.Timeline(r.Context(), currentUser(r).ID, days)
	if err != nil {
		slog.Error("failed to build detection timeline", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build timeline", requestID)
		return
	}

	items := make([]bucketResponse, 0, len(buckets))
	for _, b := range buckets {
		items = append(items, bucketResponse(b))
	}

	response.Success(w, http.StatusOK, items, requestID)
}
