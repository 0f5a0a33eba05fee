package handler

import (
	"log/slog"
	"net/http"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/api/response"
	"github.com/roadsentinel/roadsentinel/internal/inference"
)

type modelStatusResponse struct {
	Connected     bool    `json:"connected"`
	ModelName     string  `json:"model_name"`
	ModelVersion  string  `json:"model_version"`
	LastInference *string `json:"last_inference"`
	Status        string  `json:"status"`
}

type detectRequest struct {
	Image    string `json:"image"`
	CameraID string `json:"camera_id"`
}

type objectResponse struct {
	Class      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
	Severity   string     `json:"severity,omitempty"`
}

type detectResponse struct {
	Detections      []objectResponse `json:"detections"`
	InferenceTimeMS float64          `json:"inference_time_ms"`
	ModelName       string           `json:"model_name"`
	Message         string           `json:"message,omitempty"`
}

// ModelHandler exposes the detection model.
type ModelHandler struct {
	detector inference.Detector
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(detector inference.Detector) *ModelHandler {
	return &ModelHandler{detector: detector}
}

// Status handles GET /model/status.
func (h *ModelHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.detector.Status(r.Context())

	resp := modelStatusResponse{
		Connected:    st.Connected,
		ModelName:    st.ModelName,
		ModelVersion: st.ModelVersion,
		Status:       st.Status,
	}
	if st.LastInference != nil {
		ts := formatTime(*st.LastInference)
		resp.LastInference = &ts
	}

	response.Success(w, http.StatusOK, resp, middleware.GetRequestID(r.Context()))
}

// Detect handles POST /model/detect. An empty body is accepted.
func (h *ModelHandler) Detect(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req detectRequest
	if err := decodeBody(w, r, &req); err != nil && !isEmptyBody(err) {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	res, err := h.detector.Detect(r.Context(), inference.Frame{Image: req.Image, CameraID: req.CameraID})
	if err != nil {
		slog.Error("failed to run inference", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Inference failed", requestID)
		return
	}

	objects := make([]objectResponse, 0, len(res.Detections))
	for _, o := range res.Detections {
		objects = append(objects, objectResponse(o))
	}

	response.Success(w, http.StatusOK, detectResponse{
		Detections:      objects,
		InferenceTimeMS: res.InferenceTimeMS,
		ModelName:       res.ModelName,
		Message:         res.Message,
	}, requestID)
}
