package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadsentinel/roadsentinel/internal/api/handler"
	"github.com/roadsentinel/roadsentinel/internal/inference"
	"github.com/roadsentinel/roadsentinel/internal/seed"
)

func TestModelStatus(t *testing.T) {
	t.Parallel()

	h := handler.NewModelHandler(inference.NewPlaceholder())
	req, w := makeAuthedRequest(http.MethodGet, "/api/model/status", nil, nil)
	h.Status(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["connected"])
	assert.Equal(t, "YOLO v8 (Placeholder)", data["model_name"])
	assert.Equal(t, "N/A", data["model_version"])
	assert.Contains(t, data, "last_inference")
	assert.Nil(t, data["last_inference"])
	assert.Equal(t, "disconnected", data["status"])
}

func TestModelDetect(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", `{}`, `{"image":"aGVsbG8=","camera_id":"cam_1"}`} {
		h := handler.NewModelHandler(inference.NewPlaceholder())
		req, w := makeAuthedRequest(http.MethodPost, "/api/model/detect", []byte(body), nil)
		h.Detect(w, req)

		require.Equal(t, http.StatusOK, w.Code, body)
		data := parseEnvelope(t, w)["data"].(map[string]interface{})
		assert.Equal(t, []interface{}{}, data["detections"])
		assert.Equal(t, float64(0), data["inference_time_ms"])
		assert.Equal(t, "placeholder", data["model_name"])
		assert.Contains(t, data["message"], "Model not connected")
	}
}

func TestModelDetect_MalformedJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewModelHandler(inference.NewPlaceholder())
	req, w := makeAuthedRequest(http.MethodPost, "/api/model/detect", []byte(`{"image" 1}`), nil)
	h.Detect(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", errorCode(t, w))
}

// --- Seed ---

type mockSeeder struct {
	userID string
	err    error
}

func (m *mockSeeder) Seed(_ context.Context, userID string) (*seed.Result, error) {
	m.userID = userID
	if m.err != nil {
		return nil, m.err
	}
	return &seed.Result{CamerasCreated: 4, Detections: 30, Alerts: 14}, nil
}

func TestSeedDemoData(t *testing.T) {
	t.Parallel()

	s := &mockSeeder{}
	h := handler.NewSeedHandler(s)
	req, w := makeAuthedRequest(http.MethodPost, "/api/seed-demo-data", nil, nil)
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testUser.ID, s.userID)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Demo data seeded successfully", data["message"])
	assert.Equal(t, float64(30), data["detections"])
}

func TestSeedDemoData_Error(t *testing.T) {
	t.Parallel()

	h := handler.NewSeedHandler(&mockSeeder{err: assert.AnError})
	req, w := makeAuthedRequest(http.MethodPost, "/api/seed-demo-data", nil, nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
