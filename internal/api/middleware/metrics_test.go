package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/metrics"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Put("/api/alerts/{id}/acknowledge", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/api/cameras", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	ackCounter := metrics.HTTPRequests.WithLabelValues(http.MethodPut, "/api/alerts/{id}/acknowledge", "404")
	listCounter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/cameras", "200")
	unmatched := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	ackBefore := testutil.ToFloat64(ackCounter)
	listBefore := testutil.ToFloat64(listCounter)
	unmatchedBefore := testutil.ToFloat64(unmatched)

	for _, path := range []string{"/api/alerts/alert_1/acknowledge", "/api/alerts/alert_2/acknowledge"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cameras", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, ackBefore+2, testutil.ToFloat64(ackCounter))
	assert.Equal(t, listBefore+1, testutil.ToFloat64(listCounter))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(unmatched))
}
