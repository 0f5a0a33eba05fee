// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels: method, route (chi pattern), status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsentinel_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadsentinel_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// DetectionsCreated counts persisted detections.
	DetectionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsentinel_detections_created_total",
			Help: "Total number of detections created",
		},
		[]string{"type", "severity"},
	)

	// AlertsCreated counts alerts derived from detections.
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsentinel_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"type", "severity"},
	)

	// SessionExchanges counts identity provider session exchanges.
	// Labels: outcome ("success", "rejected", "error").
	SessionExchanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsentinel_session_exchanges_total",
			Help: "Total number of session exchanges with the identity provider",
		},
		[]string{"outcome"},
	)
)
