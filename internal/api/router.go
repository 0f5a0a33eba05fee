package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/roadsentinel/roadsentinel/internal/alert"
	"github.com/roadsentinel/roadsentinel/internal/api/handler"
	"github.com/roadsentinel/roadsentinel/internal/api/middleware"
	"github.com/roadsentinel/roadsentinel/internal/camera"
	"github.com/roadsentinel/roadsentinel/internal/inference"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	CORSOrigins []string
	// AuthRateLimit is the number of session exchanges allowed per client IP
	// per minute. Zero disables the limit.
	AuthRateLimit int

	Authenticator middleware.Authenticator
	Sessions      handler.SessionService
	Cookie        handler.CookieConfig
	Cameras       camera.Repository
	Detections    handler.DetectionService
	Alerts        alert.Repository
	Detector      inference.Detector
	Seeder        handler.Seeder
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(deps.CORSOrigins))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := handler.NewAuthHandler(deps.Sessions, deps.Cookie)
	cameraHandler := handler.NewCameraHandler(deps.Cameras)
	detectionHandler := handler.NewDetectionHandler(deps.Detections)
	alertHandler := handler.NewAlertHandler(deps.Alerts)
	modelHandler := handler.NewModelHandler(deps.Detector)
	seedHandler := handler.NewSeedHandler(deps.Seeder)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handler.Root)

		r.With(middleware.RateLimitByIP(deps.AuthRateLimit, time.Minute)).
			Post("/auth/session", authHandler.Exchange)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Authenticator))

			r.Get("/auth/me", authHandler.Me)

			r.Get("/cameras", cameraHandler.List)
			r.Post("/cameras", cameraHandler.Create)
			r.Put("/cameras/{id}", cameraHandler.Update)
			r.Delete("/cameras/{id}", cameraHandler.Delete)

			r.Get("/detections", detectionHandler.List)
			r.Post("/detections", detectionHandler.Create)
			r.Get("/detections/stats", detectionHandler.Stats)
			r.Get("/detections/timeline", detectionHandler.Timeline)

			r.Get("/alerts", alertHandler.List)
			r.Put("/alerts/{id}/acknowledge", alertHandler.Acknowledge)
			r.Get("/alerts/unread-count", alertHandler.UnreadCount)

			r.Get("/model/status", modelHandler.Status)
			r.Post("/model/detect", modelHandler.Detect)

			r.Post("/seed-demo-data", seedHandler.ServeHTTP)
		})
	})

	return r
}
