package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	specpkg "github.com/roadsentinel/roadsentinel/api"
	"github.com/roadsentinel/roadsentinel/internal/alert"
	"github.com/roadsentinel/roadsentinel/internal/api"
	"github.com/roadsentinel/roadsentinel/internal/api/handler"
	"github.com/roadsentinel/roadsentinel/internal/auth"
	"github.com/roadsentinel/roadsentinel/internal/camera"
	"github.com/roadsentinel/roadsentinel/internal/config"
	"github.com/roadsentinel/roadsentinel/internal/detection"
	"github.com/roadsentinel/roadsentinel/internal/inference"
	"github.com/roadsentinel/roadsentinel/internal/seed"
	"github.com/roadsentinel/roadsentinel/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	poolCfg, err := store.ParseConfig(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}

	if cfg.AutoMigrate {
		if err := store.Migrate(poolCfg.ConnConfig, "up"); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("database migrations applied")
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := store.New(startCtx, poolCfg)
	startCancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pool := db.Pool()
	cameraRepo := camera.NewRepository(pool)
	detectionRepo := detection.NewRepository(pool)
	alertRepo := alert.NewRepository(pool)
	authRepo := auth.NewRepository(pool)

	provider := auth.NewHTTPProvider(cfg.IdentityProviderURL, cfg.IdentityProviderTimeout)
	authService := auth.NewService(authRepo, authRepo, provider, cfg.SessionTTL)
	detectionService := detection.NewService(detectionRepo, cameraRepo, alertRepo)
	seedService := seed.NewService(cameraRepo, detectionRepo, alertRepo)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:       db,
		Version:        cfg.Version,
		OpenAPISpec:    specpkg.OpenAPISpec,
		MetricsHandler: promhttp.Handler(),
		CORSOrigins:    cfg.CORSOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
		Authenticator:  authService,
		Sessions:       authService,
		Cookie:         handler.CookieConfig{Secure: cfg.CookieSecure, TTL: cfg.SessionTTL},
		Cameras:        cameraRepo,
		Detections:     detectionService,
		Alerts:         alertRepo,
		Detector:       inference.NewPlaceholder(),
		Seeder:         seedService,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting RoadSentinel server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		db.Close()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		db.Close()
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
