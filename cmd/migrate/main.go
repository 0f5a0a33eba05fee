// Command migrate applies or rolls back the database schema.
//
//	migrate [up|down]
package main

import (
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/roadsentinel/roadsentinel/internal/store"
)

type migrateConfig struct {
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	DatabaseName string `envconfig:"DB_NAME" default:""`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	var cfg migrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	poolCfg, err := store.ParseConfig(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}

	if err := store.Migrate(poolCfg.ConnConfig, direction); err != nil {
		slog.Error("migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}

	slog.Info("migrations complete", "direction", direction)
}
