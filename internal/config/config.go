package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port                    int           `envconfig:"PORT" default:"8080"`
	LogLevel                string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL             string        `envconfig:"DATABASE_URL" required:"true"`
	DatabaseName            string        `envconfig:"DB_NAME" default:""`
	CORSOrigins             []string      `envconfig:"CORS_ORIGINS" default:"*"`
	IdentityProviderURL     string        `envconfig:"IDENTITY_PROVIDER_URL" default:"https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"`
	IdentityProviderTimeout time.Duration `envconfig:"IDENTITY_PROVIDER_TIMEOUT" default:"10s"`
	SessionTTL              time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	CookieSecure            bool          `envconfig:"COOKIE_SECURE" default:"true"`
	AuthRateLimit           int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	AutoMigrate             bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	Version                 string        `envconfig:"VERSION" default:"dev"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.IdentityProviderTimeout <= 0 {
		errs = append(errs, errors.New("IDENTITY_PROVIDER_TIMEOUT must be positive"))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	return errors.Join(errs...)
}
