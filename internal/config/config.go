package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the pulse service.
// Environment variables are automatically parsed from the PULSE_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver: postgres, sqlite, or auto
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// BaseURL is the public URL of this service; it becomes the iss and azp
	// claims of issued tokens.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// Storage
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/pulsetrack.db"`

	// Token issuance
	JWTSecret string `envconfig:"JWT_SECRET" default:""`
	// ClaimsTemplate is an optional JSON object of extra claims; string leaves
	// may embed {{dotted.path}} placeholders resolved against the session.
	ClaimsTemplate string `envconfig:"CLAIMS_TEMPLATE" default:""`

	// Sessions
	SessionTTLHours       int `envconfig:"SESSION_TTL_HOURS" default:"168"`
	SessionSweepMinutes   int `envconfig:"SESSION_SWEEP_MINUTES" default:"60"`

	// GridTimeZone is the IANA zone used to bucket activities into the 7x24
	// grid. Defaults to UTC so grids are stable across deployments.
	GridTimeZone string `envconfig:"GRID_TIME_ZONE" default:"UTC"`

	// Health checking
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"15"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("PULSE_POSTGRES_DSN is required for the postgres driver")
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("PULSE_JWT_SECRET is required in production")
		}
		c.JWTSecret = "pulse-dev-secret"
	}

	if _, err := time.LoadLocation(c.GridTimeZone); err != nil {
		return fmt.Errorf("invalid GRID_TIME_ZONE %q: %w", c.GridTimeZone, err)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with PULSE_
// Example: PULSE_HTTP_PORT, PULSE_JWT_SECRET
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("base_url", cfg.BaseURL).
		Str("grid_time_zone", cfg.GridTimeZone).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("claims_template_present", cfg.ClaimsTemplate != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  "sqlite",
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		BaseURL:                   "http://localhost:8080",
		SQLitePath:                ":memory:",
		JWTSecret:                 "pulse-test-secret",
		SessionTTLHours:           1,
		SessionSweepMinutes:       60,
		GridTimeZone:              "UTC",
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// GridLocation returns the parsed grid time zone. ResolveDefaults has already
// validated it; an unparseable zone here falls back to UTC.
func (c *Config) GridLocation() *time.Location {
	loc, err := time.LoadLocation(c.GridTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseClaimsTemplate decodes the configured extra-claims JSON object.
func (c *Config) ParseClaimsTemplate() (map[string]any, error) {
	if c.ClaimsTemplate == "" {
		return nil, nil
	}
	var tpl map[string]any
	if err := json.Unmarshal([]byte(c.ClaimsTemplate), &tpl); err != nil {
		return nil, fmt.Errorf("invalid PULSE_CLAIMS_TEMPLATE: %w", err)
	}
	return tpl, nil
}
