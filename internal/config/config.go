// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Store backends accepted by StoreBackend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// StoreBackend selects where the session is persisted: memory, file,
	// postgres or mysql.
	StoreBackend string `koanf:"store_backend"`

	// StorePath is the JSON file used by the file backend.
	StorePath string `koanf:"store_path"`

	// StoreDSN is the connection string of the postgres and mysql backends.
	StoreDSN string `koanf:"store_dsn"`

	// StoreTable is the key-value table of the sql backends.
	StoreTable string `koanf:"store_table"`

	// SportOptions are the events offered by the setup form.
	SportOptions []string `koanf:"sport_options"`

	// AssetCacheVersion names the static asset cache. A random version is
	// generated at start when empty.
	AssetCacheVersion string `koanf:"asset_cache_version"`

	// MaxImportBytes caps the HTML document accepted by POST /api/import.
	MaxImportBytes int64 `koanf:"max_import_bytes"`

	// MaxAthletes caps the athlete count of the setup form. Zero accepts any
	// positive count.
	MaxAthletes int `koanf:"max_athletes"`

	// MetricsEnabled turns the table, store, asset and HTTP recorders on.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsRefreshInterval is how often the row and system gauges are
	// refreshed.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

var labelNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DefaultSportOptions are offered when none are configured.
func DefaultSportOptions() []string {
	return []string{
		"100m Sprint",
		"200m",
		"400m",
		"800m",
		"1500m",
		"5000m",
		"110m Hurdles",
		"Marathon",
	}
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		ShutdownTimeout: 10 * time.Second,
		StoreBackend:    BackendFile,
		StorePath:       "data/trackboard.json",
		StoreTable:      "trackboard_kv",
		SportOptions:    DefaultSportOptions(),
		MaxImportBytes:  1 << 20,
		MaxAthletes:     10_000,

		MetricsEnabled:         true,
		MetricsNamespace:       "trackboard",
		MetricsRefreshInterval: 10 * time.Second,
	}
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendFile:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store_path must not be empty for the file backend", ErrInvalidConfig)
		}
	case BackendPostgres, BackendMySQL:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn must not be empty for the %s backend", ErrInvalidConfig, c.StoreBackend)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	if len(c.SportOptions) == 0 {
		return fmt.Errorf("%w: sport_options must not be empty", ErrInvalidConfig)
	}
	for _, s := range c.SportOptions {
		if s == "" || s == "-" {
			return fmt.Errorf("%w: sport option %q is reserved", ErrInvalidConfig, s)
		}
	}
	if c.MaxImportBytes <= 0 {
		return fmt.Errorf("%w: max_import_bytes must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}
	if c.MaxAthletes < 0 {
		return fmt.Errorf("%w: max_athletes must not be negative", ErrInvalidConfig)
	}
	if c.MetricsRefreshInterval <= 0 {
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	if !labelNameRe.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a valid metric name", ErrInvalidConfig, c.MetricsNamespace)
	}
	for name := range c.MetricsLabels {
		if !labelNameRe.MatchString(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("%w: metrics label %q is not a valid label name", ErrInvalidConfig, name)
		}
	}
	return nil
}
