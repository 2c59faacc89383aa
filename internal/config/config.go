// Package config defines service configuration structures and loading hooks.
//
// Configuration is layered: compiled defaults, then an optional YAML file,
// then environment overrides. Sections map to the subsystems they configure
// so a deployment only overrides what it changes.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Store drivers accepted by Validate.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Store      StoreConfig      `koanf:"store"`
	Cache      CacheConfig      `koanf:"cache"`
	StatsCache StatsCacheConfig `koanf:"stats_cache"`
	Ingest     IngestConfig     `koanf:"ingest"`
}

// ServerConfig configures the two HTTP listeners: the public API and the
// health/metrics endpoint.
type ServerConfig struct {
	// Addr configures the API listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// HealthAddr configures the health/metrics listen address.
	HealthAddr string `koanf:"health_addr"`

	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`

	// ShutdownTimeout bounds graceful drain on stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig controls verbosity and output encoding.
type LogConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is one of: text, json.
	Format string `koanf:"format"`
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the scrape path on the health listener.
	Path string `koanf:"path"`
}

// StoreConfig selects and configures the raw result store backend.
type StoreConfig struct {
	// Driver is one of: memory, postgres.
	Driver string `koanf:"driver"`

	// DSN is the postgres connection string. Ignored by the memory driver.
	DSN string `koanf:"dsn"`

	// QueryTimeout bounds individual store round trips.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// CacheConfig tunes the leaderboard snapshot cache.
type CacheConfig struct {
	// TTL is how long a snapshot serves reads before a refresh.
	TTL time.Duration `koanf:"ttl"`

	// PageSize is the default entries per page; MaxPageSize caps requests.
	PageSize    int `koanf:"page_size"`
	MaxPageSize int `koanf:"max_page_size"`

	// WindowRadius is the neighbor count above and below a rank lookup.
	WindowRadius int `koanf:"window_radius"`

	// RefreshInterval enables background refresh when positive; zero keeps
	// refresh purely read-triggered.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// Preload warms the snapshot during startup.
	Preload bool `koanf:"preload"`
}

// StatsCacheConfig tunes the secondary statistics cache.
type StatsCacheConfig struct {
	Enabled bool `koanf:"enabled"`

	// TTL is the secondary cache lifetime, independent of the snapshot TTL.
	TTL time.Duration `koanf:"ttl"`

	// Path switches the cache to a JSON file surviving restarts. Empty
	// keeps it in process memory.
	Path string `koanf:"path"`
}

// IngestConfig tunes the submission queue and its worker pool.
type IngestConfig struct {
	QueueCapacity int `koanf:"queue_capacity"`
	Workers       int `koanf:"workers"`
}

// New creates a Config populated with defaults. Callers layer file and
// environment values on top via Load.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			HealthAddr:        ":9090",
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Store: StoreConfig{
			Driver:       DriverMemory,
			QueryTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			TTL:          5 * time.Minute,
			PageSize:     20,
			MaxPageSize:  100,
			WindowRadius: 5,
			Preload:      true,
		},
		StatsCache: StatsCacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Ingest: IngestConfig{
			QueueCapacity: 4096,
			Workers:       runtime.NumCPU(),
		},
	}
}

// Validate checks cross-field consistency. All failures wrap
// ErrInvalidConfig so callers can match the class with errors.Is.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server addr must not be empty", ErrInvalidConfig)
	}
	if c.Server.HealthAddr == "" {
		return fmt.Errorf("%w: server health addr must not be empty", ErrInvalidConfig)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("%w: postgres driver requires a dsn", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive", ErrInvalidConfig)
	}
	if c.Cache.PageSize <= 0 {
		return fmt.Errorf("%w: cache page size must be positive", ErrInvalidConfig)
	}
	if c.Cache.MaxPageSize < c.Cache.PageSize {
		return fmt.Errorf("%w: cache max page size must be >= page size", ErrInvalidConfig)
	}
	if c.Cache.WindowRadius < 0 {
		return fmt.Errorf("%w: cache window radius must not be negative", ErrInvalidConfig)
	}
	if c.Cache.RefreshInterval < 0 {
		return fmt.Errorf("%w: cache refresh interval must not be negative", ErrInvalidConfig)
	}
	if c.StatsCache.Enabled && c.StatsCache.TTL <= 0 {
		return fmt.Errorf("%w: stats cache ttl must be positive", ErrInvalidConfig)
	}
	if c.Ingest.QueueCapacity <= 0 {
		return fmt.Errorf("%w: ingest queue capacity must be positive", ErrInvalidConfig)
	}
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("%w: ingest workers must not be negative", ErrInvalidConfig)
	}
	return nil
}
