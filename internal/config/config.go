// Package config defines the newsfeed service configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/config"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/profiling"
	infraredis "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/redis"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	defaultServiceName     = "newsfeed"
	defaultPort            = 5000
	defaultDatasetDir      = "resources/dataset/news"
	defaultShutdownTimeout = 15 * time.Second
	defaultConnectAttempts = 5
	defaultWatchDebounce   = 500 * time.Millisecond
)

// Config is the root configuration.
type Config struct {
	Service   ServiceConfig     `yaml:"service"`
	Dataset   DatasetConfig     `yaml:"dataset"`
	Store     StoreConfig       `yaml:"store"`
	Redis     infraredis.Config `yaml:"redis"`
	API       APIConfig         `yaml:"api"`
	Logging   logger.Config     `yaml:"logging"`
	CORS      CORSConfig        `yaml:"cors"`
	Profiling profiling.Config  `yaml:"profiling"`
}

// ServiceConfig holds HTTP server settings.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"NEWSFEED_PORT"  yaml:"port"`
	Debug           bool          `env:"NEWSFEED_DEBUG" yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatasetConfig points at the article files.
type DatasetConfig struct {
	Dir       string `env:"NEWSFEED_DATASET_DIR"       yaml:"dir"`
	Recursive bool   `env:"NEWSFEED_DATASET_RECURSIVE" yaml:"recursive"`
	// Watch reloads the index when article files appear or disappear.
	Watch         bool          `env:"NEWSFEED_DATASET_WATCH"          yaml:"watch"`
	WatchDebounce time.Duration `env:"NEWSFEED_DATASET_WATCH_DEBOUNCE" yaml:"watch_debounce"`
}

// StoreConfig selects where the PathIndex lives.
type StoreConfig struct {
	Backend   string `env:"NEWSFEED_STORE_BACKEND"    yaml:"backend"`
	KeyPrefix string `env:"NEWSFEED_STORE_KEY_PREFIX" yaml:"key_prefix"`
	// ConnectAttempts bounds Redis connection attempts at startup.
	ConnectAttempts int `env:"NEWSFEED_STORE_CONNECT_ATTEMPTS" yaml:"connect_attempts"`
}

// APIConfig controls the response format.
type APIConfig struct {
	// LegacyEnvelope wraps every body as [payload, status] and answers 200.
	LegacyEnvelope bool `env:"NEWSFEED_LEGACY_ENVELOPE" yaml:"legacy_envelope"`
	// IncludeSkipped adds the skipped-file count to the feed body.
	IncludeSkipped bool `env:"NEWSFEED_INCLUDE_SKIPPED" yaml:"include_skipped"`
}

// CORSConfig holds allowed origins. Empty means any origin.
type CORSConfig struct {
	Enabled *bool    `yaml:"enabled"`
	Origins []string `env:"CORS_ORIGINS" yaml:"origins"`
}

// CORSEnabled reports whether CORS headers are emitted. Defaults to true.
func (c CORSConfig) CORSEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Load reads path (a missing file is fine), applies defaults and env
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadOptionalWithDefaults(path, SetDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills zero values.
func SetDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "dev"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultPort
	}
	if cfg.Service.ShutdownTimeout == 0 {
		cfg.Service.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Dataset.Dir == "" {
		cfg.Dataset.Dir = defaultDatasetDir
	}
	if cfg.Dataset.WatchDebounce == 0 {
		cfg.Dataset.WatchDebounce = defaultWatchDebounce
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendMemory
	}
	if cfg.Store.ConnectAttempts == 0 {
		cfg.Store.ConnectAttempts = defaultConnectAttempts
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
		if cfg.Service.Debug {
			cfg.Logging.Level = "debug"
		}
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = logger.FormatJSON
	}
	cfg.Profiling.ServiceVersion = cfg.Service.Version
}

// Validate checks the configuration and joins every problem found.
func (c *Config) Validate() error {
	errs := []error{
		infraconfig.ValidatePort("service.port", c.Service.Port),
		infraconfig.ValidateRequired("dataset.dir", c.Dataset.Dir),
		infraconfig.ValidateOneOf("store.backend", c.Store.Backend, BackendMemory, BackendRedis),
		infraconfig.ValidateLogLevel(c.Logging.Level),
		infraconfig.ValidateLogFormat(c.Logging.Format),
	}
	if c.Store.Backend == BackendRedis {
		errs = append(errs, infraconfig.ValidateRequired("redis.address", c.Redis.Address))
		if c.Store.ConnectAttempts < 1 {
			errs = append(errs, &infraconfig.ValidationError{Field: "store.connect_attempts", Message: "must be at least 1"})
		}
		if c.Redis.DB < 0 {
			errs = append(errs, &infraconfig.ValidationError{Field: "redis.db", Message: "must not be negative"})
		}
	}
	if c.Service.ShutdownTimeout < 0 {
		errs = append(errs, &infraconfig.ValidationError{Field: "service.shutdown_timeout", Message: "must not be negative"})
	}
	return errors.Join(errs...)
}
