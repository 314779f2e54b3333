package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Usage    UsageConfig
	Search   SearchConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/styla.db"`
}

// AuthConfig holds admin API authentication configuration.
type AuthConfig struct {
	// BootstrapAPIKey is accepted for admin routes only while no API keys exist.
	BootstrapAPIKey string `env:"BOOTSTRAP_API_KEY"`
}

// CatalogConfig controls the predefined tag catalog.
type CatalogConfig struct {
	SeedOnStart    bool `env:"CATALOG_SEED_ON_START" envDefault:"true"`
	PreloadPrimary bool `env:"CATALOG_PRELOAD_PRIMARY" envDefault:"true"`
}

// UsageConfig holds tag usage reconciliation configuration.
type UsageConfig struct {
	AutoReconcile bool          `env:"USAGE_AUTO_RECONCILE" envDefault:"true"`
	Debounce      time.Duration `env:"USAGE_RECONCILE_DEBOUNCE" envDefault:"5s"`
}

// SearchConfig holds directory search configuration.
type SearchConfig struct {
	DefaultMaxDistance float64 `env:"SEARCH_DEFAULT_MAX_DISTANCE" envDefault:"10"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Auth); err != nil {
		return nil, fmt.Errorf("parsing auth config: %w", err)
	}
	if err := env.Parse(&cfg.Catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog config: %w", err)
	}
	if err := env.Parse(&cfg.Usage); err != nil {
		return nil, fmt.Errorf("parsing usage config: %w", err)
	}
	if err := env.Parse(&cfg.Search); err != nil {
		return nil, fmt.Errorf("parsing search config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Usage.Debounce < 0 {
		return fmt.Errorf("USAGE_RECONCILE_DEBOUNCE must not be negative")
	}
	if c.Search.DefaultMaxDistance <= 0 {
		return fmt.Errorf("SEARCH_DEFAULT_MAX_DISTANCE must be positive")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}
	return nil
}
