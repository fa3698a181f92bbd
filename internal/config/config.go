// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string `env:"INKWELL_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"INKWELL_PORT" envDefault:"8080"`
	Env  string `env:"INKWELL_ENV" envDefault:"development"` // "development", "production", "testing"

	// SQLite database file
	DBPath string `env:"INKWELL_DB_PATH" envDefault:"./data/inkwell.db"`

	// Upload storage directory
	UploadDir string `env:"INKWELL_UPLOAD_DIR" envDefault:"./data/uploads"`

	// Valkey (Redis-compatible session store)
	ValkeyHost     string `env:"INKWELL_VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     int    `env:"INKWELL_VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"INKWELL_VALKEY_PASSWORD"`

	// SeedMaster controls whether the bootstrap master account is created
	// when the database has no users. Disable once a real master exists.
	SeedMaster bool `env:"INKWELL_SEED_MASTER" envDefault:"true"`
}

// Load parses environment variables and returns a Config struct.
// Returns an error when values fail to parse or when a production
// deployment still relies on development defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}

	if cfg.Env == "production" && cfg.SeedMaster {
		// The seeded master account has a fixed, publicly documented
		// password. Refusing to start beats shipping it to production.
		return nil, fmt.Errorf("INKWELL_SEED_MASTER must be disabled in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%d", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
