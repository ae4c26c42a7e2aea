// Package config loads the server configuration from the environment.
// Values are read once at startup; there is no hot reload.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds all environment-sourced settings.
type Config struct {
	Port          int    `env:"PORT,default=3001"`
	ServerName    string `env:"SERVER_NAME,default=seo-mcp-server"`
	ServerVersion string `env:"SERVER_VERSION,default=1.0.0"`

	AuthEnabled bool   `env:"AUTH_ENABLED,default=false"`
	AuthSecret  string `env:"AUTH_SECRET"`

	AllowedOrigin string `env:"ALLOWED_ORIGIN,default=*"`

	MaxConnections     int `env:"MAX_CONNECTIONS,default=100"`
	IdleTimeoutSeconds int `env:"IDLE_TIMEOUT_SECONDS,default=300"`

	Environment string `env:"ENVIRONMENT,default=development"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS must be positive, got %d", c.MaxConnections)
	}
	if c.IdleTimeoutSeconds <= 0 {
		return fmt.Errorf("IDLE_TIMEOUT_SECONDS must be positive, got %d", c.IdleTimeoutSeconds)
	}
	if c.AuthEnabled && c.AuthSecret == "" {
		return fmt.Errorf("AUTH_ENABLED is set but AUTH_SECRET is empty")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IdleTimeout returns the keep-alive/idle timeout as a duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// IsDevelopment reports whether the server runs in development mode.
// Development mode reveals internal error detail in 500 responses.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
