// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIURL   string `env:"CONFDESK_API_URL" envDefault:"http://localhost:4555"`
	Env      string `env:"CONFDESK_ENV" envDefault:"development"`
	LogLevel string `env:"CONFDESK_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"CONFDESK_LOG_FILE"` // Empty means stderr

	// HTTP client configuration
	HTTPTimeout       time.Duration `env:"CONFDESK_HTTP_TIMEOUT" envDefault:"0s"` // 0 keeps the platform default (no timeout)
	RequestsPerSecond float64       `env:"CONFDESK_API_RPS" envDefault:"0"`       // 0 disables client-side throttling
	RequestBurst      int           `env:"CONFDESK_API_BURST" envDefault:"1"`

	// Role resolution
	LegacyRoleFallback bool `env:"CONFDESK_LEGACY_ROLE_FALLBACK" envDefault:"true"` // Guess role from identifier when the user list is unreachable

	// Terminal output
	NoColor     bool `env:"CONFDESK_NO_COLOR" envDefault:"false"`
	JournalSize int  `env:"CONFDESK_JOURNAL_SIZE" envDefault:"200"` // Diagnostic entries kept in memory
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// RateLimited returns true if client-side request throttling is configured.
func (c Config) RateLimited() bool {
	return c.RequestsPerSecond > 0
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env tags cannot express.
// It normalises APIURL by trimming trailing slashes.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if err := ValidateAPIURL(c.APIURL); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("CONFDESK_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("CONFDESK_HTTP_TIMEOUT must not be negative, got %s", c.HTTPTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("CONFDESK_API_RPS must not be negative, got %v", c.RequestsPerSecond)
	}
	if c.RateLimited() && c.RequestBurst < 1 {
		return fmt.Errorf("CONFDESK_API_BURST must be at least 1 when throttling is enabled, got %d", c.RequestBurst)
	}
	if c.JournalSize < 1 {
		c.JournalSize = 1
	}

	return nil
}

// ValidateAPIURL checks that raw is an absolute http(s) URL with a host.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("CONFDESK_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CONFDESK_API_URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("CONFDESK_API_URL must include a host, got %q", raw)
	}
	return nil
}
