package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/disaster-dashboard/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultEONETBaseURL is the EONET v3 events endpoint.
const DefaultEONETBaseURL = "https://eonet.gsfc.nasa.gov/api/v3/events"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// EONET upstream configuration.
	EONETBaseURL      string
	EONETLookbackDays int
	EONETStatus       domain.EventStatus
	EONETTimeout      time.Duration
	EONETCacheTTL     time.Duration
}

// Query returns the upstream query described by the configuration.
func (c *Config) Query() domain.Query {
	return domain.Query{LookbackDays: c.EONETLookbackDays, Status: c.EONETStatus}
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := parsePositiveDuration("EONET_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("EONET_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	days, err := strconv.Atoi(sharedcfg.EnvOrDefault("EONET_LOOKBACK_DAYS", "3650"))
	if err != nil || days <= 0 {
		return nil, errors.New("invalid EONET_LOOKBACK_DAYS: must be a positive integer")
	}

	status, err := domain.ParseEventStatus(sharedcfg.EnvOrDefault("EONET_STATUS", string(domain.StatusClosed)))
	if err != nil {
		return nil, fmt.Errorf("invalid EONET_STATUS: %w", err)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		EONETBaseURL:      sharedcfg.EnvOrDefault("EONET_BASE_URL", DefaultEONETBaseURL),
		EONETLookbackDays: days,
		EONETStatus:       status,
		EONETTimeout:      timeout,
		EONETCacheTTL:     cacheTTL,
	}

	if cfg.EONETBaseURL == "" {
		return nil, errors.New("EONET_BASE_URL is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
