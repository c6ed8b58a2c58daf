// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Optional: when empty the
	// server keeps groups and messages in memory, seeded from the catalogue.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (Expo dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SimulatedLatency is the maximum random delay added to every remote
	// call. Defaults to 300ms. Set to 0 to disable.
	SimulatedLatency time.Duration

	// SimulatedFailureRate is the probability in [0, 1] that group creation
	// fails with a network error. Defaults to 0.1.
	SimulatedFailureRate float64

	// RefetchOnSettle reloads a conversation after each successful send.
	// Defaults to true.
	RefetchOnSettle bool

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64

	// DraftIdleTimeout is how long an untouched wizard draft survives.
	// Defaults to 30m.
	DraftIdleTimeout time.Duration
}

// UseDatabase reports whether Postgres persistence is configured.
func (c Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable whose value could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081")),
	}

	var errs []error
	var err error

	if cfg.SimulatedLatency, err = time.ParseDuration(getEnv("SIMULATED_LATENCY", "300ms")); err != nil || cfg.SimulatedLatency < 0 {
		errs = append(errs, fmt.Errorf("SIMULATED_LATENCY: must be a non-negative duration"))
	}
	if cfg.SimulatedFailureRate, err = strconv.ParseFloat(getEnv("SIMULATED_FAILURE_RATE", "0.1"), 64); err != nil ||
		cfg.SimulatedFailureRate < 0 || cfg.SimulatedFailureRate > 1 {
		errs = append(errs, fmt.Errorf("SIMULATED_FAILURE_RATE: must be a number between 0 and 1"))
	}
	if cfg.RefetchOnSettle, err = strconv.ParseBool(getEnv("REFETCH_ON_SETTLE", "true")); err != nil {
		errs = append(errs, fmt.Errorf("REFETCH_ON_SETTLE: must be a boolean"))
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES: must be a positive integer"))
	}
	if cfg.DraftIdleTimeout, err = time.ParseDuration(getEnv("DRAFT_IDLE_TIMEOUT", "30m")); err != nil || cfg.DraftIdleTimeout < MinDraftIdleTimeout {
		errs = append(errs, fmt.Errorf("DRAFT_IDLE_TIMEOUT: must be a duration of at least %s", MinDraftIdleTimeout))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// MinDraftIdleTimeout is the shortest accepted DRAFT_IDLE_TIMEOUT. The draft
// sweeper ticks at half this interval.
const MinDraftIdleTimeout = time.Second

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
