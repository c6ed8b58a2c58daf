package config_test

import (
	"testing"
	"time"

	"github.com/pkordes/nightcrew/backend/internal/config"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so tests start from defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "LOG_LEVEL", "CORS_ORIGINS",
		"SIMULATED_LATENCY", "SIMULATED_FAILURE_RATE", "REFETCH_ON_SETTLE",
		"MAX_BODY_BYTES", "DRAFT_IDLE_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default
// and that an empty DATABASE_URL selects the in-memory backend.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.DatabaseURL)
	require.False(t, cfg.UseDatabase())
	require.Equal(t, []string{"http://localhost:8081"}, cfg.CORSOrigins)
	require.Equal(t, 300*time.Millisecond, cfg.SimulatedLatency)
	require.InDelta(t, 0.1, cfg.SimulatedFailureRate, 1e-9)
	require.True(t, cfg.RefetchOnSettle)
	require.EqualValues(t, 1<<20, cfg.MaxBodyBytes)
	require.Equal(t, 30*time.Minute, cfg.DraftIdleTimeout)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/nightcrew")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("SIMULATED_LATENCY", "0s")
	t.Setenv("SIMULATED_FAILURE_RATE", "0")
	t.Setenv("REFETCH_ON_SETTLE", "false")
	t.Setenv("MAX_BODY_BYTES", "2048")
	t.Setenv("DRAFT_IDLE_TIMEOUT", "5m")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "postgres://user:pass@db:5432/nightcrew", cfg.DatabaseURL)
	require.True(t, cfg.UseDatabase())
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Zero(t, cfg.SimulatedLatency)
	require.Zero(t, cfg.SimulatedFailureRate)
	require.False(t, cfg.RefetchOnSettle)
	require.EqualValues(t, 2048, cfg.MaxBodyBytes)
	require.Equal(t, 5*time.Minute, cfg.DraftIdleTimeout)
}

// TestLoad_invalidValues verifies that every unparseable variable is named
// in a single error.
func TestLoad_invalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIMULATED_FAILURE_RATE", "1.5")
	t.Setenv("MAX_BODY_BYTES", "lots")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "SIMULATED_FAILURE_RATE")
	require.ErrorContains(t, err, "MAX_BODY_BYTES")
}

func TestLoad_draftIdleTimeoutBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"minimum", "1s", false},
		{"below minimum", "1ns", true},
		{"zero", "0s", true},
		{"negative", "-5m", true},
		{"not a duration", "soon", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DRAFT_IDLE_TIMEOUT", tt.value)

			cfg, err := config.Load()

			if tt.wantErr {
				require.ErrorContains(t, err, "DRAFT_IDLE_TIMEOUT")
				return
			}
			require.NoError(t, err)
			require.Equal(t, config.MinDraftIdleTimeout, cfg.DraftIdleTimeout)
		})
	}
}
