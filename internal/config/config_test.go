package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "APP_ENV", "BACKEND_API_BASE_URL", "BACKEND_API_KEY", "BACKEND_TIMEOUT",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "AUTH_RATE_LIMIT_PER_MINUTE", "METRICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "http://localhost:4000", cfg.BackendBaseURL)
	assert.Equal(t, time.Duration(0), cfg.BackendTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Production())
	assert.Equal(t, 20, cfg.AuthRateLimitPerMinute)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("BACKEND_API_BASE_URL", "https://api.example.com/")
	t.Setenv("BACKEND_API_KEY", " key ")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, "https://api.example.com", cfg.BackendBaseURL)
	assert.Equal(t, "key", cfg.BackendAPIKey)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.AuthRateLimitPerMinute)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORT":                       "http",
		"BACKEND_API_BASE_URL":       "localhost:4000",
		"BACKEND_TIMEOUT":            "soon",
		"AUTH_RATE_LIMIT_PER_MINUTE": "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadSandbox(t *testing.T) {
	for _, key := range []string{"SANDBOX_PORT", "SANDBOX_JWT_SECRET", "SANDBOX_JWT_TTL_MINUTES", "BACKEND_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadSandbox()
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.HTTPAddress())
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.APIKey)

	t.Setenv("BACKEND_API_KEY", "REPLACE_ME")
	t.Setenv("SANDBOX_JWT_TTL_MINUTES", "30")
	cfg, err = LoadSandbox()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)

	t.Setenv("SANDBOX_PORT", "nope")
	_, err = LoadSandbox()
	assert.Error(t, err)
}
