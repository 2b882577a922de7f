package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port                   string
	Env                    string
	BackendBaseURL         string
	BackendAPIKey          string
	BackendTimeout         time.Duration
	CORSOrigins            []string
	LogLevel               string
	LogFormat              string
	AuthRateLimitPerMinute int
	MetricsEnabled         bool
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("BACKEND_API_BASE_URL", "http://localhost:4000")
	v.SetDefault("BACKEND_API_KEY", "")
	v.SetDefault("BACKEND_TIMEOUT", "0s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 20)
	v.SetDefault("METRICS_ENABLED", true)
	v.AutomaticEnv()

	cfg := Config{
		Port:                   fallback(v.GetString("PORT"), "8080"),
		Env:                    strings.ToLower(fallback(v.GetString("APP_ENV"), "development")),
		BackendBaseURL:         strings.TrimSuffix(fallback(v.GetString("BACKEND_API_BASE_URL"), "http://localhost:4000"), "/"),
		BackendAPIKey:          strings.TrimSpace(v.GetString("BACKEND_API_KEY")),
		CORSOrigins:            parseCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:               fallback(v.GetString("LOG_LEVEL"), "info"),
		LogFormat:              fallback(v.GetString("LOG_FORMAT"), "text"),
		AuthRateLimitPerMinute: v.GetInt("AUTH_RATE_LIMIT_PER_MINUTE"),
		MetricsEnabled:         v.GetBool("METRICS_ENABLED"),
	}

	timeout, err := time.ParseDuration(fallback(v.GetString("BACKEND_TIMEOUT"), "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	cfg.BackendTimeout = timeout

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	u, err := url.Parse(c.BackendBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_API_BASE_URL %q", c.BackendBaseURL)
	}
	if c.BackendTimeout < 0 {
		return errors.New("BACKEND_TIMEOUT must not be negative")
	}
	if c.AuthRateLimitPerMinute < 0 {
		return errors.New("AUTH_RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// Production reports whether the server runs in production mode, which turns on Secure
// session cookies.
func (c Config) Production() bool {
	return c.Env == "production"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// SandboxConfig configures the local sandbox backend.
type SandboxConfig struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
	APIKey    string
	LogLevel  string
	LogFormat string
}

// LoadSandbox reads the sandbox settings. BACKEND_API_KEY is shared with the web server so
// both sides agree on the key.
func LoadSandbox() (SandboxConfig, error) {
	v := viper.New()
	v.SetDefault("SANDBOX_PORT", "4000")
	v.SetDefault("SANDBOX_JWT_SECRET", "")
	v.SetDefault("SANDBOX_JWT_TTL_MINUTES", 10080)
	v.SetDefault("BACKEND_API_KEY", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.AutomaticEnv()

	cfg := SandboxConfig{
		Port:      fallback(v.GetString("SANDBOX_PORT"), "4000"),
		JWTSecret: strings.TrimSpace(v.GetString("SANDBOX_JWT_SECRET")),
		APIKey:    strings.TrimSpace(v.GetString("BACKEND_API_KEY")),
		LogLevel:  fallback(v.GetString("LOG_LEVEL"), "info"),
		LogFormat: fallback(v.GetString("LOG_FORMAT"), "text"),
	}
	if strings.EqualFold(cfg.APIKey, "replace_me") {
		cfg.APIKey = ""
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return SandboxConfig{}, fmt.Errorf("invalid SANDBOX_PORT %q", cfg.Port)
	}
	minutes := v.GetInt("SANDBOX_JWT_TTL_MINUTES")
	if minutes <= 0 {
		return SandboxConfig{}, errors.New("SANDBOX_JWT_TTL_MINUTES must be positive")
	}
	cfg.TokenTTL = time.Duration(minutes) * time.Minute
	return cfg, nil
}

// HTTPAddress returns the host:port pair for the sandbox to bind to.
func (c SandboxConfig) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}
