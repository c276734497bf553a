// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Analysis AnalysisConfig
	CORS     CORSConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	History  HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `env:"PORT" envAlt:"SERVER_PORT" default:"8000"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout covers a full analysis response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 90s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"90s"`
}

// DatasetConfig locates the CSV file served and analyzed.
type DatasetConfig struct {
	// Path is the dataset location, relative to the working directory (default: ml/dataset.csv)
	Path string `env:"DATASET_PATH" default:"ml/dataset.csv"`

	// MaxFileSize is the maximum dataset size in bytes (default: 100MB)
	MaxFileSize int64 `env:"DATASET_MAX_FILE_SIZE" default:"104857600"`
}

// AnalysisConfig holds model and concurrency settings.
type AnalysisConfig struct {
	// MaxConcurrent is the maximum number of parallel analyses (default: 4)
	MaxConcurrent int `env:"ANALYSIS_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for an analysis slot (default: 30s)
	MaxWaitTime time.Duration `env:"ANALYSIS_MAX_WAIT_TIME" default:"30s"`

	// NEstimators is the number of trees in the forest (default: 100)
	NEstimators int `env:"ANALYSIS_N_ESTIMATORS" default:"100"`

	// Seed drives the split and the forest (default: 42)
	Seed int64 `env:"ANALYSIS_SEED" default:"42"`

	// TestRatio is the held-out fraction (default: 0.2)
	TestRatio float64 `env:"ANALYSIS_TEST_RATIO" default:"0.2"`
}

// CORSConfig controls allowed browser origins.
type CORSConfig struct {
	// Environment names the deployment; "azure" opens CORS to all origins (default: development)
	Environment string `env:"ENVIRONMENT" default:"development"`

	// AllowAll opens CORS to all origins when set to 1, true or yes
	AllowAll string `env:"ALLOW_ALL_ORIGINS"`

	// AllowedOrigins is used when all origins are not allowed (default: http://localhost:5173)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// AllowAllOrigins reports whether every origin is accepted.
func (c *CORSConfig) AllowAllOrigins() bool {
	if strings.EqualFold(strings.TrimSpace(c.Environment), "azure") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.AllowAll)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Origins returns the origin list handed to the CORS middleware.
func (c *CORSConfig) Origins() []string {
	if c.AllowAllOrigins() {
		return []string{"*"}
	}
	return c.AllowedOrigins
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// AnalyzeLimit is requests per minute for the analysis endpoint (default: 20)
	AnalyzeLimit int `env:"RATE_LIMIT_ANALYZE" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// HistoryConfig holds run history storage settings.
type HistoryConfig struct {
	// URL selects the store: postgres://, sqlite:// or a file path. Empty disables history.
	URL string `env:"HISTORY_URL" envAlt:"DATABASE_URL"`

	// MaxConns is the Postgres pool size (default: 4)
	MaxConns int `env:"HISTORY_MAX_CONNS" default:"4"`

	// ListLimit is the default page size for /api/runs (default: 50)
	ListLimit int `env:"HISTORY_LIST_LIMIT" default:"50"`
}

// Enabled reports whether run history is configured.
func (c *HistoryConfig) Enabled() bool { return c.URL != "" }

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
