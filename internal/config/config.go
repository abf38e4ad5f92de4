package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all clusterview configuration values.
type Config struct {
	Port        int
	Kubeconfig  string
	ClusterName string
	Version     string

	// Polling
	FetchTimeout       time.Duration // CLUSTERVIEW_FETCH_TIMEOUT, default: 30s, per snapshot build
	MetricsEnabled     bool          // CLUSTERVIEW_METRICS_ENABLED, default: true
	MetricsConcurrency int           // CLUSTERVIEW_METRICS_CONCURRENCY, default: 8, parallel node usage lookups

	// HTTP API
	RateLimit        float64       // CLUSTERVIEW_RATE_LIMIT, requests per second, default: 20
	RateLimitBurst   int           // CLUSTERVIEW_RATE_LIMIT_BURST, default: 40
	CORSOrigins      []string      // CLUSTERVIEW_CORS_ORIGINS, comma-separated, default: *
	CompressionLevel int           // CLUSTERVIEW_COMPRESSION_LEVEL, gzip level 1-9, default: 5
	RequestTimeout   time.Duration // CLUSTERVIEW_REQUEST_TIMEOUT, default: 60s
	DebugEndpoints   bool          // CLUSTERVIEW_DEBUG_ENDPOINTS, default: false, enables pprof

	LogLevel string // CLUSTERVIEW_LOG_LEVEL, debug|info|warn|error, default: info
}

// Load reads configuration from environment variables and returns a Config
// with defaults applied for any unset values.
func Load() Config {
	cfg := Config{
		Port:        parseInt("CLUSTERVIEW_PORT", 5001),
		Kubeconfig:  envOrDefault("CLUSTERVIEW_KUBECONFIG", os.Getenv("KUBECONFIG")),
		ClusterName: os.Getenv("CLUSTERVIEW_CLUSTER_NAME"),

		FetchTimeout:       parseDuration("CLUSTERVIEW_FETCH_TIMEOUT", 30*time.Second),
		MetricsEnabled:     parseBool("CLUSTERVIEW_METRICS_ENABLED", true),
		MetricsConcurrency: parseInt("CLUSTERVIEW_METRICS_CONCURRENCY", 8),

		RateLimit:        parseFloat("CLUSTERVIEW_RATE_LIMIT", 20),
		RateLimitBurst:   parseInt("CLUSTERVIEW_RATE_LIMIT_BURST", 40),
		CORSOrigins:      parseStringSlice("CLUSTERVIEW_CORS_ORIGINS"),
		CompressionLevel: parseInt("CLUSTERVIEW_COMPRESSION_LEVEL", 5),
		RequestTimeout:   parseDuration("CLUSTERVIEW_REQUEST_TIMEOUT", 60*time.Second),
		DebugEndpoints:   parseBool("CLUSTERVIEW_DEBUG_ENDPOINTS", false),

		LogLevel: envOrDefault("CLUSTERVIEW_LOG_LEVEL", "info"),
	}

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// parseDuration tries time.ParseDuration first, then falls back to treating
// the value as integer seconds.
func parseDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(v)
	if err == nil {
		return d
	}

	// Fallback: treat as integer seconds
	secs, err := strconv.Atoi(v)
	if err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultVal
}

func parseBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func parseInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func parseStringSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var result []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
