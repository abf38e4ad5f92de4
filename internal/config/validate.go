package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the Config contains valid values.
// Returns an error describing the first invalid field found.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: Port must be 1-65535, got %d", c.Port)
	}

	if c.FetchTimeout < time.Second {
		return fmt.Errorf("config: FetchTimeout must be >= 1s, got %v", c.FetchTimeout)
	}

	if c.MetricsConcurrency < 1 {
		return fmt.Errorf("config: MetricsConcurrency must be >= 1, got %d", c.MetricsConcurrency)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("config: RateLimit must be > 0, got %v", c.RateLimit)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("config: RateLimitBurst must be >= 1, got %d", c.RateLimitBurst)
	}

	if c.CompressionLevel < 1 || c.CompressionLevel > 9 {
		return fmt.Errorf("config: CompressionLevel must be 1-9, got %d", c.CompressionLevel)
	}

	if c.RequestTimeout < c.FetchTimeout {
		return fmt.Errorf("config: RequestTimeout (%v) must be >= FetchTimeout (%v)", c.RequestTimeout, c.FetchTimeout)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: CLUSTERVIEW_LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}

	return nil
}
