package config

import (
	"strings"
	"time"
)

// APIConfig configures the client of the remote GUIDED API. Variables carry the API_ prefix.
type APIConfig struct {
	// BaseURL is the root of the remote API, e.g. "https://api.guided.example.com".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// RequestTimeout is the per-call budget. A timeout is reported as a network failure.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"8s"`

	// ReadyTimeout bounds the /readyz probe against the API health endpoint.
	ReadyTimeout time.Duration `env:"READY_TIMEOUT" envDefault:"2s"`

	Breaker BreakerConfig `envPrefix:"BREAKER_"`
}

// BreakerConfig controls the circuit breaker in front of the remote API.
type BreakerConfig struct {
	MaxRequests  uint32        `env:"MAX_REQUESTS"  envDefault:"1"`
	Interval     time.Duration `env:"INTERVAL"      envDefault:"60s"`
	Timeout      time.Duration `env:"TIMEOUT"       envDefault:"30s"`
	FailureRatio float64       `env:"FAILURE_RATIO" envDefault:"0.5"`
	MinRequests  uint32        `env:"MIN_REQUESTS"  envDefault:"5"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 8 * time.Second
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = 2 * time.Second
	}
	c.Breaker.Sanitize()
}

// Sanitize clamps breaker settings to usable values.
func (b *BreakerConfig) Sanitize() {
	if b.MaxRequests == 0 {
		b.MaxRequests = 1
	}
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
	if b.Interval < 0 {
		b.Interval = 0
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		b.FailureRatio = 0.5
	}
	if b.MinRequests == 0 {
		b.MinRequests = 1
	}
}
