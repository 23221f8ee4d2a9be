package config

import "time"

// SessionConfig controls per-browser session stores and the access gate.
// Optimistic reconciles share the API request budget (APIConfig.RequestTimeout).
type SessionConfig struct {
	// CookieSecure forces the Secure attribute on the session cookie.
	CookieSecure bool `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	// CookieMaxAge is the lifetime of the session id cookie.
	CookieMaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"720h"`

	// IdleTTL is how long an unused session store stays in memory.
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	// TokenTTL caps durable token storage when the token has no exp claim.
	TokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"24h"`
	// DraftTTL is how long an onboarding draft survives between visits.
	DraftTTL time.Duration `env:"SESSION_DRAFT_TTL" envDefault:"168h"`
	// ReaperInterval is how often idle stores are evicted.
	ReaperInterval time.Duration `env:"SESSION_REAPER_INTERVAL" envDefault:"1m"`

	// RestoreWait bounds how long a request waits for a fresh store to restore
	// before the gate answers with the loading state.
	RestoreWait time.Duration `env:"GATE_RESTORE_WAIT" envDefault:"250ms"`

	// CSRFEnabled turns on double-submit protection for unsafe methods.
	CSRFEnabled bool `env:"CSRF_ENABLED" envDefault:"true"`

	// NotificationTTL and NotificationLimit bound each session's toast queue.
	NotificationTTL   time.Duration `env:"NOTIFICATIONS_TTL" envDefault:"1h"`
	NotificationLimit int           `env:"NOTIFICATIONS_MAX" envDefault:"50"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.CookieMaxAge <= 0 {
		c.CookieMaxAge = 30 * 24 * time.Hour
	}
	if c.IdleTTL < time.Minute {
		c.IdleTTL = time.Minute
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.DraftTTL <= 0 {
		c.DraftTTL = 7 * 24 * time.Hour
	}
	if c.ReaperInterval < time.Second {
		c.ReaperInterval = time.Second
	}
	if c.RestoreWait < 0 {
		c.RestoreWait = 0
	}
	if c.NotificationTTL <= 0 {
		c.NotificationTTL = time.Hour
	}
	if c.NotificationLimit <= 0 {
		c.NotificationLimit = 50
	}
}
