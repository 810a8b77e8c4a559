package config

import (
	"strings"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the console to. It listens on loopback by default.
	Addr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = "127.0.0.1:8080"
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}

// UIConfig controls the browser-facing cookies.
type UIConfig struct {
	// CookieSecret signs the flash cookie. A random secret is generated per
	// process when empty, which drops pending toasts on restart.
	CookieSecret string `env:"UI_COOKIE_SECRET"`

	// CookieSecure marks cookies Secure; enable when served over TLS.
	CookieSecure bool `env:"UI_COOKIE_SECURE" envDefault:"false"`
}

// Sanitize applies guardrails to UI configuration values.
func (u *UIConfig) Sanitize() {
	u.CookieSecret = strings.TrimSpace(u.CookieSecret)
}
