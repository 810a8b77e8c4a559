package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Remote POS API client
//   - session.go: Session lifecycle and permission matrix
//   - store.go: Credential store and Redis connection
//   - http.go: Local console server and UI cookies
//   - observability.go: Metrics
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, verbose logs).
	// Set DEV=true or APP_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Env names the deployment environment; "development" turns on IsDev.
	Env string `env:"APP_ENV" envDefault:"production"`

	// Remote API configuration
	API APIConfig

	// Session lifecycle configuration
	Session SessionConfig

	// Credential store configuration
	CredentialStore CredentialStoreConfig
	Redis           RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig
	UI   UIConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Session.Sanitize()
	c.CredentialStore.Sanitize()
	c.Redis.Sanitize()
	c.HTTP.Sanitize()
	c.UI.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks DEV, APP_ENV and NODE_ENV.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "development", "dev":
		c.IsDev = true
		return
	}
	nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
	c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
}
