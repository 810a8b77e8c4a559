package config

import (
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "http://localhost:3333/api"
	defaultAPITimeout = 30 * time.Second
)

// APIConfig points the console at the remote POS API.
type APIConfig struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3333/api"`

	// Timeout bounds every API request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.BaseURL == "" {
		a.BaseURL = defaultAPIBaseURL
	}
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
}
