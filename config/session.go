package config

import (
	"strings"
	"time"
)

// SessionConfig controls credential validation and logout.
type SessionConfig struct {
	// MonitorInterval is the period of the background credential check.
	MonitorInterval time.Duration `env:"SESSION_MONITOR_INTERVAL" envDefault:"30s"`

	// ValidationCooldown is the minimum gap between two focus/visibility checks.
	ValidationCooldown time.Duration `env:"SESSION_VALIDATION_COOLDOWN" envDefault:"10s"`

	// StartupValidationDelay defers the first check of a restored credential.
	StartupValidationDelay time.Duration `env:"SESSION_STARTUP_VALIDATION_DELAY" envDefault:"1s"`

	// LogoutTimeout bounds the best-effort server logout call.
	LogoutTimeout time.Duration `env:"SESSION_LOGOUT_TIMEOUT" envDefault:"5s"`

	// PermissionsFile replaces the embedded permission matrix when set.
	PermissionsFile string `env:"SESSION_PERMISSIONS_FILE"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.MonitorInterval < time.Second {
		s.MonitorInterval = time.Second
	}
	if s.ValidationCooldown < 0 {
		s.ValidationCooldown = 0
	}
	if s.StartupValidationDelay <= 0 {
		s.StartupValidationDelay = time.Second
	}
	if s.LogoutTimeout <= 0 {
		s.LogoutTimeout = 5 * time.Second
	}
	s.PermissionsFile = strings.TrimSpace(s.PermissionsFile)
}
