package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != "127.0.0.1:8080" {
		t.Errorf("HTTP.Addr: got %q", cfg.HTTP.Addr)
	}
	if cfg.API.BaseURL != "http://localhost:3333/api" {
		t.Errorf("API.BaseURL: got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout: got %v", cfg.API.Timeout)
	}

	wantSession := SessionConfig{
		MonitorInterval:        30 * time.Second,
		ValidationCooldown:     10 * time.Second,
		StartupValidationDelay: time.Second,
		LogoutTimeout:          5 * time.Second,
	}
	if !reflect.DeepEqual(cfg.Session, wantSession) {
		t.Errorf("unexpected session configuration:\nexpected: %#v\ngot:      %#v", wantSession, cfg.Session)
	}
	if cfg.CredentialStore.Backend != StoreMemory {
		t.Errorf("CredentialStore.Backend: got %q", cfg.CredentialStore.Backend)
	}
	if cfg.CredentialStore.Namespace != "pos:session:" {
		t.Errorf("CredentialStore.Namespace: got %q", cfg.CredentialStore.Namespace)
	}
	if cfg.Observability.Metrics.IsEnabled() {
		t.Error("metrics should be off by default")
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://pos.example.com/api/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("SESSION_MONITOR_INTERVAL", "1m")
	t.Setenv("SESSION_VALIDATION_COOLDOWN", "2s")
	t.Setenv("SESSION_PERMISSIONS_FILE", " /etc/pos/permissions.yaml ")
	t.Setenv("CREDENTIAL_STORE", "REDIS")
	t.Setenv("CREDENTIAL_NAMESPACE", "till-2")
	t.Setenv("REDIS_URI", "redis://:hunter2@cache:6379/0")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("UI_COOKIE_SECURE", "true")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.API.BaseURL != "https://pos.example.com/api" {
		t.Errorf("trailing slash should be trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout: got %v", cfg.API.Timeout)
	}
	if cfg.Session.MonitorInterval != time.Minute || cfg.Session.ValidationCooldown != 2*time.Second {
		t.Errorf("unexpected session timings: %#v", cfg.Session)
	}
	if cfg.Session.PermissionsFile != "/etc/pos/permissions.yaml" {
		t.Errorf("PermissionsFile: got %q", cfg.Session.PermissionsFile)
	}
	if cfg.CredentialStore.Backend != StoreRedis {
		t.Errorf("Backend: got %q", cfg.CredentialStore.Backend)
	}
	if cfg.CredentialStore.Namespace != "till-2:" {
		t.Errorf("Namespace: got %q", cfg.CredentialStore.Namespace)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB: got %d", cfg.Redis.DB)
	}
	if got := cfg.Redis.RedactedURI(); got != "redis://:xxxxx@cache:6379/0" {
		t.Errorf("RedactedURI: got %q", got)
	}
	if !cfg.UI.CookieSecure {
		t.Error("UI.CookieSecure should be true")
	}
}

func TestStoreBackend_UnmarshalText(t *testing.T) {
	var b StoreBackend
	if err := b.UnmarshalText([]byte("etcd")); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if err := b.UnmarshalText([]byte(" Memory ")); err != nil || b != StoreMemory {
		t.Fatalf("expected memory backend, got %q (%v)", b, err)
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	cfg := SessionConfig{
		MonitorInterval:        10 * time.Millisecond,
		ValidationCooldown:     -time.Second,
		StartupValidationDelay: 0,
		LogoutTimeout:          -1,
	}
	cfg.Sanitize()

	if cfg.MonitorInterval != time.Second {
		t.Errorf("MonitorInterval should be clamped to 1s, got %v", cfg.MonitorInterval)
	}
	if cfg.ValidationCooldown != 0 {
		t.Errorf("ValidationCooldown should be clamped to 0, got %v", cfg.ValidationCooldown)
	}
	if cfg.StartupValidationDelay != time.Second || cfg.LogoutTimeout != 5*time.Second {
		t.Errorf("expected defaults, got %#v", cfg)
	}
}

func TestRedisConfig_Sanitize(t *testing.T) {
	cfg := RedisConfig{URI: " ", DB: -2, UseSentinel: true, SentinelNodes: []string{" ", ""}}
	cfg.Sanitize()

	if cfg.URI != "localhost:6379" || cfg.DB != 0 {
		t.Errorf("unexpected defaults: %#v", cfg)
	}
	if cfg.UseSentinel {
		t.Error("sentinel should be disabled without nodes")
	}
	if got := (RedisConfig{URI: "localhost:6379"}).RedactedURI(); got != "localhost:6379" {
		t.Errorf("plain address should pass through, got %q", got)
	}
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "")
	cfg := AppConfig{Env: "development"}
	cfg.detectDevMode()
	if !cfg.IsDev {
		t.Error("APP_ENV=development should enable dev mode")
	}

	t.Setenv("NODE_ENV", "dev")
	cfg = AppConfig{Env: "production"}
	cfg.detectDevMode()
	if !cfg.IsDev {
		t.Error("NODE_ENV=dev should enable dev mode")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}
	if cfg.Prefix != "pos_console" {
		t.Fatalf("expected default prefix, got %q", cfg.Prefix)
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}
