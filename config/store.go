package config

import (
	"fmt"
	"net/url"
	"strings"
)

// StoreBackend selects where the operator credential is kept.
type StoreBackend string

const (
	// StoreMemory keeps the credential in process memory; it is lost on restart.
	StoreMemory StoreBackend = "memory"
	// StoreRedis keeps the credential in Redis, shared by every console on the station.
	StoreRedis StoreBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for StoreBackend.
func (b *StoreBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*b = StoreBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid StoreBackend: %q (valid options: memory, redis)", v)
	}
}

// CredentialStoreConfig selects and namespaces the credential store.
type CredentialStoreConfig struct {
	Backend StoreBackend `env:"CREDENTIAL_STORE" envDefault:"memory"`

	// Namespace prefixes every key the session owns; logout removes all of them.
	Namespace string `env:"CREDENTIAL_NAMESPACE" envDefault:"pos:session:"`
}

// Sanitize applies guardrails to credential store configuration values.
func (c *CredentialStoreConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StoreMemory
	}
	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Namespace == "" {
		c.Namespace = "pos:session:"
	}
	if !strings.HasSuffix(c.Namespace, ":") {
		c.Namespace += ":"
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.URI = strings.TrimSpace(r.URI)
	if r.URI == "" {
		r.URI = "localhost:6379"
	}
	if r.DB < 0 {
		r.DB = 0
	}
	nodes := r.SentinelNodes[:0]
	for _, n := range r.SentinelNodes {
		if n = strings.TrimSpace(n); n != "" {
			nodes = append(nodes, n)
		}
	}
	r.SentinelNodes = nodes
	if r.UseSentinel && len(r.SentinelNodes) == 0 {
		r.UseSentinel = false
	}
}

// RedactedURI returns URI with any embedded password masked, for logging.
func (r RedisConfig) RedactedURI() string {
	u, err := url.Parse(r.URI)
	if err != nil || u.User == nil {
		return r.URI
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
