// Package memory provides process-local adapters for single-station deployments.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/ports"
)

const (
	tokenKey     = "auth_token"
	tokenTypeKey = "token_type"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore   = (*CredentialStore)(nil)
	_ ports.CredentialWatcher = (*CredentialStore)(nil)
)

// Backend is the shared key space behind one or more CredentialStore handles.
type Backend struct {
	mu     sync.Mutex
	values map[string]string
	subs   map[chan ports.CredentialChange]struct{}
}

// NewBackend creates an empty key space.
func NewBackend() *Backend {
	return &Backend{
		values: make(map[string]string),
		subs:   make(map[chan ports.CredentialChange]struct{}),
	}
}

// Set writes an arbitrary key. Used for values that share the session namespace.
func (b *Backend) Set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
}

// Len returns the number of stored keys.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

func (b *Backend) broadcast(change ports.CredentialChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// CredentialStore keeps the credential in process memory under a key prefix.
type CredentialStore struct {
	backend *Backend
	prefix  string
	origin  string
}

// NewCredentialStore creates a handle on backend. A nil backend gets a private one.
func NewCredentialStore(backend *Backend, prefix string) *CredentialStore {
	if backend == nil {
		backend = NewBackend()
	}
	return &CredentialStore{backend: backend, prefix: strings.TrimSpace(prefix), origin: uuid.NewString()}
}

func (s *CredentialStore) Load(_ context.Context) (domainauth.Credential, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	token := s.backend.values[s.prefix+tokenKey]
	if token == "" {
		return domainauth.Credential{}, ports.ErrCredentialNotFound
	}
	return domainauth.Credential{Type: s.backend.values[s.prefix+tokenTypeKey], Token: token}, nil
}

func (s *CredentialStore) Save(_ context.Context, cred domainauth.Credential) error {
	s.backend.mu.Lock()
	s.backend.values[s.prefix+tokenKey] = cred.Token
	s.backend.values[s.prefix+tokenTypeKey] = cred.Type
	s.backend.mu.Unlock()

	s.backend.broadcast(ports.CredentialChange{Kind: ports.CredentialSaved, Origin: s.origin})
	return nil
}

// Clear removes every key under the prefix.
func (s *CredentialStore) Clear(_ context.Context) error {
	s.backend.mu.Lock()
	for k := range s.backend.values {
		if strings.HasPrefix(k, s.prefix) {
			delete(s.backend.values, k)
		}
	}
	s.backend.mu.Unlock()

	s.backend.broadcast(ports.CredentialChange{Kind: ports.CredentialCleared, Origin: s.origin})
	return nil
}

// Watch reports changes made through other handles on the same backend.
func (s *CredentialStore) Watch(ctx context.Context) (<-chan ports.CredentialChange, error) {
	in := make(chan ports.CredentialChange, 8)
	out := make(chan ports.CredentialChange, 8)

	s.backend.mu.Lock()
	s.backend.subs[in] = struct{}{}
	s.backend.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			s.backend.mu.Lock()
			delete(s.backend.subs, in)
			s.backend.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case change := <-in:
				if change.Origin == s.origin {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
