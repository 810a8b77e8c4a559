package redis

// Package redis provides Redis-backed adapters for the console.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/ports"
)

// DefaultPrefix namespaces every key the console writes.
const DefaultPrefix = "pos:session:"

const (
	tokenKey     = "auth_token"
	tokenTypeKey = "token_type"
	eventsSuffix = "events"
	scanBatch    = 100
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore   = (*CredentialStore)(nil)
	_ ports.CredentialWatcher = (*CredentialStore)(nil)
)

// CredentialStoreOptions configures a CredentialStore.
type CredentialStoreOptions struct {
	// Prefix is the key namespace; DefaultPrefix when empty.
	Prefix string
	// InstanceID tags published changes so an instance ignores its own; random when empty.
	InstanceID string
	Logger     *slog.Logger
}

// CredentialStore persists the operator credential in Redis and announces
// changes on a pub/sub channel so other console instances can follow along.
type CredentialStore struct {
	client  redis.UniversalClient
	prefix  string
	channel string
	origin  string
	logger  *slog.Logger
}

// NewCredentialStore creates a Redis-backed credential store.
func NewCredentialStore(client redis.UniversalClient, opts CredentialStoreOptions) *CredentialStore {
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	origin := strings.TrimSpace(opts.InstanceID)
	if origin == "" {
		origin = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{
		client:  client,
		prefix:  prefix,
		channel: prefix + eventsSuffix,
		origin:  origin,
		logger:  logger.With("component", "credential_store", "backend", "redis"),
	}
}

// InstanceID returns the origin tag this store publishes with.
func (s *CredentialStore) InstanceID() string { return s.origin }

func (s *CredentialStore) key(name string) string { return s.prefix + name }

func (s *CredentialStore) Load(ctx context.Context) (domainauth.Credential, error) {
	vals, err := s.client.MGet(ctx, s.key(tokenKey), s.key(tokenTypeKey)).Result()
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("redis mget: %w", err)
	}
	token, _ := vals[0].(string)
	if token == "" {
		return domainauth.Credential{}, ports.ErrCredentialNotFound
	}
	tokenType, _ := vals[1].(string)
	return domainauth.Credential{Type: tokenType, Token: token}, nil
}

func (s *CredentialStore) Save(ctx context.Context, cred domainauth.Credential) error {
	if !cred.Present() {
		return errors.New("credential token cannot be empty")
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(tokenKey), cred.Token, 0)
		pipe.Set(ctx, s.key(tokenTypeKey), cred.Type, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credential: %w", err)
	}
	s.publish(ctx, ports.CredentialSaved)
	return nil
}

// Clear removes every key under the namespace, not only the credential.
func (s *CredentialStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	s.publish(ctx, ports.CredentialCleared)
	return nil
}

// publish announces a change. Failures are logged: other instances only miss a hint.
func (s *CredentialStore) publish(ctx context.Context, kind ports.CredentialChangeKind) {
	payload, err := json.Marshal(ports.CredentialChange{Kind: kind, Origin: s.origin})
	if err != nil {
		s.logger.WarnContext(ctx, "marshal credential change", slog.Any("error", err))
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.WarnContext(ctx, "publish credential change", slog.Any("error", err))
	}
}

// Watch subscribes to changes made by other instances. The channel closes when ctx is done.
func (s *CredentialStore) Watch(ctx context.Context) (<-chan ports.CredentialChange, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	// Wait for the subscription to be confirmed so no change is missed after Watch returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", s.channel, err)
	}

	out := make(chan ports.CredentialChange, 8)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				s.logger.Debug("close credential subscription", slog.Any("error", err))
			}
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				change, ok := s.decode(msg.Payload)
				if !ok {
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

func (s *CredentialStore) decode(payload string) (ports.CredentialChange, bool) {
	var change ports.CredentialChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		s.logger.Warn("ignoring malformed credential change", slog.Any("error", err))
		return change, false
	}
	if change.Origin == s.origin {
		return change, false
	}
	switch change.Kind {
	case ports.CredentialSaved, ports.CredentialCleared:
		return change, true
	default:
		return change, false
	}
}
