package main

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lubsanchez/pos-console/config"
	"github.com/lubsanchez/pos-console/internal/apiclient"
	"github.com/lubsanchez/pos-console/internal/bootstrap"
	"github.com/lubsanchez/pos-console/internal/session"
)

// openSession builds a session store over the configured credential backend
// and restores whatever credential it holds. The returned func releases it.
func openSession(c *commandContext) (*session.Store, func(), error) {
	cfg := c.Config
	if cfg.CredentialStore.Backend != config.StoreRedis {
		c.Logger.WarnContext(c.Ctx, "credential store is process-local; changes will not reach a running console",
			"backend", string(cfg.CredentialStore.Backend))
	}

	var client redis.UniversalClient
	if cfg.CredentialStore.Backend == config.StoreRedis {
		var err error
		client, err = bootstrap.ConnectRedis(c.Ctx, cfg.Redis, c.Logger)
		if err != nil {
			return nil, nil, err
		}
	}
	closeRedis := func() {
		if client != nil {
			if err := client.Close(); err != nil {
				c.Logger.WarnContext(c.Ctx, "close redis failed", "error", err)
			}
		}
	}

	store, err := newStore(c, client)
	if err != nil {
		closeRedis()
		return nil, nil, err
	}
	if err = store.Restore(c.Ctx); err != nil {
		store.Close()
		closeRedis()
		return nil, nil, fmt.Errorf("restore session: %w", err)
	}
	return store, func() {
		store.Close()
		closeRedis()
	}, nil
}

func newStore(c *commandContext, client redis.UniversalClient) (*session.Store, error) {
	cfg := c.Config
	creds, err := bootstrap.NewCredentialBackend(cfg.CredentialStore, client, c.Logger)
	if err != nil {
		return nil, err
	}
	api, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	store, err := session.NewStore(session.StoreOptions{
		API:           api,
		Credentials:   creds,
		Logger:        c.Logger,
		LogoutTimeout: cfg.Session.LogoutTimeout,
		// Commands validate explicitly; the deferred startup check never fires.
		StartupDelay: maxStartupDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	api.Attach(store)
	return store, nil
}

var errNotSignedIn = errors.New("no operator is signed in")
