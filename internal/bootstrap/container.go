package bootstrap

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	posconsole "github.com/lubsanchez/pos-console"
	"github.com/lubsanchez/pos-console/config"
	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/adapters/memory"
	redisadapter "github.com/lubsanchez/pos-console/internal/adapters/redis"
	"github.com/lubsanchez/pos-console/internal/apiclient"
	"github.com/lubsanchez/pos-console/internal/clock"
	httpx "github.com/lubsanchez/pos-console/internal/http"
	"github.com/lubsanchez/pos-console/internal/observability/statsd"
	"github.com/lubsanchez/pos-console/internal/ports"
	"github.com/lubsanchez/pos-console/internal/service"
	"github.com/lubsanchez/pos-console/internal/session"
)

const cookieSecretSize = 32

// CredentialBackend persists the operator credential and reports changes
// made by other console instances.
type CredentialBackend interface {
	ports.CredentialStore
	ports.CredentialWatcher
}

// ContainerDeps holds the inputs to NewContainer. Redis is required only
// when the credential store backend is redis.
type ContainerDeps struct {
	Config *config.AppConfig
	Redis  redis.UniversalClient
	Logger *slog.Logger
	// Transport overrides the POS API round tripper; used by tests.
	Transport http.RoundTripper
	Clock     clock.Clock
}

// Container owns every long-lived component of the console.
type Container struct {
	Config    *config.AppConfig
	Hub       *httpx.Hub
	API       *apiclient.Client
	Store     *session.Store
	Guard     *session.Guard
	Evaluator *access.Evaluator
	Metrics   *statsd.Client
	Handler   http.Handler

	logger     *slog.Logger
	cancelCart context.CancelFunc
	closeOnce  sync.Once
}

// NewCredentialBackend selects the credential store configured by cfg.
//
//nolint:ireturn // the backend is chosen at runtime.
func NewCredentialBackend(cfg config.CredentialStoreConfig, client redis.UniversalClient, logger *slog.Logger) (CredentialBackend, error) {
	switch cfg.Backend {
	case config.StoreRedis:
		if client == nil {
			return nil, errors.New("redis credential store requires a redis client")
		}
		return redisadapter.NewCredentialStore(client, redisadapter.CredentialStoreOptions{
			Prefix: cfg.Namespace,
			Logger: logger,
		}), nil
	case config.StoreMemory, "":
		return memory.NewCredentialStore(memory.NewBackend(), cfg.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown credential store backend %q", cfg.Backend)
	}
}

// NewContainer wires the session store, access evaluator, POS services and
// HTTP surface. The persisted credential, if any, is restored before it returns.
func NewContainer(ctx context.Context, deps ContainerDeps) (*Container, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real{}
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.Observability.Metrics.Enabled,
		Address:    cfg.Observability.Metrics.StatsdAddress,
		Prefix:     cfg.Observability.Metrics.Prefix,
		GlobalTags: map[string]string{"env": cfg.Env},
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create metrics client: %w", err)
	}

	c := &Container{Config: cfg, Metrics: metrics, logger: logger}
	if err = c.wire(ctx, deps, clk); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context, deps ContainerDeps, clk clock.Clock) error {
	cfg := c.Config
	logger := c.logger

	creds, err := NewCredentialBackend(cfg.CredentialStore, deps.Redis, logger)
	if err != nil {
		return err
	}

	c.Hub = httpx.NewHub(logger)
	c.API, err = apiclient.New(apiclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Transport: deps.Transport,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	c.Store, err = session.NewStore(session.StoreOptions{
		API:             c.API,
		Credentials:     creds,
		Watcher:         creds,
		Navigator:       c.Hub,
		Clock:           clk,
		Metrics:         c.Metrics,
		Logger:          logger,
		MonitorInterval: cfg.Session.MonitorInterval,
		Cooldown:        cfg.Session.ValidationCooldown,
		StartupDelay:    cfg.Session.StartupValidationDelay,
		LogoutTimeout:   cfg.Session.LogoutTimeout,
		LoginPath:       httpx.PathLogin,
	})
	if err != nil {
		return fmt.Errorf("create session store: %w", err)
	}
	c.API.Attach(c.Store)
	if err = c.Store.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	c.Guard = session.NewGuard(c.Store, session.GuardOptions{
		LoginPath: httpx.PathLogin,
		HomePath:  httpx.PathDashboard,
	})

	matrix, err := loadMatrix(cfg.Session.PermissionsFile)
	if err != nil {
		return err
	}
	c.Evaluator = access.NewEvaluator(matrix, c.Store)

	ui, err := c.newUIHandlers(ctx, clk)
	if err != nil {
		return err
	}

	staticFS, err := frontendFS(cfg.IsDev, posconsole.StaticFS, "frontend/static")
	if err != nil {
		return err
	}
	channel := httpx.NewSessionChannel(httpx.SessionChannelOptions{
		Hub:       c.Hub,
		Session:   c.Store,
		Monitor:   c.Store.Monitor(),
		Evaluator: c.Evaluator,
		Regions:   ui.Regions,
		Logger:    logger,
	})
	c.Handler = httpx.NewRouter(httpx.RouterOptions{
		UI:         ui,
		Guard:      c.Guard,
		Identities: c.Store,
		Channel:    channel,
		StaticFS:   staticFS,
		CSRF:       httpx.CSRFConfig{Secure: cfg.UI.CookieSecure},
		IsDev:      cfg.IsDev,
		Logger:     logger,
	})
	return nil
}

func (c *Container) newUIHandlers(ctx context.Context, clk clock.Clock) (*httpx.UIHandlers, error) {
	cfg := c.Config
	logger := c.logger

	definitions, err := service.DefaultReportDefinitions()
	if err != nil {
		return nil, fmt.Errorf("load report definitions: %w", err)
	}
	catalog := service.NewCatalogService(service.CatalogServiceOptions{API: c.API})
	sales := service.NewSalesService(service.SalesServiceOptions{API: c.API, Metrics: c.Metrics, Logger: logger})
	reports, err := service.NewReportService(service.ReportServiceOptions{
		Sales:       c.API,
		Catalog:     c.API,
		Definitions: definitions,
		Clock:       clk,
		Location:    time.Local,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create report service: %w", err)
	}

	cart := service.NewCart()
	cartCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancelCart = cancel
	go cart.Watch(cartCtx, c.Store.Subscribe())

	secret, err := cookieSecret(cfg.UI.CookieSecret)
	if err != nil {
		return nil, err
	}
	templateFS, err := frontendFS(cfg.IsDev, posconsole.TemplateFS, "frontend/templates")
	if err != nil {
		return nil, err
	}
	renderer, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: templateFS,
		Evaluator:  c.Evaluator,
		Location:   time.Local,
		Now:        clk.Now,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	return &httpx.UIHandlers{
		T:         renderer,
		Session:   c.Store,
		Evaluator: c.Evaluator,
		Flash:     httpx.NewFlashes(httpx.FlashOptions{Secret: secret, Secure: cfg.UI.CookieSecure, Logger: logger}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{Sales: c.API, Catalog: c.API, Logger: logger}),
		Catalog:   catalog,
		Sales:     sales,
		Staff:     service.NewStaffService(service.StaffServiceOptions{API: c.API, Identity: c.Store}),
		Reports:   reports,
		Cart:      cart,
		Regions:   httpx.DefaultRegions(catalog, sales),
		Clock:     clk,
		IsDev:     cfg.IsDev,
		Logger:    logger,
	}, nil
}

// Close stops background work. It is safe to call more than once.
func (c *Container) Close() {
	c.closeOnce.Do(c.close)
}

func (c *Container) close() {
	if c.Hub != nil {
		c.Hub.Close()
	}
	if c.cancelCart != nil {
		c.cancelCart()
	}
	if c.Store != nil {
		c.Store.Close()
		c.Store.Wait()
	}
	if c.Metrics != nil {
		if err := c.Metrics.Close(); err != nil {
			c.logger.Warn("close metrics client failed", "error", err)
		}
	}
}

func loadMatrix(path string) (*access.Matrix, error) {
	if path == "" {
		m, err := access.DefaultMatrix()
		if err != nil {
			return nil, fmt.Errorf("load default permissions: %w", err)
		}
		return m, nil
	}
	m, err := access.LoadMatrixFile(path)
	if err != nil {
		return nil, fmt.Errorf("load permissions file: %w", err)
	}
	return m, nil
}

// frontendFS serves from disk in dev mode so edits show up on reload.
//
//nolint:ireturn // callers only need fs.FS.
func frontendFS(isDev bool, embedded fs.FS, dir string) (fs.FS, error) {
	if isDev {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}
	sub, err := fs.Sub(embedded, dir)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s: %w", dir, err)
	}
	return sub, nil
}

// cookieSecret returns the configured flash cookie secret or a random one.
// A random secret invalidates pending flashes on restart, which is harmless.
func cookieSecret(configured string) ([]byte, error) {
	if len(configured) >= cookieSecretSize {
		return []byte(configured), nil
	}
	secret := make([]byte, cookieSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate cookie secret: %w", err)
	}
	return secret, nil
}
