package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lubsanchez/pos-console/config"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/testutil"
)

func testConfig(apiURL string) *config.AppConfig {
	return &config.AppConfig{
		Env: "test",
		API: config.APIConfig{BaseURL: apiURL, Timeout: 5 * time.Second},
		Session: config.SessionConfig{
			MonitorInterval:        time.Hour,
			ValidationCooldown:     time.Second,
			StartupValidationDelay: time.Hour,
			LogoutTimeout:          time.Second,
		},
		CredentialStore: config.CredentialStoreConfig{Backend: config.StoreMemory, Namespace: "test:session:"},
		HTTP:            config.HTTPConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestContainer(t *testing.T, cfg *config.AppConfig, deps ContainerDeps) *Container {
	t.Helper()
	deps.Config = cfg
	deps.Logger = discardLogger()
	c, err := NewContainer(context.Background(), deps)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_ServesConsole(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(api.Close)
	c := newTestContainer(t, testConfig(api.URL), ContainerDeps{})

	rec := httptest.NewRecorder()
	c.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	rec = httptest.NewRecorder()
	c.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login"))

	rec = httptest.NewRecorder()
	c.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, c.Store.IsAuthenticated())
}

func TestNewContainer_RestoresRedisCredential(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	cfg := testConfig("http://127.0.0.1:1")
	cfg.CredentialStore.Backend = config.StoreRedis

	seed, err := NewCredentialBackend(cfg.CredentialStore, client, discardLogger())
	require.NoError(t, err)
	require.NoError(t, seed.Save(context.Background(), domainauth.Credential{Type: "bearer", Token: "tok-1"}))

	c := newTestContainer(t, cfg, ContainerDeps{Redis: client})

	assert.True(t, c.Store.IsAuthenticated())
	cred, ok := c.Store.Credential()
	require.True(t, ok)
	assert.Equal(t, "tok-1", cred.Token)
	_, known := c.Store.CurrentIdentity()
	assert.False(t, known)
}

func TestNewContainer_Errors(t *testing.T) {
	_, err := NewContainer(context.Background(), ContainerDeps{})
	require.Error(t, err)

	cfg := testConfig("http://127.0.0.1:1")
	cfg.Session.PermissionsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewContainer(context.Background(), ContainerDeps{Config: cfg, Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")

	cfg = testConfig("http://127.0.0.1:1")
	cfg.CredentialStore.Backend = config.StoreRedis
	_, err = NewContainer(context.Background(), ContainerDeps{Config: cfg, Logger: discardLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis client")
}

func TestNewCredentialBackend_Unknown(t *testing.T) {
	_, err := NewCredentialBackend(config.CredentialStoreConfig{Backend: "etcd"}, nil, nil)
	require.Error(t, err)
}

func TestCookieSecret(t *testing.T) {
	configured := strings.Repeat("s", cookieSecretSize)
	got, err := cookieSecret(configured)
	require.NoError(t, err)
	assert.Equal(t, []byte(configured), got)

	a, err := cookieSecret("short")
	require.NoError(t, err)
	b, err := cookieSecret("")
	require.NoError(t, err)
	assert.Len(t, a, cookieSecretSize)
	assert.NotEqual(t, a, b)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	api := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(api.Close)
	c := newTestContainer(t, testConfig(api.URL), ContainerDeps{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, RunConfig{Container: c, Logger: discardLogger()}) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStartHTTPServer_ServesAndShutsDown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	server, errCh, err := StartHTTPServer(discardLogger(), handler, "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get("http://" + server.Addr + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	require.NoError(t, ShutdownHTTPServer(context.Background(), server, time.Second, discardLogger()))
	_, open := <-errCh
	assert.False(t, open)
}
