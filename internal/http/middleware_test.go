package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	mocks "github.com/lubsanchez/pos-console/internal/mocks/auth"
)

func TestRequireSession_RedirectsSignedOutBrowser(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())

	rec := h.get("/ventas?page=2")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fventas%3Fpage%3D2", rec.Header().Get("Location"))
}

func TestRequireSession_HTMXGetsRedirectHeader(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())

	req := htmxRequest(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	req.Header.Set("Hx-Current-Url", "http://localhost:8080/productos")
	rec := h.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fproductos", rec.Header().Get("Hx-Redirect"))
}

func TestRequireSession_APIClientGets401(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	rec := h.do(req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "authentication_required", body["error"])
}

func TestRequireSession_RejectedCredentialEndsSession(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()
	h.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, &mocks.StatusError{Status: http.StatusUnauthorized}
	}

	rec := h.get("/dashboard")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), PathLogin)
	assert.False(t, h.store.IsAuthenticated())
}

func TestRequireSession_OutageKeepsOperatorIn(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()
	h.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("dial tcp: connection refused")
	}

	rec := h.get("/dashboard")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, h.store.IsAuthenticated())
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name     string
		admin    bool
		path     string
		wantCode int
	}{
		{"employee sees sales", false, "/ventas", http.StatusOK},
		{"employee opens point of sale", false, "/pos", http.StatusOK},
		{"employee blocked from users", false, "/usuarios", http.StatusForbidden},
		{"employee blocked from reports", false, "/reportes", http.StatusForbidden},
		{"employee blocked from new product", false, "/productos/nuevo", http.StatusForbidden},
		{"admin sees users", true, "/usuarios", http.StatusOK},
		{"admin sees reports", true, "/reportes", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := mocks.DefaultEmployee()
			if tt.admin {
				identity = mocks.DefaultAdmin()
			}
			h := newHarness(t, identity)
			h.login()

			rec := h.get(tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), accessDeniedMessage)
			}
		})
	}
}

func TestRequirePermission_HTMXGetsToast(t *testing.T) {
	h := newHarness(t, mocks.DefaultEmployee())
	h.login()

	rec := h.do(htmxRequest(formRequest("/productos/7/eliminar", nil)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "showToast")
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), accessDeniedMessage)
}

func TestRequirePublic_RedirectsSignedInOperator(t *testing.T) {
	h := newHarness(t, mocks.DefaultEmployee())
	h.login()

	rec := h.get("/login")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, PathDashboard, rec.Header().Get("Location"))
}

func TestRequireCredential_BackfillsIdentity(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.creds.Put(domainauth.Credential{Type: "bearer", Token: "tok-restored"})
	require.NoError(t, h.store.Restore(t.Context()))

	_, known := h.store.CurrentIdentity()
	require.False(t, known)

	rec := h.get("/fragments/" + RegionAdminTools)

	assert.Equal(t, http.StatusOK, rec.Code)
	_, known = h.store.CurrentIdentity()
	assert.True(t, known)
	assert.Equal(t, 1, h.api.MeCalls())
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{"html accept", "/dashboard", "text/html,application/xhtml+xml", false, true},
		{"no accept", "/dashboard", "", false, true},
		{"json accept", "/dashboard", "application/json", false, false},
		{"htmx", "/dashboard", "*/*", true, true},
		{"api prefix", "/api/session", "text/html", false, false},
		{"websocket prefix", "/ws/session", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				req.Header.Set("Hx-Request", "true")
			}
			assert.Equal(t, tt.want, IsBrowserRequest(req))
		})
	}
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"/ventas?page=2":       "/ventas?page=2",
		"":                     "",
		"ventas":               "",
		"//evil.example":       "",
		"/\\evil.example":      "",
		"https://evil.example": "",
		"/ok\r\nSet-Cookie:x":  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}

func TestRecover_Returns500(t *testing.T) {
	handler := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
