package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfTestHandler() http.Handler {
	return BrowserDetection()(CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	})))
}

func TestCSRFProtection_SafeMethodIssuesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCSRFCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.Equal(t, cookies[0].Value, rec.Body.String())
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	rec := httptest.NewRecorder()
	csrfTestHandler().ServeHTTP(rec, req)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, testCSRFToken, rec.Body.String())
}

func TestCSRFProtection_Validation(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *http.Request
		wantCode int
	}{
		{
			name:     "form field matches cookie",
			build:    func() *http.Request { return formRequest("/logout", nil) },
			wantCode: http.StatusOK,
		},
		{
			name: "header matches cookie",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/pos/cart", nil)
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
				req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
				return req
			},
			wantCode: http.StatusOK,
		},
		{
			name: "missing token",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(""))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
				return req
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "header mismatch wins over a good form field",
			build: func() *http.Request {
				req := formRequest("/logout", nil)
				req.Header.Set(DefaultCSRFHeaderName, "other")
				return req
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "no cookie",
			build: func() *http.Request {
				form := url.Values{DefaultCSRFCookieName: {testCSRFToken}}
				req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "json body cannot carry the token",
			build: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/session/validate", strings.NewReader(`{"csrf_token":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "x"})
				return req
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			csrfTestHandler().ServeHTTP(rec, tt.build())
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCSRFProtection_RejectionShapes(t *testing.T) {
	t.Run("htmx gets a toast", func(t *testing.T) {
		req := htmxRequest(httptest.NewRequest(http.MethodPost, "/pos/cart", nil))
		rec := httptest.NewRecorder()
		csrfTestHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Header().Get("Hx-Trigger"), "showToast")
	})

	t.Run("api gets json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/session/validate", nil)
		rec := httptest.NewRecorder()
		csrfTestHandler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "csrf_failed")
	})
}

func TestIsForwardedHTTPS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isForwardedHTTPS(req))
	req.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isForwardedHTTPS(req))
}
