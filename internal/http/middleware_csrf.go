package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lubsanchez/pos-console/internal/service"
)

const (
	// DefaultCSRFCookieName is the default name for the CSRF cookie.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the default name for the CSRF header (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the default length of the CSRF token in bytes.
	DefaultCSRFTokenLength = 32

	csrfCookieMaxAge = 12 * 60 * 60
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	TokenLength   int
	// Secure forces the Secure cookie attribute even on plain HTTP requests.
	Secure bool
}

func (c CSRFConfig) withDefaults() CSRFConfig {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FormFieldName == "" {
		c.FormFieldName = DefaultCSRFCookieName
	}
	if c.TokenLength == 0 {
		c.TokenLength = DefaultCSRFTokenLength
	}
	return c
}

// CSRFProtection guards state-changing requests with the double-submit cookie
// pattern. The token travels in the X-Csrf-Token header (htmx, session.js)
// or the csrf_token form field. Safe methods only receive a token.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieValue(r, cfg.CookieName)
			if token == "" {
				var err error
				token, err = generateCSRFToken(cfg.TokenLength)
				if err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // read by session.js for htmx headers
					Secure:   cfg.Secure || r.TLS != nil || isForwardedHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   csrfCookieMaxAge,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if requiresCSRFValidation(r.Method) && !validateCSRFToken(r, token, cfg) {
				rejectCSRF(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rejectCSRF(w http.ResponseWriter, r *http.Request) {
	switch {
	case IsHTMX(r):
		HTMX(w).Toast(service.Error("Your form expired. Reload the page and try again."))
		w.WriteHeader(http.StatusForbidden)
	case IsBrowserRequest(r):
		http.Error(w, "CSRF token validation failed", http.StatusForbidden)
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "csrf_failed",
			Err:     errors.New("csrf token validation failed"),
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// generateCSRFToken fails closed: no predictable fallback token.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// isForwardedHTTPS handles comma-separated X-Forwarded-Proto values.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

func validateCSRFToken(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieToken == "" {
		return false
	}

	if headerToken := r.Header.Get(cfg.HeaderName); headerToken != "" {
		return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/x-www-form-urlencoded") &&
		!strings.HasPrefix(contentType, "multipart/form-data") {
		return false
	}
	if err := r.ParseForm(); err != nil {
		return false
	}
	formToken := r.PostFormValue(cfg.FormFieldName)
	return formToken != "" && subtle.ConstantTimeCompare([]byte(formToken), []byte(cookieToken)) == 1
}

type csrfTokenKey struct{}

// GetCSRFToken retrieves the CSRF token from the request context for templates.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
