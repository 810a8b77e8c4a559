package httpx

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/service"
	"github.com/lubsanchez/pos-console/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush implements http.Flusher so streamed exports are not buffered.
func (w *respWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker for the session websocket.
func (w *respWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("http.Hijacker not supported")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionGuard decides whether a request may enter a view. *session.Guard satisfies it.
type SessionGuard interface {
	Present(ctx context.Context) session.Decision
	Protected(ctx context.Context) session.Decision
	PublicOnly() session.Decision
	LoginPath() string
	HomePath() string
}

// PermissionChecker answers whether the current operator satisfies a requirement.
// *access.Evaluator satisfies it.
type PermissionChecker interface {
	Satisfies(req access.Requirement) bool
}

// RequireSession confirms the session with the API before the view runs.
// Browsers are redirected to the login page when the guard denies.
func RequireSession(guard SessionGuard, ids access.IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requireDecision(w, r, next, guard, guard.Protected(r.Context()), ids)
		})
	}
}

// RequireCredential admits requests while a credential is held, without an
// API round trip. Used by fragments and the session channel, which are
// refreshed far more often than pages. When no identity is known yet the
// full check runs once to backfill it.
func RequireCredential(guard SessionGuard, ids access.IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := guard.Present(r.Context())
			if d.Allow {
				if _, ok := ids.CurrentIdentity(); !ok {
					d = guard.Protected(r.Context())
				}
			}
			requireDecision(w, r, next, guard, d, ids)
		})
	}
}

func requireDecision(w http.ResponseWriter, r *http.Request, next http.Handler,
	guard SessionGuard, d session.Decision, ids access.IdentitySource,
) {
	if !d.Allow {
		denyUnauthenticated(w, r, guard.LoginPath())
		return
	}
	ctx := r.Context()
	if identity, ok := ids.CurrentIdentity(); ok {
		ctx = SetIdentityInContext(ctx, identity)
	}
	next.ServeHTTP(w, r.WithContext(ctx))
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request, loginPath string) {
	if IsBrowserRequest(r) {
		redirectToLogin(w, r, loginPath)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// RequirePublic keeps signed-in operators away from the login and register pages.
func RequirePublic(guard SessionGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := guard.PublicOnly(); !d.Allow {
				redirect(w, r, d.Redirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission denies the request unless the operator satisfies req.
// It must run inside RequireSession or RequireCredential.
func RequirePermission(checker PermissionChecker, req access.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Satisfies(req) {
				denyForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const accessDeniedMessage = "You do not have permission for this action."

func denyForbidden(w http.ResponseWriter, r *http.Request) {
	switch {
	case IsHTMX(r):
		HTMX(w).Toast(service.Warning(accessDeniedMessage))
		w.WriteHeader(http.StatusForbidden)
	case IsBrowserRequest(r):
		showAccessDenied(w, r)
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "insufficient_permissions",
			Err:     errors.New("insufficient permissions"),
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// It sets a context value that can be used by downstream handlers to determine
// whether to return HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest classifies by path prefix first, then htmx, then Accept.
func isBrowserRequest(r *http.Request) bool {
	for _, prefix := range []string{"/api/", "/static/", "/ws/"} {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// redirectToLogin sends the browser to the login page, remembering where it was going.
func redirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	target := loginPath
	if back := redirectPathForRequest(r); back != "" && back != "/" {
		target += "?redirect=" + url.QueryEscape(back)
	}

	if IsHTMX(r) {
		// A 200 with HX-Redirect keeps htmx from swapping an error into the page.
		SetHXRedirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "" {
			return referer
		}
	}
	if r.Method != http.MethodGet {
		return ""
	}
	return safeRedirectPath(r.URL.RequestURI())
}

// safeRedirectPath accepts only local absolute paths.
func safeRedirectPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return ""
	}
	if strings.ContainsAny(p, "\r\n") {
		return ""
	}
	return p
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// For absolute URLs, use just the path/query portion to keep redirects within the app.
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}

// showAccessDenied renders the forbidden page for browser requests.
func showAccessDenied(w http.ResponseWriter, r *http.Request) {
	if renderer, ok := r.Context().Value(rendererKey{}).(*TemplateRenderer); ok && renderer != nil {
		renderer.RenderError(w, r, ErrorPageData{
			Status:  http.StatusForbidden,
			Title:   "Access denied",
			Message: accessDeniedMessage,
		})
		return
	}
	http.Error(w, "Access Denied: "+accessDeniedMessage, http.StatusForbidden)
}

type rendererKey struct{}

// WithRenderer makes the renderer available to middleware that renders pages.
func WithRenderer(renderer *TemplateRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), rendererKey{}, renderer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
