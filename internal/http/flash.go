package httpx

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/lubsanchez/pos-console/internal/service"
)

const (
	flashSessionName = "pos_flash"
	flashMaxAge      = 5 * 60
)

func init() {
	gob.Register(service.Toast{})
}

// FlashOptions configures the flash cookie.
type FlashOptions struct {
	// Secret signs the cookie; at least 32 bytes.
	Secret []byte
	Secure bool
	Logger *slog.Logger
}

// Flashes carries toasts across a redirect in a signed cookie so the next
// full page render can show them.
type Flashes struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

// NewFlashes constructs the flash store.
func NewFlashes(opts FlashOptions) *Flashes {
	store := sessions.NewCookieStore(opts.Secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Flashes{store: store, logger: logger}
}

// Add queues a toast for the next rendered page.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, t service.Toast) {
	if f == nil {
		return
	}
	// A tampered or stale cookie still yields a fresh session.
	sess, err := f.store.Get(r, flashSessionName)
	if err != nil {
		f.logger.DebugContext(r.Context(), "discarding unreadable flash cookie", "error", err)
	}
	sess.AddFlash(t)
	if err := sess.Save(r, w); err != nil {
		f.logger.WarnContext(r.Context(), "saving flash failed", "error", err)
	}
}

// Pop returns and clears the queued toasts.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []service.Toast {
	if f == nil {
		return nil
	}
	if _, err := r.Cookie(flashSessionName); err != nil {
		return nil
	}
	sess, err := f.store.Get(r, flashSessionName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		f.logger.WarnContext(r.Context(), "clearing flash failed", "error", err)
	}
	out := make([]service.Toast, 0, len(raw))
	for _, v := range raw {
		if t, ok := v.(service.Toast); ok {
			out = append(out, t)
		}
	}
	return out
}
