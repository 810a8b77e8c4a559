package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lubsanchez/pos-console/internal/service"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// IsBoosted reports whether the request was initiated by hx-boost (Hx-Boosted: true).
func IsBoosted(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Boosted"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment.
// Boosted navigations still get the full layout so the whole body is swapped.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !IsBoosted(r)
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXPushURL pushes the given URL into the browser history for the new content.
func SetHXPushURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Push-Url", url) }

// SetHXTrigger adds a client-side event to the Hx-Trigger header. Events
// already set on the response are kept, so a toast and a navigation hint can
// travel together. A nil payload sends true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}

	events := map[string]any{}
	if existing := w.Header().Get("Hx-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			events = map[string]any{existing: true}
		}
	}
	events[event] = value

	b, err := json.Marshal(events)
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect sets HX-Redirect and answers 204. The handler must return right after.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger triggers a client-side event after swap with optional payload.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// PushURL pushes the given URL into the browser history for the new content.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	SetHXPushURL(h.w, url)
	return h
}

// Toast queues a toast for the browser through the showToast event.
func (h *HTMXResponse) Toast(t service.Toast) *HTMXResponse {
	if strings.TrimSpace(t.Message) == "" {
		return h
	}
	SetHXTrigger(h.w, "showToast", map[string]any{
		"id":       t.ID,
		"message":  t.Message,
		"type":     string(t.Kind),
		"duration": t.DurationMS(),
	})
	return h
}

// redirect sends the browser to path: HX-Redirect for htmx requests, 303 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(path)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
