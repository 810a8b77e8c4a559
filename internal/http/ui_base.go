package httpx

import (
	"context"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/clock"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/http/ui/viewmodel"
	"github.com/lubsanchez/pos-console/internal/service"
	"github.com/lubsanchez/pos-console/internal/session"
)

const errMsgFixBelow = "Please fix the errors below."

// SessionController is the part of the session store the handlers drive.
type SessionController interface {
	Login(ctx context.Context, in domainauth.Credentials) (domainauth.Identity, error)
	Register(ctx context.Context, in domainauth.Registration) (domainauth.Identity, error)
	Logout(ctx context.Context)
	IsAuthenticated() bool
	CurrentIdentity() (domainauth.Identity, bool)
	LastValidated() time.Time
	ValidateNow(ctx context.Context) bool
}

// DashboardLoader loads the landing page.
type DashboardLoader interface {
	Load(ctx context.Context) (service.Dashboard, error)
}

// CatalogManager is the catalog surface used by the product and category pages.
type CatalogManager interface {
	Categories(ctx context.Context) ([]pos.Category, error)
	Category(ctx context.Context, id int64) (pos.Category, error)
	SaveCategory(ctx context.Context, id int64, in pos.CategoryInput) (pos.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	Products(ctx context.Context, q pos.ProductQuery) (pos.Page[pos.Product], error)
	Product(ctx context.Context, id int64) (pos.Product, error)
	Lookup(ctx context.Context, code string) (pos.Product, error)
	SaveProduct(ctx context.Context, id int64, in pos.ProductInput) (pos.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	LowStock(ctx context.Context) ([]pos.Product, error)
}

// SalesManager runs checkout and the sales history.
type SalesManager interface {
	Checkout(ctx context.Context, cart *service.Cart, req service.CheckoutRequest) (pos.Sale, error)
	List(ctx context.Context, q pos.SaleQuery) (pos.Page[pos.Sale], error)
	Get(ctx context.Context, id int64) (pos.Sale, error)
	Cancel(ctx context.Context, id int64) (pos.Sale, error)
	Stats(ctx context.Context, q pos.SaleQuery) (pos.SaleStats, error)
}

// StaffManager manages operator accounts.
type StaffManager interface {
	List(ctx context.Context) ([]domainauth.Identity, error)
	Save(ctx context.Context, id int64, in pos.StaffInput) (domainauth.Identity, error)
	Delete(ctx context.Context, id int64) error
}

// ReportBuilder builds the reports page and its CSV export.
type ReportBuilder interface {
	Definitions() []service.ReportDefinition
	Load(ctx context.Context, q service.ReportQuery) (service.PeriodReport, error)
	Export(ctx context.Context, q service.ReportQuery, w io.Writer) error
	ExportFilename(q service.ReportQuery) string
}

// Compile-time interface assertions to ensure concrete types satisfy their UI interfaces.
var (
	_ SessionController = (*session.Store)(nil)
	_ DashboardLoader   = (*service.DashboardService)(nil)
	_ CatalogManager    = (*service.CatalogService)(nil)
	_ SalesManager      = (*service.SalesService)(nil)
	_ StaffManager      = (*service.StaffService)(nil)
	_ ReportBuilder     = (*service.ReportService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Session   SessionController
	Evaluator *access.Evaluator
	Flash     *Flashes
	Dashboard DashboardLoader
	Catalog   CatalogManager
	Sales     SalesManager
	Staff     StaffManager
	Reports   ReportBuilder
	Cart      *service.Cart
	Regions   *Regions
	Clock     clock.Clock
	IsDev     bool // Development mode flag for enhanced error reporting
	Logger    *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock.Now()
	}
	return time.Now()
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// A failed fetch still renders the page with an error banner.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().WarnContext(r.Context(), "page data failed to load",
				"page", spec.Meta.CurrentPage, "error", err)
			markPageError(data, err)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a page with htmx partial support. Full renders drain
// the flash queue into the layout; partial renders send it as toast events.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	toasts := h.Flash.Pop(w, r)

	if !WantsPartial(r) {
		data["Toasts"] = toViewToasts(toasts)
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	for _, t := range toasts {
		HTMX(w).Toast(t)
	}
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	title, _ := data["Title"].(string)
	current, _ := data["CurrentPage"].(string)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Include a <title> element so htmx updates document.title on partial swaps
	if _, err := io.WriteString(w, `<title>`+html.EscapeString(title)+`</title>`); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	if err := h.T.t.ExecuteTemplate(w, ContentTemplateFor(current), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

func toViewToasts(in []service.Toast) []viewmodel.Toast {
	out := make([]viewmodel.Toast, 0, len(in))
	for _, t := range in {
		out = append(out, viewmodel.Toast{
			ID:         t.ID,
			Kind:       string(t.Kind),
			Message:    t.Message,
			DurationMS: t.DurationMS(),
		})
	}
	return out
}

func markPageError(data map[string]any, err error) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = apperrors.UserMessage(err)
}

// done flashes a success toast and sends the browser to path.
func (h *UIHandlers) done(w http.ResponseWriter, r *http.Request, path, message string) {
	h.Flash.Add(w, r, service.Success(message))
	redirect(w, r, path)
}

// fail reports an action error: a toast for htmx callers, otherwise a flash and a redirect.
func (h *UIHandlers) fail(w http.ResponseWriter, r *http.Request, path, action string, err error) {
	h.logger().WarnContext(r.Context(), "ui action failed", "action", action, "path", r.URL.Path, "error", err)
	toast := service.ToastFor(action, err)
	if IsHTMX(r) {
		HTMX(w).Toast(toast)
		w.WriteHeader(statusForCode(apperrors.GetCode(apperrors.MapAPIError(err))))
		return
	}
	h.Flash.Add(w, r, toast)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// NotFound renders the not found page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: apperrors.NotFound("not found")})
		return
	}
	_ = h.T.RenderError(w, r, ErrorPageData{
		Status:  http.StatusNotFound,
		Title:   "Page not found",
		Message: "The page you are looking for does not exist.",
	})
}

// renderLoadError shows the error page for a record that failed to load.
func (h *UIHandlers) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForCode(apperrors.GetCode(apperrors.MapAPIError(err)))
	if status == http.StatusNotFound {
		h.NotFound(w, r)
		return
	}
	_ = h.T.RenderError(w, r, ErrorPageData{Status: status, Message: apperrors.UserMessage(err)})
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := io.WriteString(w,
			`<div class="template-error"><h2>Template Rendering Error</h2>`+
				`<p><strong>Context:</strong> `+html.EscapeString(context)+`</p>`+
				`<p><strong>Path:</strong> `+html.EscapeString(r.URL.Path)+`</p>`+
				`<pre>`+html.EscapeString(err.Error())+`</pre></div>`); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
