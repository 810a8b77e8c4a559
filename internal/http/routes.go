package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/lubsanchez/pos-console/internal/access"
)

// RouterOptions holds everything the HTTP router needs.
type RouterOptions struct {
	UI *UIHandlers
	// Guard decides which views a request may enter.
	Guard SessionGuard
	// Identities backfills the operator into the request context.
	Identities access.IdentitySource
	// Channel serves /ws/session. Nil disables the route.
	Channel http.Handler
	// StaticFS is rooted at the static directory.
	StaticFS fs.FS
	CSRF     CSRFConfig
	IsDev    bool
	Logger   *slog.Logger
}

// NewRouter builds the console's handler: every page sits behind the
// session guard and, where it changes data or shows restricted records,
// behind a permission check.
func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()
	h := opts.UI

	session := RequireSession(opts.Guard, opts.Identities)
	credential := RequireCredential(opts.Guard, opts.Identities)
	public := RequirePublic(opts.Guard)
	can := func(req access.Requirement, fn http.HandlerFunc) http.Handler {
		return session(RequirePermission(h.Evaluator, req)(fn))
	}
	canDo := func(a access.Action, fn http.HandlerFunc) http.Handler {
		return can(access.Any(a), fn)
	}

	mux.Handle("GET /healthz", healthHandler(opts.Identities))
	mux.Handle("HEAD /healthz", healthHandler(opts.Identities))
	mux.Handle("GET /static/", staticWithCacheHeaders(opts.IsDev,
		http.StripPrefix("/static/", http.FileServer(http.FS(opts.StaticFS)))))

	// Sign-in
	mux.Handle("GET /login", public(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /login", public(http.HandlerFunc(h.Login)))
	mux.Handle("GET /register", public(http.HandlerFunc(h.RegisterPage)))
	mux.Handle("POST /register", public(http.HandlerFunc(h.Register)))
	mux.HandleFunc("POST /logout", h.Logout)

	// Session state
	mux.HandleFunc("GET /api/session", h.SessionStatus)
	mux.HandleFunc("POST /api/session/validate", h.ValidateSession)
	if opts.Channel != nil {
		mux.Handle("GET /ws/session", credential(opts.Channel))
	}
	mux.Handle("GET /fragments/{region}", credential(http.HandlerFunc(h.Fragment)))

	mux.Handle("GET /dashboard", session(http.HandlerFunc(h.DashboardPage)))
	registerPOSRoutes(mux, h, canDo)
	registerCatalogRoutes(mux, h, canDo)
	registerSalesRoutes(mux, h, canDo)
	registerUserRoutes(mux, h, canDo)
	registerReportRoutes(mux, h, canDo)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, PathDashboard, http.StatusSeeOther)
			return
		}
		h.NotFound(w, r)
	})

	var handler http.Handler = mux
	handler = CSRFProtection(opts.CSRF)(handler)
	if h.T != nil {
		handler = WithRenderer(h.T)(handler)
	}
	handler = BrowserDetection()(handler)
	handler = Logging(opts.Logger)(handler)
	return Recover(opts.Logger)(handler)
}

type permissionRoute func(a access.Action, fn http.HandlerFunc) http.Handler

func registerPOSRoutes(mux *http.ServeMux, h *UIHandlers, can permissionRoute) {
	mux.Handle("GET /pos", can(access.SalesCreate, h.POSPage))
	mux.Handle("POST /pos/cart", can(access.SalesCreate, h.CartAdd))
	mux.Handle("POST /pos/cart/clear", can(access.SalesCreate, h.CartClear))
	mux.Handle("POST /pos/cart/{id}", can(access.SalesCreate, h.CartUpdate))
	mux.Handle("POST /pos/cart/{id}/remove", can(access.SalesCreate, h.CartRemove))
	mux.Handle("POST /pos/checkout", can(access.SalesCreate, h.Checkout))
}

func registerCatalogRoutes(mux *http.ServeMux, h *UIHandlers, can permissionRoute) {
	mux.Handle("GET /productos", can(access.ProductsView, h.ProductsPage))
	mux.Handle("GET /productos/nuevo", can(access.ProductsCreate, h.ProductNew))
	mux.Handle("POST /productos", can(access.ProductsCreate, h.ProductCreate))
	mux.Handle("GET /productos/{id}/editar", can(access.ProductsEdit, h.ProductEdit))
	mux.Handle("POST /productos/{id}", can(access.ProductsEdit, h.ProductUpdate))
	mux.Handle("POST /productos/{id}/eliminar", can(access.ProductsDelete, h.ProductDelete))

	mux.Handle("GET /categorias", can(access.CategoriesView, h.CategoriesPage))
	mux.Handle("GET /categorias/nueva", can(access.CategoriesCreate, h.CategoryNew))
	mux.Handle("POST /categorias", can(access.CategoriesCreate, h.CategoryCreate))
	mux.Handle("GET /categorias/{id}/editar", can(access.CategoriesEdit, h.CategoryEdit))
	mux.Handle("POST /categorias/{id}", can(access.CategoriesEdit, h.CategoryUpdate))
	mux.Handle("POST /categorias/{id}/eliminar", can(access.CategoriesDelete, h.CategoryDelete))
}

func registerSalesRoutes(mux *http.ServeMux, h *UIHandlers, can permissionRoute) {
	mux.Handle("GET /ventas", can(access.SalesView, h.SalesPage))
	mux.Handle("GET /ventas/{id}", can(access.SalesView, h.SaleDetail))
	mux.Handle("POST /ventas/{id}/cancelar", can(access.SalesCancel, h.SaleCancel))
}

func registerUserRoutes(mux *http.ServeMux, h *UIHandlers, can permissionRoute) {
	mux.Handle("GET /usuarios", can(access.UsersView, h.UsersPage))
	mux.Handle("GET /usuarios/nuevo", can(access.UsersCreate, h.UserNew))
	mux.Handle("POST /usuarios", can(access.UsersCreate, h.UserCreate))
	mux.Handle("GET /usuarios/{id}/editar", can(access.UsersEdit, h.UserEdit))
	mux.Handle("POST /usuarios/{id}", can(access.UsersEdit, h.UserUpdate))
	mux.Handle("POST /usuarios/{id}/eliminar", can(access.UsersDelete, h.UserDelete))
}

func registerReportRoutes(mux *http.ServeMux, h *UIHandlers, can permissionRoute) {
	mux.Handle("GET /reportes", can(access.ReportsView, h.ReportsPage))
	mux.Handle("GET /reportes/exportar", can(access.ReportsExport, h.ReportsExport))
}

// staticWithCacheHeaders adds cache headers to static responses. Nothing is
// cached in dev mode so edited files show up on reload.
func staticWithCacheHeaders(isDev bool, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}
