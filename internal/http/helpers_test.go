package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/clock"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	mocks "github.com/lubsanchez/pos-console/internal/mocks/auth"
	"github.com/lubsanchez/pos-console/internal/service"
	"github.com/lubsanchez/pos-console/internal/session"
)

const testCSRFToken = "test-csrf-token"

//nolint:gochecknoglobals // shared fixed clock for deterministic rendering
var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	CategoriesFunc func(ctx context.Context) ([]pos.Category, error)
	ProductsFunc   func(ctx context.Context, q pos.ProductQuery) (pos.Page[pos.Product], error)
	ProductFunc    func(ctx context.Context, id int64) (pos.Product, error)
	LookupFunc     func(ctx context.Context, code string) (pos.Product, error)
	SaveFunc       func(ctx context.Context, id int64, in pos.ProductInput) (pos.Product, error)
	DeleteFunc     func(ctx context.Context, id int64) error
	LowStockFunc   func(ctx context.Context) ([]pos.Product, error)

	lowStockCalls int
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]pos.Category, error) {
	if f.CategoriesFunc != nil {
		return f.CategoriesFunc(ctx)
	}
	return []pos.Category{{ID: 1, Name: "Bebidas", Active: true}}, nil
}

func (f *fakeCatalog) Category(_ context.Context, id int64) (pos.Category, error) {
	return pos.Category{ID: id, Name: "Bebidas", Active: true}, nil
}

func (f *fakeCatalog) SaveCategory(_ context.Context, id int64, in pos.CategoryInput) (pos.Category, error) {
	return pos.Category{ID: id, Name: in.Name}, nil
}

func (f *fakeCatalog) DeleteCategory(context.Context, int64) error { return nil }

func (f *fakeCatalog) Products(ctx context.Context, q pos.ProductQuery) (pos.Page[pos.Product], error) {
	if f.ProductsFunc != nil {
		return f.ProductsFunc(ctx, q)
	}
	return pos.Page[pos.Product]{Meta: pos.PageMeta{CurrentPage: 1, LastPage: 1}}, nil
}

func (f *fakeCatalog) Product(ctx context.Context, id int64) (pos.Product, error) {
	if f.ProductFunc != nil {
		return f.ProductFunc(ctx, id)
	}
	return testProduct(), nil
}

func (f *fakeCatalog) Lookup(ctx context.Context, code string) (pos.Product, error) {
	if f.LookupFunc != nil {
		return f.LookupFunc(ctx, code)
	}
	return testProduct(), nil
}

func (f *fakeCatalog) SaveProduct(ctx context.Context, id int64, in pos.ProductInput) (pos.Product, error) {
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, id, in)
	}
	return pos.Product{ID: id, Name: in.Name}, nil
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id int64) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeCatalog) LowStock(ctx context.Context) ([]pos.Product, error) {
	f.lowStockCalls++
	if f.LowStockFunc != nil {
		return f.LowStockFunc(ctx)
	}
	return nil, nil
}

type fakeSales struct {
	CheckoutFunc func(ctx context.Context, cart *service.Cart, req service.CheckoutRequest) (pos.Sale, error)
	ListFunc     func(ctx context.Context, q pos.SaleQuery) (pos.Page[pos.Sale], error)
	GetFunc      func(ctx context.Context, id int64) (pos.Sale, error)
	CancelFunc   func(ctx context.Context, id int64) (pos.Sale, error)
}

func (f *fakeSales) Checkout(ctx context.Context, cart *service.Cart, req service.CheckoutRequest) (pos.Sale, error) {
	if f.CheckoutFunc != nil {
		return f.CheckoutFunc(ctx, cart, req)
	}
	return pos.Sale{ID: 1, TicketNumber: "T-0001"}, nil
}

func (f *fakeSales) List(ctx context.Context, q pos.SaleQuery) (pos.Page[pos.Sale], error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, q)
	}
	return pos.Page[pos.Sale]{Meta: pos.PageMeta{CurrentPage: 1, LastPage: 1}}, nil
}

func (f *fakeSales) Get(ctx context.Context, id int64) (pos.Sale, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return pos.Sale{ID: id, TicketNumber: "T-0001", Status: pos.SaleCompleted}, nil
}

func (f *fakeSales) Cancel(ctx context.Context, id int64) (pos.Sale, error) {
	if f.CancelFunc != nil {
		return f.CancelFunc(ctx, id)
	}
	return pos.Sale{ID: id, TicketNumber: "T-0001", Status: pos.SaleCancelled}, nil
}

func (f *fakeSales) Stats(context.Context, pos.SaleQuery) (pos.SaleStats, error) {
	return pos.SaleStats{TotalSales: 12, SalesToday: 3, TotalRevenue: 1500, RevenueToday: 250}, nil
}

type fakeStaff struct {
	users []domainauth.Identity
	saved []pos.StaffInput
}

func (f *fakeStaff) List(context.Context) ([]domainauth.Identity, error) { return f.users, nil }

func (f *fakeStaff) Save(_ context.Context, id int64, in pos.StaffInput) (domainauth.Identity, error) {
	f.saved = append(f.saved, in)
	return domainauth.Identity{ID: id, FullName: in.FullName, Email: in.Email, Role: in.Role}, nil
}

func (f *fakeStaff) Delete(context.Context, int64) error { return nil }

type fakeDashboard struct{}

func (fakeDashboard) Load(context.Context) (service.Dashboard, error) {
	return service.Dashboard{Stats: pos.SaleStats{SalesToday: 3}}, nil
}

type fakeReports struct {
	ExportFunc func(ctx context.Context, q service.ReportQuery, w io.Writer) error
}

func (fakeReports) Definitions() []service.ReportDefinition { return nil }

func (fakeReports) Load(_ context.Context, q service.ReportQuery) (service.PeriodReport, error) {
	return service.PeriodReport{From: "2025-03-01", To: "2025-03-01"}, nil
}

func (f fakeReports) Export(ctx context.Context, q service.ReportQuery, w io.Writer) error {
	if f.ExportFunc != nil {
		return f.ExportFunc(ctx, q, w)
	}
	_, err := io.WriteString(w, "ticket,total\nT-0001,10.00\n")
	return err
}

func (fakeReports) ExportFilename(service.ReportQuery) string { return "ventas_2025-03-01_2025-03-01.csv" }

func testProduct() pos.Product {
	return pos.Product{ID: 7, Code: "750100", Name: "Agua 600ml", Price: 12.5, Stock: 10, MinStock: 2, Active: true}
}

// harness wires a real session store, guard and evaluator to the handlers
// with fake POS services behind them.
type harness struct {
	t       *testing.T
	store   *session.Store
	api     *mocks.FakeAuthAPI
	creds   *mocks.MemoryCredentialStore
	nav     *mocks.RecordingNavigator
	eval    *access.Evaluator
	catalog *fakeCatalog
	sales   *fakeSales
	staff   *fakeStaff
	ui      *UIHandlers
	handler http.Handler
}

func newHarness(t *testing.T, identity domainauth.Identity) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		api:     mocks.NewFakeAuthAPI(identity),
		creds:   mocks.NewMemoryCredentialStore(),
		nav:     &mocks.RecordingNavigator{},
		catalog: &fakeCatalog{},
		sales:   &fakeSales{},
		staff:   &fakeStaff{users: []domainauth.Identity{identity}},
	}
	store, err := session.NewStore(session.StoreOptions{
		API:             h.api,
		Credentials:     h.creds,
		Navigator:       h.nav,
		Clock:           clock.NewFixed(testNow),
		Logger:          discardLogger(),
		MonitorInterval: time.Hour,
		StartupDelay:    time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	h.store = store

	matrix, err := access.DefaultMatrix()
	require.NoError(t, err)
	h.eval = access.NewEvaluator(matrix, store)

	renderer, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS("../../frontend/templates"),
		Evaluator:  h.eval,
		Location:   time.UTC,
		Now:        func() time.Time { return testNow },
		Logger:     discardLogger(),
	})
	require.NoError(t, err)

	h.ui = &UIHandlers{
		T:         renderer,
		Session:   store,
		Evaluator: h.eval,
		Flash:     NewFlashes(FlashOptions{Secret: []byte(strings.Repeat("k", 32)), Logger: discardLogger()}),
		Dashboard: fakeDashboard{},
		Catalog:   h.catalog,
		Sales:     h.sales,
		Staff:     h.staff,
		Reports:   fakeReports{},
		Cart:      service.NewCart(),
		Regions:   DefaultRegions(h.catalog, h.sales),
		Clock:     clock.NewFixed(testNow),
		Logger:    discardLogger(),
	}
	h.handler = NewRouter(RouterOptions{
		UI:         h.ui,
		Guard:      session.NewGuard(store, session.GuardOptions{LoginPath: PathLogin, HomePath: PathDashboard}),
		Identities: store,
		StaticFS:   fstest.MapFS{"css/app.css": {Data: []byte("body{}")}},
		Logger:     discardLogger(),
	})
	return h
}

func (h *harness) login() {
	h.t.Helper()
	_, err := h.store.Login(context.Background(), domainauth.Credentials{Email: "op@example.com", Password: "secret"})
	require.NoError(h.t, err)
}

// do serves req through the full router.
func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	return h.do(req)
}

// postForm sends a form with a valid CSRF token.
func (h *harness) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return h.do(formRequest(path, form))
}

func formRequest(path string, form url.Values) *http.Request {
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return req
}

func htmxRequest(req *http.Request) *http.Request {
	req.Header.Set("Hx-Request", "true")
	return req
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGet(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	return req
}
