package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	mocks "github.com/lubsanchez/pos-console/internal/mocks/auth"
	"github.com/lubsanchez/pos-console/internal/session"
)

type fakeSession struct {
	cred         domainauth.Credential
	unauthorized atomic.Int32
	rejected     atomic.Value
}

func (f *fakeSession) Credential() (domainauth.Credential, bool) { return f.cred, f.cred.Present() }

func (f *fakeSession) HandleUnauthorized(_ context.Context, rejected domainauth.Credential) {
	f.rejected.Store(rejected)
	f.unauthorized.Add(1)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *fakeSession) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	require.NoError(t, err)
	sess := &fakeSession{cred: domainauth.Credential{Type: "bearer", Token: "oat_123"}}
	c.Attach(sess)
	return c, sess
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3333/api/auth/me", c.endpoint("/auth/me", nil))
}

func TestLogin_SendsNoBearerAndParsesGrant(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var in domainauth.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ana@example.com", in.Email)

		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"user":  map[string]any{"id": 3, "fullName": "Ana", "email": "ana@example.com", "role": "admin"},
				"token": map[string]any{"type": "bearer", "token": "oat_new"},
			},
		})
	})

	g, err := c.Login(context.Background(), domainauth.Credentials{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), g.Identity.ID)
	assert.Equal(t, domainauth.RoleAdmin, g.Identity.Role)
	assert.Equal(t, domainauth.Credential{Type: "bearer", Token: "oat_new"}, g.Credential)
}

func TestLogin_RejectionCarriesMessageWithoutLoggingOut(t *testing.T) {
	c, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Credenciales inválidas"})
	})

	_, err := c.Login(context.Background(), domainauth.Credentials{Email: "x", Password: "y"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode())
	assert.Equal(t, "Credenciales inválidas", se.ServerMessage())
	assert.Zero(t, sess.unauthorized.Load())
}

func TestMe_AttachesBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer oat_123", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 9, "fullName": "Eli", "email": "eli@example.com", "role": "employee"},
		})
	})

	id, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployee, id.Role)
}

func TestMe_NullDataIsEmptyIdentity(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": nil})
	})

	id, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, id.Empty())
}

func TestAuthenticatedRejectionIsReported(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, status, map[string]any{"success": false, "message": "Token inválido"})
		})

		_, err := c.ListCategories(context.Background())

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, status, se.Status)
		assert.Equal(t, int32(1), sess.unauthorized.Load())
		assert.Equal(t, domainauth.Credential{Type: "bearer", Token: "oat_123"}, sess.rejected.Load())
	}
}

func TestServerErrorIsNotReported(t *testing.T) {
	c, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "<html>boom</html>")
	})

	_, err := c.Me(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.Status)
	assert.Empty(t, se.Message)
	assert.Contains(t, se.Error(), "Internal Server Error")
	assert.Zero(t, sess.unauthorized.Load())
}

func TestAuthenticatedCallWithoutCredential(t *testing.T) {
	var hits atomic.Int32
	c, sess := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	sess.cred = domainauth.Credential{}

	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, hits.Load())
}

func TestLogout_UsesExplicitCredential(t *testing.T) {
	c, sess := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "Bearer discarded", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false})
	})
	sess.cred = domainauth.Credential{}

	err := c.Logout(context.Background(), domainauth.Credential{Type: "bearer", Token: "discarded"})
	require.Error(t, err)
	assert.Zero(t, sess.unauthorized.Load(), "logout rejections are not re-reported")
}

func TestUnsuccessfulEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"success": false, "message": "Stock insuficiente"})
	})

	_, err := c.CreateSale(context.Background(), pos.NewSale{PaymentMethod: pos.PaymentCash})
	require.ErrorIs(t, err, ErrUnsuccessful)
	assert.Contains(t, err.Error(), "Stock insuficiente")
}

func TestListProducts_QueryAndPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/productos", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "cafe", q.Get("search"))
		assert.Equal(t, "4", q.Get("categoria_id"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"data": []map[string]any{{"id": 1, "codigo": "A1", "nombre": "Café", "precio": 2.5, "stock": 3, "stockMinimo": 5}},
				"meta": map[string]any{"total": 11, "perPage": 10, "currentPage": 2, "lastPage": 2, "firstPage": 1},
			},
		})
	})

	page, err := c.ListProducts(context.Background(), pos.ProductQuery{Page: 2, Limit: 10, Search: "cafe", CategoryID: 4})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.True(t, page.Data[0].LowStock())
	assert.True(t, page.HasPrev())
	assert.False(t, page.HasNext())
}

func TestFindProductByCode_EscapesPath(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/productos/buscar/A 1", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 5, "codigo": "A 1"}})
	})

	p, err := c.FindProductByCode(context.Background(), "A 1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
}

func TestCreateSale_SendsIdempotencyKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "checkout-1", r.Header.Get(IdempotencyHeader))
		var in pos.NewSale
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, pos.PaymentCard, in.PaymentMethod)
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    map[string]any{"id": 77, "numeroTicket": "T-0077", "total": 30, "estado": "completada"},
		})
	})

	ctx := WithIdempotencyKey(context.Background(), "checkout-1")
	sale, err := c.CreateSale(ctx, pos.NewSale{
		Lines:         []pos.NewSaleLine{{ProductID: 1, Quantity: 2}},
		PaymentMethod: pos.PaymentCard,
	})
	require.NoError(t, err)
	assert.Equal(t, "T-0077", sale.TicketNumber)
}

func TestCancelSale_WithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/ventas/12/cancelar", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "message": "Venta cancelada"})
	})

	sale, err := c.CancelSale(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), sale.ID)
	assert.Equal(t, pos.SaleCancelled, sale.Status)
}

func TestSaleStats_DateRange(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("fecha_inicio"))
		assert.Equal(t, "2025-03-31", r.URL.Query().Get("fecha_fin"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"totalVentas": 40, "ventasHoy": 3, "ingresosTotales": 1200.5, "ingresosHoy": 90},
		})
	})

	stats, err := c.SaleStats(context.Background(), pos.SaleQuery{From: "2025-03-01", To: "2025-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 40, stats.TotalSales)
	assert.InDelta(t, 1200.5, stats.TotalRevenue, 0.001)
}

func TestStaffCRUD(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{{"id": 1, "email": "a@b.c", "role": "admin"}}})
		case http.MethodPut:
			assert.Equal(t, "/api/usuarios/1", r.URL.Path)
			writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": 1, "email": "a@b.c", "role": "employee"}})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	staff, err := c.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)

	updated, err := c.UpdateStaff(ctx, 1, pos.StaffInput{Email: "a@b.c", Role: domainauth.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleEmployee, updated.Role)

	require.NoError(t, c.DeleteStaff(ctx, 1))
}

// A 401 reaches the session twice (transport hook and validation classifier);
// the operator is still navigated to the login page exactly once.
func TestSessionIntegration_RejectedTokenLogsOutOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(t, w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"user":  map[string]any{"id": 1, "fullName": "Ana", "email": "ana@example.com", "role": "admin"},
					"token": map[string]any{"type": "bearer", "token": "oat_1"},
				},
			})
		case "/api/auth/me":
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"success": false})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := New(Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	nav := &mocks.RecordingNavigator{}
	store, err := session.NewStore(session.StoreOptions{
		API:             client,
		Credentials:     mocks.NewMemoryCredentialStore(),
		Navigator:       nav,
		MonitorInterval: time.Hour,
	})
	require.NoError(t, err)
	defer store.Close()
	client.Attach(store)

	ctx := context.Background()
	_, err = store.Login(ctx, domainauth.Credentials{Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.False(t, store.ValidateNow(ctx))
	assert.False(t, store.IsAuthenticated())
	store.Wait()
	assert.Equal(t, []string{"/login"}, nav.Paths())
	assert.Equal(t, int64(1), store.LogoutCount())
}
