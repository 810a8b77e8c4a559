package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	mocks "github.com/lubsanchez/pos-console/internal/mocks/auth"
)

func TestFragment_AdminToolsByRole(t *testing.T) {
	t.Run("employee gets nothing", func(t *testing.T) {
		h := newHarness(t, mocks.DefaultEmployee())
		h.login()

		rec := h.get("/fragments/" + RegionAdminTools)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("admin gets the region", func(t *testing.T) {
		h := newHarness(t, mocks.DefaultAdmin())
		h.login()

		rec := h.get("/fragments/" + RegionAdminTools)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Administration")
		assert.Contains(t, rec.Body.String(), `href="/usuarios"`)
	})
}

func TestFragment_UnknownRegion(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())
	h.login()

	rec := h.get("/fragments/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFragment_SignedOutIsRedirected(t *testing.T) {
	h := newHarness(t, mocks.DefaultAdmin())

	rec := h.do(htmxRequest(newGet("/fragments/" + RegionLowStock)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Hx-Redirect"), PathLogin)
	assert.Zero(t, h.catalog.lowStockCalls)
}

func TestFragment_UnmetRequirementSkipsLoad(t *testing.T) {
	h := newHarness(t, mocks.DefaultEmployee())
	h.login()

	loads := 0
	h.ui.Regions = NewRegions(Region{
		Name:        "margins",
		Requirement: access.Any(access.ReportsView),
		Template:    "fragment-admin-tools",
		Load: func(context.Context) (any, error) {
			loads++
			return nil, nil
		},
	})

	rec := h.get("/fragments/margins")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, loads)
}

func TestFragment_LowStockListsProducts(t *testing.T) {
	h := newHarness(t, mocks.DefaultEmployee())
	h.login()
	h.catalog.LowStockFunc = func(context.Context) ([]pos.Product, error) {
		p := testProduct()
		p.Stock = 1
		return []pos.Product{p}, nil
	}

	rec := h.get("/fragments/" + RegionLowStock)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Agua 600ml")
	assert.Equal(t, 1, h.catalog.lowStockCalls)
}

func TestFragment_LoadErrorRendersErrorBlock(t *testing.T) {
	h := newHarness(t, mocks.DefaultEmployee())
	h.login()
	h.catalog.LowStockFunc = func(context.Context) ([]pos.Product, error) {
		return nil, errors.New("upstream unavailable")
	}

	rec := h.get("/fragments/" + RegionLowStock)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-region="low-stock"`)
	assert.NotContains(t, rec.Body.String(), "Low stock")
}

func TestNewRegions_LaterDuplicateReplaces(t *testing.T) {
	rs := NewRegions(
		Region{Name: "a", Template: "one"},
		Region{Name: "b", Template: "two"},
		Region{Name: "a", Template: "three"},
	)

	all := rs.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "three", all[0].Template)
	r, ok := rs.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "three", r.Template)

	var none *Regions
	_, ok = none.Lookup("a")
	assert.False(t, ok)
}
