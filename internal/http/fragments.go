package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/lubsanchez/pos-console/internal/access"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
)

// Region is a block of a page that is only present for operators who
// satisfy Requirement. Load runs only after the requirement passed.
type Region struct {
	Name        string
	Requirement access.Requirement
	Template    string
	Load        func(ctx context.Context) (any, error)
}

// Regions is an ordered set of regions addressable by name.
type Regions struct {
	order  []Region
	byName map[string]Region
}

// NewRegions indexes regions by name; later duplicates replace earlier ones.
func NewRegions(regions ...Region) *Regions {
	rs := &Regions{byName: make(map[string]Region, len(regions))}
	for _, r := range regions {
		if _, dup := rs.byName[r.Name]; !dup {
			rs.order = append(rs.order, r)
		} else {
			for i := range rs.order {
				if rs.order[i].Name == r.Name {
					rs.order[i] = r
				}
			}
		}
		rs.byName[r.Name] = r
	}
	return rs
}

// Lookup returns the named region.
func (rs *Regions) Lookup(name string) (Region, bool) {
	if rs == nil {
		return Region{}, false
	}
	r, ok := rs.byName[name]
	return r, ok
}

// All returns the regions in registration order.
func (rs *Regions) All() []Region {
	if rs == nil {
		return nil
	}
	return append([]Region(nil), rs.order...)
}

// Region names shown on the dashboard.
const (
	RegionLowStock    = "low-stock"
	RegionSalesStats  = "sales-stats"
	RegionRecentSales = "recent-sales"
	RegionAdminTools  = "admin-tools"
)

const recentSalesLimit = 5

// DefaultRegions are the dashboard regions: each loads its data only for
// operators allowed to see it.
func DefaultRegions(catalog CatalogManager, sales SalesManager) *Regions {
	return NewRegions(
		Region{
			Name:        RegionLowStock,
			Requirement: access.Any(access.ProductsView),
			Template:    "fragment-low-stock",
			Load: func(ctx context.Context) (any, error) {
				return catalog.LowStock(ctx)
			},
		},
		Region{
			Name:        RegionSalesStats,
			Requirement: access.Any(access.SalesView),
			Template:    "fragment-sales-stats",
			Load: func(ctx context.Context) (any, error) {
				return sales.Stats(ctx, pos.SaleQuery{})
			},
		},
		Region{
			Name:        RegionRecentSales,
			Requirement: access.Any(access.SalesView),
			Template:    "fragment-recent-sales",
			Load: func(ctx context.Context) (any, error) {
				page, err := sales.List(ctx, pos.SaleQuery{Page: 1, Limit: recentSalesLimit})
				if err != nil {
					return nil, err
				}
				return page.Data, nil
			},
		},
		Region{
			Name:        RegionAdminTools,
			Requirement: access.Any(access.UsersView, access.ReportsView),
			Template:    "fragment-admin-tools",
		},
	)
}

// Fragment serves GET /fragments/{region}. Unauthorized operators get 204
// and nothing is loaded; htmx then leaves the placeholder empty.
func (h *UIHandlers) Fragment(w http.ResponseWriter, r *http.Request) {
	region, ok := h.Regions.Lookup(r.PathValue("region"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	rendered, err := access.Render(r.Context(), h.Evaluator, region.Requirement, &buf,
		func(ctx context.Context, out io.Writer) error {
			return h.renderRegion(ctx, out, region)
		})
	if !rendered {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.logger().WarnContext(r.Context(), "region failed to load", "region", region.Name, "error", err)
		buf.Reset()
		if renderErr := h.T.t.ExecuteTemplate(&buf, "fragment-error", map[string]any{
			"Region":  region.Name,
			"Message": apperrors.UserMessage(err),
		}); renderErr != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().DebugContext(r.Context(), "writing region failed", "region", region.Name, "error", err)
	}
}

func (h *UIHandlers) renderRegion(ctx context.Context, w io.Writer, region Region) error {
	var data any
	if region.Load != nil {
		var err error
		if data, err = region.Load(ctx); err != nil {
			return err
		}
	}
	return h.T.t.ExecuteTemplate(w, region.Template, map[string]any{
		"Region": region.Name,
		"Data":   data,
	})
}
