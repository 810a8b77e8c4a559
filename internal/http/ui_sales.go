package httpx

import (
	"net/http"
	"strings"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	salesview "github.com/lubsanchez/pos-console/internal/http/ui/sales"
)

// SalesPage lists sales, optionally within a date range. GET /ventas.
func (h *UIHandlers) SalesPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := pos.SaleQuery{
		Page: getPageParam(q),
		From: strings.TrimSpace(q.Get("desde")),
		To:   strings.TrimSpace(q.Get("hasta")),
	}
	b := NewTemplateData(r, PageMeta{Title: "Sales", CurrentPage: PageSales}).
		With("From", query.From).
		With("To", query.To)

	page, err := h.Sales.List(r.Context(), query)
	if err != nil {
		h.logger().WarnContext(r.Context(), "sales failed to load", "error", err)
		data := b.Build()
		markPageError(data, err)
		h.renderPage(w, r, data)
		return
	}
	b.With("Sales", salesview.Rows(page.Data, h.now())).WithPagination(page.Meta, "/ventas")
	h.renderPage(w, r, b.Build())
}

// SaleDetail shows one sale with its lines. GET /ventas/{id}.
func (h *UIHandlers) SaleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	sale, err := h.Sales.Get(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Sale " + sale.TicketNumber, CurrentPage: PageSale}).
		With("Sale", salesview.NewDetail(sale, h.now())).
		Build()
	h.renderPage(w, r, data)
}

// SaleCancel cancels a sale. POST /ventas/{id}/cancelar.
func (h *UIHandlers) SaleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	back := r.URL.Path[:strings.LastIndex(r.URL.Path, "/")]
	sale, err := h.Sales.Cancel(r.Context(), id)
	if err != nil {
		h.fail(w, r, back, "Cancel sale", err)
		return
	}
	h.done(w, r, back, "Sale "+sale.TicketNumber+" cancelled.")
}
