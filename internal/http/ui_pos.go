package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/service"
)

const maxCartQuantity = 9999

// POSPage renders the checkout screen. GET /pos.
func (h *UIHandlers) POSPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Point of sale", CurrentPage: PagePOS},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["Cart"] = h.Cart.Snapshot()
			data["PaymentMethods"] = pos.PaymentMethods()
			return nil
		},
	})
}

// CartAdd scans a product into the cart. POST /pos/cart.
func (h *UIHandlers) CartAdd(w http.ResponseWriter, r *http.Request) {
	qty, ok := formQuantity(r, 1)
	if !ok {
		h.cartResult(w, r, "Add product", errBadQuantity(), "")
		return
	}
	p, err := h.Catalog.Lookup(r.Context(), r.PostFormValue("codigo"))
	if err == nil {
		err = h.Cart.Add(p, qty)
	}
	h.cartResult(w, r, "Add product", err, fmt.Sprintf("%s added", p.Name))
}

// CartUpdate changes a line's quantity. POST /pos/cart/{id}.
func (h *UIHandlers) CartUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	qty, ok := formQuantity(r, 0)
	if !ok {
		h.cartResult(w, r, "Update quantity", errBadQuantity(), "")
		return
	}
	h.cartResult(w, r, "Update quantity", h.Cart.SetQuantity(id, qty), "")
}

// CartRemove drops a line. POST /pos/cart/{id}/remove.
func (h *UIHandlers) CartRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.Cart.Remove(id)
	h.cartResult(w, r, "", nil, "")
}

// CartClear empties the cart. POST /pos/cart/clear.
func (h *UIHandlers) CartClear(w http.ResponseWriter, r *http.Request) {
	h.Cart.Clear()
	h.cartResult(w, r, "", nil, "Cart cleared")
}

// Checkout registers the sale for the cart contents. POST /pos/checkout.
// A failed checkout keeps the cart so the operator can retry.
func (h *UIHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sale, err := h.Sales.Checkout(r.Context(), h.Cart, service.CheckoutRequest{
		PaymentMethod: r.PostFormValue("metodoPago"),
		CustomerName:  r.PostFormValue("clienteNombre"),
		CustomerPhone: r.PostFormValue("clienteTelefono"),
	})
	if err != nil {
		h.cartResult(w, r, "Checkout", err, "")
		return
	}
	msg := fmt.Sprintf("Sale %s registered: %s", sale.TicketNumber, strconv.FormatFloat(sale.Total, 'f', 2, 64))
	h.cartResult(w, r, "", nil, msg)
}

// cartResult answers a cart action. htmx callers get the cart partial and a
// toast; full-page forms get a flash and a redirect back to /pos.
func (h *UIHandlers) cartResult(w http.ResponseWriter, r *http.Request, action string, err error, success string) {
	var toast *service.Toast
	switch {
	case err != nil:
		h.logger().InfoContext(r.Context(), "cart action rejected", "action", action, "error", err)
		t := service.ToastFor(action, err)
		toast = &t
	case success != "":
		t := service.Success(success)
		toast = &t
	}

	if !IsHTMX(r) {
		if toast != nil {
			h.Flash.Add(w, r, *toast)
		}
		http.Redirect(w, r, PathPOS, http.StatusSeeOther)
		return
	}

	if toast != nil {
		HTMX(w).Toast(*toast)
	}
	data := NewTemplateData(r, PageMeta{CurrentPage: PagePOS}).
		With("Cart", h.Cart.Snapshot()).
		With("PaymentMethods", pos.PaymentMethods()).
		Build()
	if renderErr := h.T.RenderFragment(w, "pos-cart", data); renderErr != nil {
		h.logAndRenderTemplateError(w, r, renderErr, "pos cart")
	}
}

func errBadQuantity() error {
	return apperrors.ValidationField("cantidad", fmt.Sprintf("Quantity must be a whole number up to %d", maxCartQuantity))
}

// formQuantity reads the cantidad field; an empty field yields def.
func formQuantity(r *http.Request, def int) (int, bool) {
	raw := strings.TrimSpace(r.PostFormValue("cantidad"))
	if raw == "" {
		return def, def > 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > maxCartQuantity {
		return 0, false
	}
	return n, true
}
