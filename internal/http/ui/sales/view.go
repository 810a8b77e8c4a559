// Package sales builds the rows and detail view the sales templates render.
package sales

import (
	"strconv"
	"strings"
	"time"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/http/uiutil"
)

const customerLabelLimit = 40

// Row represents a single sale in list views.
type Row struct {
	ID          int64
	Ticket      string
	Total       float64
	Payment     pos.PaymentMethod
	Status      pos.SaleStatus
	Customer    string
	Cashier     string
	CreatedAt   time.Time
	Cancellable bool

	now time.Time
}

// FriendlyCreatedAt renders a human-friendly timestamp for when the sale was made.
func (r Row) FriendlyCreatedAt() string {
	return uiutil.FriendlyRelativeTime(r.CreatedAt, r.now)
}

// CustomerLabel returns the customer name or a placeholder for walk-in sales.
func (r Row) CustomerLabel() string {
	if r.Customer == "" {
		return "Walk-in"
	}
	return uiutil.TruncateWithEllipsis(r.Customer, customerLabelLimit)
}

// LineRow is one product line of a sale.
type LineRow struct {
	Code      string
	Name      string
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

// Detail is the data behind the sale detail view.
type Detail struct {
	Row

	Subtotal      float64
	Taxes         float64
	CustomerPhone string
	Lines         []LineRow
	Units         int
}

// Rows converts a page of sales for the list template.
func Rows(in []pos.Sale, now time.Time) []Row {
	out := make([]Row, 0, len(in))
	for _, s := range in {
		out = append(out, newRow(s, now))
	}
	return out
}

// NewDetail converts one sale with its lines.
func NewDetail(s pos.Sale, now time.Time) Detail {
	d := Detail{
		Row:           newRow(s, now),
		Subtotal:      s.Subtotal,
		Taxes:         s.Taxes,
		CustomerPhone: deref(s.CustomerPhone),
		Lines:         make([]LineRow, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		line := LineRow{
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		}
		if l.Product != nil {
			line.Code = l.Product.Code
			line.Name = l.Product.Name
		}
		if line.Name == "" {
			line.Name = "Product #" + strconv.FormatInt(l.ProductID, 10)
		}
		d.Units += l.Quantity
		d.Lines = append(d.Lines, line)
	}
	return d
}

func newRow(s pos.Sale, now time.Time) Row {
	r := Row{
		ID:          s.ID,
		Ticket:      s.TicketNumber,
		Total:       s.Total,
		Payment:     s.PaymentMethod,
		Status:      s.Status,
		Customer:    strings.TrimSpace(deref(s.CustomerName)),
		CreatedAt:   s.CreatedAt,
		Cancellable: s.Cancellable(),
		now:         now,
	}
	if s.User != nil {
		r.Cashier = s.User.FullName
	}
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
