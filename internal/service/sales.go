package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lubsanchez/pos-console/internal/apiclient"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/observability/metrics"
	"github.com/lubsanchez/pos-console/internal/observability/statsd"
	"github.com/lubsanchez/pos-console/internal/ports"
)

const (
	defaultSalesPageSize = 20
	maxPageSize          = 100
	dateLayout           = "2006-01-02"
)

// SalesServiceOptions groups dependencies for SalesService.
type SalesServiceOptions struct {
	API     ports.SalesAPI
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// SalesService runs checkout and the sales views.
type SalesService struct {
	api     ports.SalesAPI
	metrics statsd.Sink
	logger  *slog.Logger
}

// NewSalesService constructs a new SalesService.
func NewSalesService(opts SalesServiceOptions) *SalesService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesService{api: opts.API, metrics: opts.Metrics, logger: logger.With("component", "sales")}
}

// CheckoutRequest carries the checkout form.
type CheckoutRequest struct {
	PaymentMethod string
	CustomerName  string
	CustomerPhone string
}

// Checkout submits the cart as a sale and empties it on success.
// Resubmitting an unchanged cart reuses the same idempotency key.
func (s *SalesService) Checkout(ctx context.Context, cart *Cart, req CheckoutRequest) (pos.Sale, error) {
	lines, key := cart.order()
	if len(lines) == 0 {
		return pos.Sale{}, apperrors.Validation("The cart is empty")
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return pos.Sale{}, apperrors.ValidationField("metodoPago", "Select a payment method")
	}
	payment, err := pos.ParsePaymentMethod(method)
	if err != nil {
		return pos.Sale{}, apperrors.ValidationField("metodoPago", "Select a valid payment method")
	}

	sale, err := s.api.CreateSale(apiclient.WithIdempotencyKey(ctx, key), pos.NewSale{
		Lines:         lines,
		PaymentMethod: payment,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
	})
	if err != nil {
		metrics.EmitSale(s.metrics, metrics.ResultError, err)
		s.logger.WarnContext(ctx, "checkout failed", "error", err, "lines", len(lines))
		return pos.Sale{}, apperrors.MapAPIError(err)
	}
	metrics.EmitSale(s.metrics, metrics.ResultSuccess, nil)
	cart.clearIfUnchanged(key)
	s.logger.InfoContext(ctx, "sale created", "sale_id", sale.ID, "ticket", sale.TicketNumber)
	return sale, nil
}

// List returns a page of sales in the optional date range.
func (s *SalesService) List(ctx context.Context, q pos.SaleQuery) (pos.Page[pos.Sale], error) {
	q, err := normalizeSaleQuery(q)
	if err != nil {
		return pos.Page[pos.Sale]{}, err
	}
	page, err := s.api.ListSales(ctx, q)
	if err != nil {
		return pos.Page[pos.Sale]{}, apperrors.MapAPIError(err)
	}
	return page, nil
}

// Get returns one sale with its lines.
func (s *SalesService) Get(ctx context.Context, id int64) (pos.Sale, error) {
	if id <= 0 {
		return pos.Sale{}, apperrors.NotFound("Sale not found")
	}
	sale, err := s.api.GetSale(ctx, id)
	if err != nil {
		return pos.Sale{}, apperrors.MapAPIError(err)
	}
	return sale, nil
}

// Cancel cancels a sale.
func (s *SalesService) Cancel(ctx context.Context, id int64) (pos.Sale, error) {
	if id <= 0 {
		return pos.Sale{}, apperrors.NotFound("Sale not found")
	}
	sale, err := s.api.CancelSale(ctx, id)
	if err != nil {
		return pos.Sale{}, apperrors.MapAPIError(err)
	}
	s.logger.InfoContext(ctx, "sale cancelled", "sale_id", id)
	return sale, nil
}

// Stats returns the sales statistics for the optional date range.
func (s *SalesService) Stats(ctx context.Context, q pos.SaleQuery) (pos.SaleStats, error) {
	q, err := normalizeSaleQuery(q)
	if err != nil {
		return pos.SaleStats{}, err
	}
	stats, err := s.api.SaleStats(ctx, q)
	if err != nil {
		return pos.SaleStats{}, apperrors.MapAPIError(err)
	}
	return stats, nil
}

func normalizeSaleQuery(q pos.SaleQuery) (pos.SaleQuery, error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit, defaultSalesPageSize)
	q.From = strings.TrimSpace(q.From)
	q.To = strings.TrimSpace(q.To)

	from, err := parseDate("fecha_inicio", q.From)
	if err != nil {
		return q, err
	}
	to, err := parseDate("fecha_fin", q.To)
	if err != nil {
		return q, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return q, apperrors.ValidationField("fecha_fin", "The end date is before the start date")
	}
	return q, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.ValidationField(field, fmt.Sprintf("%q is not a YYYY-MM-DD date", value))
	}
	return t, nil
}

func normalizePage(page, limit, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
