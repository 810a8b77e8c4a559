package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/ports"
)

var _ ports.SalesAPI = (*Client)(nil)

// IdempotencyHeader carries the checkout key so a retried POST /ventas is not booked twice.
const IdempotencyHeader = "Idempotency-Key"

type idempotencyKey struct{}

// WithIdempotencyKey attaches key to ctx for the next CreateSale.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// IdempotencyKey returns the key attached by WithIdempotencyKey, if any.
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey{}).(string)
	return key
}

func dateRange(q url.Values, from, to string) url.Values {
	if from != "" {
		q.Set("fecha_inicio", from)
	}
	if to != "" {
		q.Set("fecha_fin", to)
	}
	return q
}

func (c *Client) ListSales(ctx context.Context, sq pos.SaleQuery) (pos.Page[pos.Sale], error) {
	var out pos.Page[pos.Sale]
	q := dateRange(pageQuery(sq.Page, sq.Limit), sq.From, sq.To)
	err := c.do(ctx, call{method: http.MethodGet, path: "/ventas", query: q}, &out)
	return out, err
}

func (c *Client) GetSale(ctx context.Context, id int64) (pos.Sale, error) {
	var out pos.Sale
	err := c.do(ctx, call{method: http.MethodGet, path: idPath("/ventas", id)}, &out)
	return out, err
}

func (c *Client) CreateSale(ctx context.Context, in pos.NewSale) (pos.Sale, error) {
	key := IdempotencyKey(ctx)
	if key == "" {
		key = uuid.NewString()
	}
	var out pos.Sale
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/ventas",
		body:   in,
		header: http.Header{IdempotencyHeader: []string{key}},
	}, &out)
	return out, err
}

// CancelSale marks a sale cancelled. The API may answer without a body.
func (c *Client) CancelSale(ctx context.Context, id int64) (pos.Sale, error) {
	var out pos.Sale
	err := c.do(ctx, call{method: http.MethodPatch, path: idPath("/ventas", id) + "/cancelar", body: struct{}{}}, &out)
	if err != nil {
		return pos.Sale{}, err
	}
	if out.ID == 0 {
		out.ID = id
		out.Status = pos.SaleCancelled
	}
	return out, nil
}

func (c *Client) SaleStats(ctx context.Context, sq pos.SaleQuery) (pos.SaleStats, error) {
	var out pos.SaleStats
	q := dateRange(url.Values{}, sq.From, sq.To)
	err := c.do(ctx, call{method: http.MethodGet, path: "/ventas/estadisticas", query: q}, &out)
	return out, err
}
