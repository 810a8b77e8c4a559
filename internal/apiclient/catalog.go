package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/ports"
)

var _ ports.CatalogAPI = (*Client)(nil)

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListCategories(ctx context.Context) ([]pos.Category, error) {
	var out []pos.Category
	err := c.do(ctx, call{method: http.MethodGet, path: "/categorias"}, &out)
	return out, err
}

func (c *Client) GetCategory(ctx context.Context, id int64) (pos.Category, error) {
	var out pos.Category
	err := c.do(ctx, call{method: http.MethodGet, path: idPath("/categorias", id)}, &out)
	return out, err
}

func (c *Client) CreateCategory(ctx context.Context, in pos.CategoryInput) (pos.Category, error) {
	var out pos.Category
	err := c.do(ctx, call{method: http.MethodPost, path: "/categorias", body: in}, &out)
	return out, err
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in pos.CategoryInput) (pos.Category, error) {
	var out pos.Category
	err := c.do(ctx, call{method: http.MethodPut, path: idPath("/categorias", id), body: in}, &out)
	return out, err
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: idPath("/categorias", id)}, nil)
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func (c *Client) ListProducts(ctx context.Context, pq pos.ProductQuery) (pos.Page[pos.Product], error) {
	q := pageQuery(pq.Page, pq.Limit)
	if pq.Search != "" {
		q.Set("search", pq.Search)
	}
	if pq.CategoryID > 0 {
		q.Set("categoria_id", strconv.FormatInt(pq.CategoryID, 10))
	}
	var out pos.Page[pos.Product]
	err := c.do(ctx, call{method: http.MethodGet, path: "/productos", query: q}, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (pos.Product, error) {
	var out pos.Product
	err := c.do(ctx, call{method: http.MethodGet, path: idPath("/productos", id)}, &out)
	return out, err
}

func (c *Client) FindProductByCode(ctx context.Context, code string) (pos.Product, error) {
	var out pos.Product
	err := c.do(ctx, call{method: http.MethodGet, path: "/productos/buscar/" + url.PathEscape(code)}, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in pos.ProductInput) (pos.Product, error) {
	var out pos.Product
	err := c.do(ctx, call{method: http.MethodPost, path: "/productos", body: in}, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in pos.ProductInput) (pos.Product, error) {
	var out pos.Product
	err := c.do(ctx, call{method: http.MethodPut, path: idPath("/productos", id), body: in}, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: idPath("/productos", id)}, nil)
}

func (c *Client) LowStockProducts(ctx context.Context) ([]pos.Product, error) {
	var out []pos.Product
	err := c.do(ctx, call{method: http.MethodGet, path: "/productos/stock-bajo"}, &out)
	return out, err
}
