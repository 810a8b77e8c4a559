package apiclient

import (
	"context"
	"net/http"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	"github.com/lubsanchez/pos-console/internal/ports"
)

var _ ports.StaffAPI = (*Client)(nil)

func (c *Client) ListStaff(ctx context.Context) ([]domainauth.Identity, error) {
	var out []domainauth.Identity
	err := c.do(ctx, call{method: http.MethodGet, path: "/usuarios"}, &out)
	return out, err
}

func (c *Client) CreateStaff(ctx context.Context, in pos.StaffInput) (domainauth.Identity, error) {
	var out domainauth.Identity
	err := c.do(ctx, call{method: http.MethodPost, path: "/usuarios", body: in}, &out)
	return out, err
}

func (c *Client) UpdateStaff(ctx context.Context, id int64, in pos.StaffInput) (domainauth.Identity, error) {
	var out domainauth.Identity
	err := c.do(ctx, call{method: http.MethodPut, path: idPath("/usuarios", id), body: in}, &out)
	return out, err
}

func (c *Client) DeleteStaff(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: idPath("/usuarios", id)}, nil)
}
