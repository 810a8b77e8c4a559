package apiclient

import (
	"context"
	"net/http"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

type grantPayload struct {
	User  domainauth.Identity `json:"user"`
	Token struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	} `json:"token"`
}

func (g grantPayload) grant() domainauth.Grant {
	return domainauth.Grant{
		Identity:   g.User,
		Credential: domainauth.Credential{Type: g.Token.Type, Token: g.Token.Token},
	}
}

// Login exchanges email and password for a bearer credential.
func (c *Client) Login(ctx context.Context, in domainauth.Credentials) (domainauth.Grant, error) {
	var out grantPayload
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: in, client: c.public}, &out)
	if err != nil {
		return domainauth.Grant{}, err
	}
	return out.grant(), nil
}

// Register creates an account; the API signs it in immediately.
func (c *Client) Register(ctx context.Context, in domainauth.Registration) (domainauth.Grant, error) {
	var out grantPayload
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: in, client: c.public}, &out)
	if err != nil {
		return domainauth.Grant{}, err
	}
	return out.grant(), nil
}

// Logout invalidates cred server-side. cred is passed explicitly because the
// session has already dropped it by the time this runs.
func (c *Client) Logout(ctx context.Context, cred domainauth.Credential) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/auth/logout", client: c.withCredential(cred)}, nil)
}

// Me returns the identity the held credential belongs to.
func (c *Client) Me(ctx context.Context) (domainauth.Identity, error) {
	var id domainauth.Identity
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me"}, &id); err != nil {
		return domainauth.Identity{}, err
	}
	return id, nil
}
