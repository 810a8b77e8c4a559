package httpx

import (
	"context"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// identityKey is an unexported context key type to avoid collisions across packages.
type identityKey struct{}

// SetIdentityInContext returns a child context carrying the operator the request runs as.
func SetIdentityInContext(ctx context.Context, identity domainauth.Identity) context.Context {
	if identity.Empty() {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the operator stored by the session middleware.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domainauth.Identity)
	return identity, ok
}
