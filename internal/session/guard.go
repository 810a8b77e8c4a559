package session

import (
	"context"
	"strings"
)

// DefaultHomePath is where the public-only guard sends authenticated operators.
const DefaultHomePath = "/dashboard"

// Decision is the result of a guard evaluation.
type Decision struct {
	Allow bool
	// Redirect is set when Allow is false.
	Redirect string
	// Outcome is the validation outcome when a network check ran.
	Outcome Outcome
	// Checked reports whether the guard called the API.
	Checked bool
}

// GuardOptions configures redirect targets.
type GuardOptions struct {
	LoginPath string
	HomePath  string
}

// Guard decides whether navigation into a view may proceed.
type Guard struct {
	store     *Store
	loginPath string
	homePath  string
}

// NewGuard constructs a Guard over store.
func NewGuard(store *Store, opts GuardOptions) *Guard {
	login := strings.TrimSpace(opts.LoginPath)
	if login == "" {
		login = store.loginPath
	}
	home := strings.TrimSpace(opts.HomePath)
	if home == "" {
		home = DefaultHomePath
	}
	return &Guard{store: store, loginPath: login, homePath: home}
}

// LoginPath returns the redirect target for denied protected views.
func (g *Guard) LoginPath() string { return g.loginPath }

// HomePath returns the landing view for authenticated operators.
func (g *Guard) HomePath() string { return g.homePath }

// Present is the synchronous half of Protected: it denies without any I/O
// when no credential is held and runs logout cleanup.
func (g *Guard) Present(ctx context.Context) Decision {
	if g.store.IsAuthenticated() {
		return Decision{Allow: true}
	}
	g.store.endSession(ctx, ReasonNoCredential)
	return Decision{Allow: false, Redirect: g.loginPath, Outcome: OutcomeInvalid}
}

// Protected gates an authenticated view. Without a credential it denies
// immediately; otherwise it confirms with the API and only denies on a
// conclusive failure, so outages do not lock the operator out.
func (g *Guard) Protected(ctx context.Context) Decision {
	if d := g.Present(ctx); !d.Allow {
		return d
	}

	outcome, _ := g.store.Check(ctx)
	if outcome == OutcomeInvalid {
		return Decision{Allow: false, Redirect: g.loginPath, Outcome: outcome, Checked: true}
	}
	return Decision{Allow: true, Outcome: outcome, Checked: true}
}

// PublicOnly gates views such as the login page that make no sense once signed in.
func (g *Guard) PublicOnly() Decision {
	if g.store.IsAuthenticated() {
		return Decision{Allow: false, Redirect: g.homePath}
	}
	return Decision{Allow: true}
}
