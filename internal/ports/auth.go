package ports

// Package ports defines interfaces (hexagonal ports) for session-related behavior.
// Implementations live in internal/adapters and internal/apiclient; orchestration in internal/session.

import (
	"context"
	"errors"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// ErrCredentialNotFound is returned by CredentialStore.Load when no credential is stored.
var ErrCredentialNotFound = errors.New("credential not found")

// ErrEmptyIdentity is returned by AuthAPI.Me when the API answers success without a user.
var ErrEmptyIdentity = errors.New("identity payload is empty")

// AuthAPI is the remote authentication surface of the POS API.
type AuthAPI interface {
	// Login exchanges email/password for a credential and identity.
	Login(ctx context.Context, in domainauth.Credentials) (domainauth.Grant, error)

	// Register creates an operator account and logs it in.
	Register(ctx context.Context, in domainauth.Registration) (domainauth.Grant, error)

	// Logout invalidates the given credential server-side.
	Logout(ctx context.Context, cred domainauth.Credential) error

	// Me returns the identity the current credential belongs to.
	Me(ctx context.Context) (domainauth.Identity, error)
}

// CredentialStore persists the bearer credential in storage shared by every console instance.
type CredentialStore interface {
	Load(ctx context.Context) (domainauth.Credential, error)
	Save(ctx context.Context, cred domainauth.Credential) error
	// Clear removes the credential and every other key in the session namespace.
	Clear(ctx context.Context) error
}

// CredentialChangeKind describes what happened to the stored credential.
type CredentialChangeKind string

const (
	CredentialSaved   CredentialChangeKind = "saved"
	CredentialCleared CredentialChangeKind = "cleared"
)

// CredentialChange is a change announced by a console instance.
type CredentialChange struct {
	Kind   CredentialChangeKind `json:"kind"`
	Origin string               `json:"origin"`
}

// CredentialWatcher streams credential changes made through the store.
// The channel is closed when ctx is done.
type CredentialWatcher interface {
	Watch(ctx context.Context) (<-chan CredentialChange, error)
}

// Navigator moves attached browsers to another location.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string)

// Navigate calls f(ctx, path).
func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }
