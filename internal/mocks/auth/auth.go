package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI           = (*FakeAuthAPI)(nil)
	_ ports.CredentialStore   = (*MemoryCredentialStore)(nil)
	_ ports.CredentialWatcher = (*MemoryCredentialStore)(nil)
	_ ports.Navigator         = (*RecordingNavigator)(nil)
)

// StatusError mimics an API error carrying an HTTP status and server message.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "api error"
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.Status }

// ServerMessage returns the message the API sent.
func (e *StatusError) ServerMessage() string { return e.Message }

// DefaultAdmin is the identity FakeAuthAPI returns when nothing else is configured.
func DefaultAdmin() domainauth.Identity {
	return domainauth.Identity{
		ID:        1,
		FullName:  "Ana Admin",
		Email:     "admin@example.com",
		Role:      domainauth.RoleAdmin,
		CreatedAt: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

// DefaultEmployee is a ready-made employee identity.
func DefaultEmployee() domainauth.Identity {
	return domainauth.Identity{
		ID:        2,
		FullName:  "Eli Employee",
		Email:     "employee@example.com",
		Role:      domainauth.RoleEmployee,
		CreatedAt: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC),
	}
}

// FakeAuthAPI is a func-field double for ports.AuthAPI that counts calls.
type FakeAuthAPI struct {
	LoginFunc    func(ctx context.Context, in domainauth.Credentials) (domainauth.Grant, error)
	RegisterFunc func(ctx context.Context, in domainauth.Registration) (domainauth.Grant, error)
	LogoutFunc   func(ctx context.Context, cred domainauth.Credential) error
	MeFunc       func(ctx context.Context) (domainauth.Identity, error)

	// Identity and Token back the default behaviour when no func is set.
	Identity domainauth.Identity
	Token    string

	loginCalls    atomic.Int64
	registerCalls atomic.Int64
	logoutCalls   atomic.Int64
	meCalls       atomic.Int64
}

// NewFakeAuthAPI returns a FakeAuthAPI that signs everybody in as identity.
func NewFakeAuthAPI(identity domainauth.Identity) *FakeAuthAPI {
	return &FakeAuthAPI{Identity: identity, Token: "tok-" + identity.Email}
}

func (f *FakeAuthAPI) grant() domainauth.Grant {
	identity := f.Identity
	if identity.Empty() {
		identity = DefaultAdmin()
	}
	token := f.Token
	if token == "" {
		token = "tok-default"
	}
	return domainauth.Grant{
		Identity:   identity,
		Credential: domainauth.Credential{Type: "bearer", Token: token},
	}
}

func (f *FakeAuthAPI) Login(ctx context.Context, in domainauth.Credentials) (domainauth.Grant, error) {
	f.loginCalls.Add(1)
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, in)
	}
	return f.grant(), nil
}

func (f *FakeAuthAPI) Register(ctx context.Context, in domainauth.Registration) (domainauth.Grant, error) {
	f.registerCalls.Add(1)
	if f.RegisterFunc != nil {
		return f.RegisterFunc(ctx, in)
	}
	g := f.grant()
	g.Identity.FullName = in.FullName
	g.Identity.Email = in.Email
	return g, nil
}

func (f *FakeAuthAPI) Logout(ctx context.Context, cred domainauth.Credential) error {
	f.logoutCalls.Add(1)
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx, cred)
	}
	return nil
}

func (f *FakeAuthAPI) Me(ctx context.Context) (domainauth.Identity, error) {
	f.meCalls.Add(1)
	if f.MeFunc != nil {
		return f.MeFunc(ctx)
	}
	return f.grant().Identity, nil
}

// LoginCalls returns how many times Login was called.
func (f *FakeAuthAPI) LoginCalls() int { return int(f.loginCalls.Load()) }

// RegisterCalls returns how many times Register was called.
func (f *FakeAuthAPI) RegisterCalls() int { return int(f.registerCalls.Load()) }

// LogoutCalls returns how many times Logout was called.
func (f *FakeAuthAPI) LogoutCalls() int { return int(f.logoutCalls.Load()) }

// MeCalls returns how many times Me was called.
func (f *FakeAuthAPI) MeCalls() int { return int(f.meCalls.Load()) }

// MemoryCredentialStore is an in-memory CredentialStore with injectable failures.
// Watch returns a channel fed by Emit, to simulate changes from other instances.
type MemoryCredentialStore struct {
	LoadErr  error
	SaveErr  error
	ClearErr error

	mu       sync.Mutex
	values   map[string]string
	cred     domainauth.Credential
	saves    int
	clears   int
	watchers []chan ports.CredentialChange
}

// NewMemoryCredentialStore creates an empty store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{values: make(map[string]string)}
}

func (m *MemoryCredentialStore) Load(_ context.Context) (domainauth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return domainauth.Credential{}, m.LoadErr
	}
	if !m.cred.Present() {
		return domainauth.Credential{}, ports.ErrCredentialNotFound
	}
	return m.cred, nil
}

func (m *MemoryCredentialStore) Save(_ context.Context, cred domainauth.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saves++
	m.cred = cred
	return nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.clears++
	m.cred = domainauth.Credential{}
	m.values = make(map[string]string)
	return nil
}

// Put sets the stored credential directly, as another instance would.
func (m *MemoryCredentialStore) Put(cred domainauth.Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
}

// SetExtra stores an unrelated key in the session namespace.
func (m *MemoryCredentialStore) SetExtra(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Extras returns how many unrelated keys are stored.
func (m *MemoryCredentialStore) Extras() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// Saves returns how many times Save succeeded.
func (m *MemoryCredentialStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Clears returns how many times Clear succeeded.
func (m *MemoryCredentialStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

func (m *MemoryCredentialStore) Watch(ctx context.Context) (<-chan ports.CredentialChange, error) {
	ch := make(chan ports.CredentialChange, 8)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				close(ch)
				return
			}
		}
	}()
	return ch, nil
}

// Emit delivers change to every watcher.
// Watchers must still be open.
func (m *MemoryCredentialStore) Emit(change ports.CredentialChange) {
	m.mu.Lock()
	watchers := append([]chan ports.CredentialChange(nil), m.watchers...)
	m.mu.Unlock()
	for _, w := range watchers {
		w <- change
	}
}

// RecordingNavigator records every navigation.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns the recorded navigations.
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// Count returns how many navigations happened.
func (n *RecordingNavigator) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.paths)
}
