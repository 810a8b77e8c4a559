package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lubsanchez/pos-console/internal/clock"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/observability/metrics"
	"github.com/lubsanchez/pos-console/internal/observability/statsd"
	"github.com/lubsanchez/pos-console/internal/ports"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a stored credential and none exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials is the generic login failure when the API gives no message.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAPIRequired indicates a store cannot be constructed without an AuthAPI.
	ErrAPIRequired = errors.New("session store auth api is required")
	// ErrCredentialStoreRequired indicates a store cannot be constructed without a CredentialStore.
	ErrCredentialStoreRequired = errors.New("session store credential store is required")
)

// Default timings for the session lifecycle.
const (
	DefaultMonitorInterval = 30 * time.Second
	DefaultCooldown        = 10 * time.Second
	DefaultStartupDelay    = time.Second
	DefaultLogoutTimeout   = 5 * time.Second
	DefaultLoginPath       = "/login"
)

// LoginError is returned by Login and Register when the API refuses the request.
// Message is safe to show to the operator.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// serverMessenger is implemented by API errors carrying a human readable message.
type serverMessenger interface {
	ServerMessage() string
}

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	API         ports.AuthAPI
	Credentials ports.CredentialStore
	// Watcher is optional; when set, credential changes from other instances end or adopt the session.
	Watcher   ports.CredentialWatcher
	Navigator ports.Navigator
	Clock     clock.Clock
	Metrics   statsd.Sink
	Logger    *slog.Logger

	MonitorInterval time.Duration
	Cooldown        time.Duration
	StartupDelay    time.Duration
	LogoutTimeout   time.Duration
	LoginPath       string
	// SubscriptionBuffer bounds each subscriber's queue.
	SubscriptionBuffer int
}

// Store is the single writer of the operator session: credential, identity and
// the event stream derived from them. Construct one per process and pass it explicitly.
type Store struct {
	api       ports.AuthAPI
	creds     ports.CredentialStore
	watcher   ports.CredentialWatcher
	navigator ports.Navigator
	clock     clock.Clock
	metrics   statsd.Sink
	logger    *slog.Logger

	startupDelay  time.Duration
	logoutTimeout time.Duration
	loginPath     string

	// writeMu serializes every state transition together with its event dispatch.
	writeMu sync.Mutex

	mu            sync.RWMutex
	cred          domainauth.Credential
	identity      *domainauth.Identity
	lastValidated time.Time
	cancelStartup context.CancelFunc

	events     *registry
	monitor    *Monitor
	me         singleflight.Group
	loggingOut atomic.Bool

	bgCtx    context.Context
	bgCancel context.CancelFunc
	// wg tracks the credential watcher; tasks tracks short-lived background work.
	wg          sync.WaitGroup
	tasks       sync.WaitGroup
	watchOnce   sync.Once
	closeOnce   sync.Once
	logoutCount atomic.Int64
}

// NewStore constructs a Store. Call Restore to pick up a persisted credential.
func NewStore(opts StoreOptions) (*Store, error) {
	if opts.API == nil {
		return nil, ErrAPIRequired
	}
	if opts.Credentials == nil {
		return nil, ErrCredentialStoreRequired
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	nav := opts.Navigator
	if nav == nil {
		nav = ports.NavigatorFunc(func(context.Context, string) {})
	}
	loginPath := strings.TrimSpace(opts.LoginPath)
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	s := &Store{
		api:           opts.API,
		creds:         opts.Credentials,
		watcher:       opts.Watcher,
		navigator:     nav,
		clock:         clk,
		metrics:       opts.Metrics,
		logger:        logger.With("component", "session"),
		startupDelay:  durationOr(opts.StartupDelay, DefaultStartupDelay),
		logoutTimeout: durationOr(opts.LogoutTimeout, DefaultLogoutTimeout),
		loginPath:     loginPath,
		events:        newRegistry(opts.SubscriptionBuffer),
		bgCtx:         bgCtx,
		bgCancel:      bgCancel,
	}
	s.monitor = newMonitor(monitorOptions{
		Check:         s.Check,
		LastValidated: s.LastValidated,
		Authenticated: s.IsAuthenticated,
		Interval:      durationOr(opts.MonitorInterval, DefaultMonitorInterval),
		Cooldown:      durationOr(opts.Cooldown, DefaultCooldown),
		Clock:         clk,
		Logger:        s.logger,
	})
	return s, nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// Monitor returns the token freshness monitor bound to this store.
func (s *Store) Monitor() *Monitor {
	return s.monitor
}

// IsAuthenticated reports whether a credential is held. It performs no I/O.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.Present()
}

// CurrentIdentity returns the current identity, if any.
func (s *Store) CurrentIdentity() (domainauth.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domainauth.Identity{}, false
	}
	return *s.identity, true
}

// Credential returns the held credential. The API transport reads it to attach the bearer header.
func (s *Store) Credential() (domainauth.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.cred.Present()
}

// LastValidated returns when the last validation call completed (zero if never).
func (s *Store) LastValidated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastValidated
}

// Subscribe returns a subscription whose first event is the current identity snapshot.
func (s *Store) Subscribe() *Subscription {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snapshot := s.identityEvent()
	return s.events.subscribe(&snapshot)
}

// Login exchanges credentials for a session. On failure the current state is left untouched.
func (s *Store) Login(ctx context.Context, in domainauth.Credentials) (domainauth.Identity, error) {
	grant, err := s.api.Login(ctx, in)
	if err != nil {
		metrics.EmitLogin(s.metrics, metrics.ResultError, err)
		return domainauth.Identity{}, loginFailure(err)
	}
	if err := s.begin(ctx, grant); err != nil {
		metrics.EmitLogin(s.metrics, metrics.ResultError, err)
		return domainauth.Identity{}, err
	}
	metrics.EmitLogin(s.metrics, metrics.ResultSuccess, nil)
	s.logger.InfoContext(ctx, "operator signed in",
		slog.Int64("user_id", grant.Identity.ID),
		slog.String("role", string(grant.Identity.Role)))
	return grant.Identity, nil
}

// Register creates an operator account and signs it in.
func (s *Store) Register(ctx context.Context, in domainauth.Registration) (domainauth.Identity, error) {
	grant, err := s.api.Register(ctx, in)
	if err != nil {
		return domainauth.Identity{}, loginFailure(err)
	}
	if err := s.begin(ctx, grant); err != nil {
		return domainauth.Identity{}, err
	}
	s.logger.InfoContext(ctx, "operator registered", slog.Int64("user_id", grant.Identity.ID))
	return grant.Identity, nil
}

func loginFailure(err error) error {
	var sm serverMessenger
	if errors.As(err, &sm) {
		if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
			return &LoginError{Message: msg, Err: err}
		}
	}
	return &LoginError{Message: ErrInvalidCredentials.Error(), Err: errors.Join(ErrInvalidCredentials, err)}
}

// begin installs a fresh grant as the current session.
func (s *Store) begin(ctx context.Context, grant domainauth.Grant) error {
	if !grant.Credential.Present() {
		return &LoginError{Message: ErrInvalidCredentials.Error(), Err: errors.New("login response carried no token")}
	}
	if grant.Identity.Empty() {
		return &LoginError{Message: ErrInvalidCredentials.Error(), Err: ports.ErrEmptyIdentity}
	}

	s.writeMu.Lock()
	if err := s.creds.Save(ctx, grant.Credential); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("persist credential: %w", err)
	}

	identity := grant.Identity
	s.mu.Lock()
	s.cred = grant.Credential
	s.identity = &identity
	s.lastValidated = s.clock.Now()
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventCredential, Authenticated: true})
	s.events.publish(s.identityEvent())
	s.writeMu.Unlock()

	s.monitor.Start(s.bgCtx)
	return nil
}

// Restore adopts a persisted credential on startup without blocking on the network.
// Validation is deferred by the configured startup delay.
func (s *Store) Restore(ctx context.Context) error {
	s.startWatcher()

	cred, err := s.creds.Load(ctx)
	if errors.Is(err, ports.ErrCredentialNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if !cred.Present() {
		return nil
	}

	s.adopt(cred)
	s.scheduleValidation(s.startupDelay)
	s.logger.InfoContext(ctx, "restored persisted credential; validation deferred",
		slog.Duration("delay", s.startupDelay))
	return nil
}

// adopt installs a credential whose identity is not yet known.
func (s *Store) adopt(cred domainauth.Credential) {
	s.writeMu.Lock()
	s.mu.Lock()
	changedOwner := s.cred.Token != cred.Token
	s.cred = cred
	if changedOwner {
		s.identity = nil
	}
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventCredential, Authenticated: true})
	if changedOwner {
		s.events.publish(s.identityEvent())
	}
	s.writeMu.Unlock()

	s.monitor.Start(s.bgCtx)
}

func (s *Store) scheduleValidation(delay time.Duration) {
	ctx, cancel := context.WithCancel(s.bgCtx)

	s.mu.Lock()
	if s.cancelStartup != nil {
		s.cancelStartup()
	}
	s.cancelStartup = cancel
	s.mu.Unlock()

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		s.ValidateNow(ctx)
	}()
}

func (s *Store) cancelScheduledValidation() {
	s.mu.Lock()
	cancel := s.cancelStartup
	s.cancelStartup = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// GetCurrentIdentity asks the API who the held credential belongs to.
// Concurrent callers for the same credential share one request. It does not change session state.
func (s *Store) GetCurrentIdentity(ctx context.Context) (domainauth.Identity, error) {
	cred, ok := s.Credential()
	if !ok {
		return domainauth.Identity{}, ErrNotAuthenticated
	}
	return s.identityFor(ctx, cred)
}

// identityFor resolves the identity behind cred. Requests are shared per token
// so a check for a newly adopted credential never joins one still in flight for
// the credential it replaced.
func (s *Store) identityFor(ctx context.Context, cred domainauth.Credential) (domainauth.Identity, error) {
	v, err, _ := s.me.Do("me:"+cred.Token, func() (any, error) {
		start := s.clock.Now()
		id, err := s.api.Me(ctx)
		s.markValidated()
		metrics.EmitValidationLatency(s.metrics, s.clock.Now().Sub(start))
		if err != nil {
			return domainauth.Identity{}, err
		}
		if id.Empty() {
			return domainauth.Identity{}, ports.ErrEmptyIdentity
		}
		return id, nil
	})
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("get current identity: %w", err)
	}
	identity, _ := v.(domainauth.Identity)
	return identity, nil
}

func (s *Store) markValidated() {
	s.mu.Lock()
	s.lastValidated = s.clock.Now()
	s.mu.Unlock()
}

// Check validates the credential against the API and applies the outcome:
// valid confirms (and backfills) the identity, invalid ends the session,
// inconclusive keeps everything as is.
func (s *Store) Check(ctx context.Context) (Outcome, error) {
	cred, ok := s.Credential()
	if !ok {
		s.endSession(ctx, ReasonNoCredential)
		return OutcomeInvalid, ErrNotAuthenticated
	}

	identity, err := s.identityFor(ctx, cred)
	outcome := Classify(err)
	metrics.EmitValidation(s.metrics, outcome.String(), err)

	switch outcome {
	case OutcomeValid:
		s.confirm(cred, identity)
	case OutcomeInvalid:
		s.logger.InfoContext(ctx, "credential rejected; ending session", slog.Any("error", err))
		s.endSessionFor(ctx, reasonFor(err), cred.Token)
	case OutcomeInconclusive:
		s.logger.WarnContext(ctx, "session validation inconclusive; keeping session", slog.Any("error", err))
	}
	return outcome, err
}

// ValidateNow re-checks the credential immediately, bypassing the monitor cooldown.
// It reports whether the session is still usable; inconclusive failures count as usable.
func (s *Store) ValidateNow(ctx context.Context) bool {
	outcome, _ := s.Check(ctx)
	return outcome != OutcomeInvalid
}

// ValidateToken is ValidateNow under the name used by cross-instance change handlers.
func (s *Store) ValidateToken(ctx context.Context) bool {
	return s.ValidateNow(ctx)
}

// confirm replaces the identity when the validated credential is still the held one.
func (s *Store) confirm(cred domainauth.Credential, identity domainauth.Identity) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.cred.Token != cred.Token {
		// A logout or another login happened while the call was in flight.
		s.mu.Unlock()
		return
	}
	changed := s.identity == nil || !s.identity.Same(identity)
	if changed {
		next := identity
		s.identity = &next
	}
	s.mu.Unlock()

	if changed {
		s.events.publish(s.identityEvent())
	}
}

// Logout ends the session: best-effort server invalidation, credential and identity
// cleared, monitor stopped, attached browsers sent to the login page.
// Calls made while another logout is clearing local state are no-ops.
func (s *Store) Logout(ctx context.Context) {
	s.endSession(ctx, ReasonManual)
}

// HandleUnauthorized is invoked by the API transport when a call sent with rejected
// gets 401/403. Rejections of a credential that has since been replaced are ignored.
func (s *Store) HandleUnauthorized(ctx context.Context, rejected domainauth.Credential) {
	if !rejected.Present() {
		return
	}
	s.endSessionFor(ctx, ReasonRejected, rejected.Token)
}

func (s *Store) endSession(ctx context.Context, reason LogoutReason) {
	s.endSessionFor(ctx, reason, "")
}

// endSessionFor ends the session. A non-empty token restricts it to the session
// holding that token. The reentrancy flag covers local cleanup only; the
// best-effort server call runs after it is released.
func (s *Store) endSessionFor(ctx context.Context, reason LogoutReason, token string) {
	if !s.loggingOut.CompareAndSwap(false, true) {
		s.logger.DebugContext(ctx, "logout already in progress", slog.String("reason", string(reason)))
		return
	}
	cred, ended := s.clearLocal(ctx, reason, token)
	s.loggingOut.Store(false)
	if !ended {
		return
	}

	s.logoutCount.Add(1)
	metrics.EmitSessionEnd(s.metrics, string(reason))
	s.logger.InfoContext(ctx, "session ended", slog.String("reason", string(reason)))
	s.navigator.Navigate(ctx, s.loginPath)

	if !notifiesServer(reason) || !cred.Present() {
		return
	}
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		s.invalidateRemote(cred)
	}()
}

// clearLocal drops the held credential and identity, clears the stored namespace
// and publishes the logout events. It reports the discarded credential and
// whether a session was actually ended.
func (s *Store) clearLocal(ctx context.Context, reason LogoutReason, token string) (domainauth.Credential, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	stale := token != "" && s.cred.Token != token
	s.mu.RUnlock()
	if stale {
		s.logger.DebugContext(ctx, "ignoring rejection of a replaced credential", slog.String("reason", string(reason)))
		return domainauth.Credential{}, false
	}

	s.monitor.Stop()
	s.cancelScheduledValidation()

	s.mu.Lock()
	cred := s.cred
	hadSession := cred.Present() || s.identity != nil
	s.cred = domainauth.Credential{}
	s.identity = nil
	s.mu.Unlock()

	if s.clearsStore(ctx, reason, hadSession) {
		if err := s.creds.Clear(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to clear stored credential", slog.Any("error", err))
		}
	}

	if hadSession {
		s.events.publish(Event{Kind: EventCredential, Authenticated: false})
		s.events.publish(s.identityEvent())
		s.events.publish(Event{Kind: EventLogout, Reason: reason})
	}
	return cred, hadSession
}

// clearsStore decides whether ending the session wipes the shared namespace.
// Another instance already cleared it for external endings. A guard miss on an
// instance holding nothing leaves a credential stored by a peer alone; that peer's
// change signal may simply not have arrived yet.
func (s *Store) clearsStore(ctx context.Context, reason LogoutReason, hadSession bool) bool {
	switch {
	case reason == ReasonExternal:
		return false
	case reason == ReasonNoCredential && !hadSession:
		stored, err := s.creds.Load(ctx)
		return err != nil || !stored.Present()
	default:
		return true
	}
}

// notifiesServer reports whether a logout for reason should call DELETE /auth/logout.
// Rejected and external endings have nothing left to invalidate.
func notifiesServer(reason LogoutReason) bool {
	switch reason {
	case ReasonRejected, ReasonExternal, ReasonNoCredential:
		return false
	default:
		return true
	}
}

func (s *Store) invalidateRemote(cred domainauth.Credential) {
	ctx, cancel := context.WithTimeout(context.Background(), s.logoutTimeout)
	defer cancel()
	if err := s.api.Logout(ctx, cred); err != nil {
		s.logger.Warn("server-side logout failed; local session already cleared", slog.Any("error", err))
	}
}

// LogoutCount reports how many logout sequences completed with a session to end.
func (s *Store) LogoutCount() int64 {
	return s.logoutCount.Load()
}

// identityEvent builds an EventIdentity from current state. Callers hold writeMu.
func (s *Store) identityEvent() Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev := Event{Kind: EventIdentity, Authenticated: s.cred.Present()}
	if s.identity != nil {
		snapshot := *s.identity
		ev.Identity = &snapshot
	}
	return ev
}

func (s *Store) startWatcher() {
	if s.watcher == nil {
		return
	}
	s.watchOnce.Do(func() {
		changes, err := s.watcher.Watch(s.bgCtx)
		if err != nil {
			s.logger.Warn("credential watcher unavailable; cross-instance changes will be missed", slog.Any("error", err))
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for change := range changes {
				s.applyExternalChange(s.bgCtx, change)
			}
		}()
	})
}

// applyExternalChange reacts to a credential change made by another console instance.
func (s *Store) applyExternalChange(ctx context.Context, change ports.CredentialChange) {
	switch change.Kind {
	case ports.CredentialCleared:
		s.logger.InfoContext(ctx, "credential cleared by another instance", slog.String("origin", change.Origin))
		s.endSession(ctx, ReasonExternal)
	case ports.CredentialSaved:
		cred, err := s.creds.Load(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load credential after external change", slog.Any("error", err))
			return
		}
		if held, ok := s.Credential(); ok && held.Token == cred.Token {
			return
		}
		s.logger.InfoContext(ctx, "credential replaced by another instance", slog.String("origin", change.Origin))
		s.adopt(cred)
		s.ValidateToken(ctx)
	}
}

// Close stops background work and closes every subscription.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.monitor.Stop()
		s.bgCancel()
		s.wg.Wait()
		s.tasks.Wait()
		s.events.closeAll()
	})
}

// Wait blocks until background work started so far (deferred validation,
// best-effort logout calls) has finished. Intended for tests and shutdown.
func (s *Store) Wait() {
	s.tasks.Wait()
}
