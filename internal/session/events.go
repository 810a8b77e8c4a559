package session

import (
	"sync"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// EventKind identifies what changed in the session.
type EventKind string

const (
	// EventIdentity carries a new Identity snapshot (nil when signed out).
	EventIdentity EventKind = "identity"
	// EventCredential is published whenever the store writes or clears the credential.
	EventCredential EventKind = "credential"
	// EventLogout is published once per completed logout sequence.
	EventLogout EventKind = "logout"
)

// LogoutReason records why a session ended.
type LogoutReason string

const (
	ReasonManual       LogoutReason = "manual"
	ReasonRejected     LogoutReason = "rejected"      // API answered 401/403
	ReasonInvalid      LogoutReason = "invalid"       // API answered success without an identity
	ReasonNoCredential LogoutReason = "no_credential" // guard found nothing stored
	ReasonExternal     LogoutReason = "external"      // another instance cleared the credential
)

// Event is a single session transition delivered to subscribers.
type Event struct {
	Kind EventKind
	// Identity is set on EventIdentity; nil means no current identity.
	Identity *domainauth.Identity
	// Authenticated reports credential presence after the transition.
	Authenticated bool
	// Reason is set on EventLogout.
	Reason LogoutReason
}

const defaultSubscriptionBuffer = 16

// Subscription is a cancellable view of the session event stream.
type Subscription struct {
	ch     chan Event
	cancel func()
	once   sync.Once
}

// Events returns the channel events are delivered on. It is closed by Cancel.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// registry fans events out to subscribers. Publishing never blocks: a full
// subscriber buffer loses its oldest event so the newest snapshot always lands.
type registry struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
}

func newRegistry(buffer int) *registry {
	if buffer <= 0 {
		buffer = defaultSubscriptionBuffer
	}
	return &registry{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
	}
}

func (r *registry) subscribe(initial *Event) *Subscription {
	ch := make(chan Event, r.buffer)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		close(ch)
		return &Subscription{ch: ch, cancel: func() {}}
	}
	r.subs[ch] = struct{}{}
	if initial != nil {
		deliver(ch, *initial)
	}

	return &Subscription{ch: ch, cancel: func() { r.remove(ch) }}
}

func (r *registry) remove(ch chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[ch]; !ok {
		return
	}
	delete(r.subs, ch)
	close(ch)
}

func (r *registry) publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ch := range r.subs {
		deliver(ch, ev)
	}
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ch := range r.subs {
		delete(r.subs, ch)
		close(ch)
	}
	r.closed = true
}

// deliver enqueues ev, evicting the oldest queued event when the buffer is full.
func deliver(ch chan Event, ev Event) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
