package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_FullBufferDropsOldest(t *testing.T) {
	r := newRegistry(2)
	sub := r.subscribe(nil)
	defer sub.Cancel()

	r.publish(Event{Kind: EventCredential, Reason: "1"})
	r.publish(Event{Kind: EventCredential, Reason: "2"})
	r.publish(Event{Kind: EventLogout, Reason: "3"})

	first := <-sub.Events()
	second := <-sub.Events()
	assert.Equal(t, LogoutReason("2"), first.Reason)
	assert.Equal(t, LogoutReason("3"), second.Reason)
}

func TestRegistry_InitialEventFirst(t *testing.T) {
	r := newRegistry(0)
	sub := r.subscribe(&Event{Kind: EventIdentity})
	r.publish(Event{Kind: EventLogout})

	assert.Equal(t, EventIdentity, (<-sub.Events()).Kind)
	assert.Equal(t, EventLogout, (<-sub.Events()).Kind)
}

func TestRegistry_CloseAll(t *testing.T) {
	r := newRegistry(0)
	a := r.subscribe(nil)
	b := r.subscribe(nil)
	require.Equal(t, 2, r.count())

	r.closeAll()
	_, okA := <-a.Events()
	_, okB := <-b.Events()
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Zero(t, r.count())

	a.Cancel()
	late := r.subscribe(&Event{Kind: EventIdentity})
	_, ok := <-late.Events()
	assert.False(t, ok, "subscriptions after close are closed immediately")
}

func TestSubscription_NilCancel(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Cancel)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeValid, Classify(nil))
	assert.Equal(t, OutcomeInvalid, Classify(ErrNotAuthenticated))
	assert.Equal(t, "inconclusive", OutcomeInconclusive.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
