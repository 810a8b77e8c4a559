package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	mocks "github.com/lubsanchez/pos-console/internal/mocks/auth"
)

func restoredFixture(t *testing.T, tweak ...func(*StoreOptions)) *storeFixture {
	t.Helper()
	f := newFixture(t, mocks.DefaultEmployee(), tweak...)
	f.creds.Put(domainauth.Credential{Type: "bearer", Token: "persisted"})
	require.NoError(t, f.store.Restore(context.Background()))
	return f
}

func TestParseTrigger(t *testing.T) {
	for _, name := range []string{"timer", "focus", "visibility"} {
		got, ok := ParseTrigger(name)
		assert.True(t, ok)
		assert.Equal(t, Trigger(name), got)
	}
	_, ok := ParseTrigger("blur")
	assert.False(t, ok)
}

func TestMonitor_FocusAndVisibilityWithinCooldownValidateOnce(t *testing.T) {
	f := restoredFixture(t, func(o *StoreOptions) { o.Cooldown = 10 * time.Second })
	ctx := context.Background()
	m := f.store.Monitor()

	assert.True(t, m.Trigger(ctx, TriggerFocus))
	assert.False(t, m.Trigger(ctx, TriggerVisibility))

	f.clock.Advance(9 * time.Second)
	assert.False(t, m.Trigger(ctx, TriggerFocus))

	assert.Equal(t, 1, f.api.MeCalls())
}

func TestMonitor_RunsAgainAfterCooldown(t *testing.T) {
	f := restoredFixture(t, func(o *StoreOptions) { o.Cooldown = 10 * time.Second })
	ctx := context.Background()
	m := f.store.Monitor()

	require.True(t, m.Trigger(ctx, TriggerFocus))
	f.clock.Advance(10 * time.Second)
	assert.True(t, m.Trigger(ctx, TriggerVisibility))
	assert.Equal(t, 2, f.api.MeCalls())
}

func TestMonitor_CooldownCountsFromFailedValidation(t *testing.T) {
	f := restoredFixture(t)
	f.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, &mocks.StatusError{Status: 503}
	}
	ctx := context.Background()
	m := f.store.Monitor()

	assert.True(t, m.Trigger(ctx, TriggerTimer))
	assert.False(t, m.Trigger(ctx, TriggerFocus))
	assert.True(t, f.store.IsAuthenticated())
}

func TestMonitor_SkipsWhileValidationInFlight(t *testing.T) {
	f := restoredFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		close(entered)
		<-release
		return mocks.DefaultEmployee(), nil
	}
	m := f.store.Monitor()

	done := make(chan bool)
	go func() { done <- m.Trigger(context.Background(), TriggerTimer) }()
	<-entered

	assert.False(t, m.Trigger(context.Background(), TriggerFocus))
	close(release)
	assert.True(t, <-done)
	assert.Equal(t, 1, f.api.MeCalls())
}

func TestMonitor_SkipsWhenSignedOut(t *testing.T) {
	f := newFixture(t, mocks.DefaultAdmin())

	assert.False(t, f.store.Monitor().Trigger(context.Background(), TriggerFocus))
	assert.Zero(t, f.api.MeCalls())
}

func TestMonitor_TimerValidatesPeriodically(t *testing.T) {
	f := newFixture(t, mocks.DefaultAdmin(), func(o *StoreOptions) {
		o.MonitorInterval = 10 * time.Millisecond
		o.Cooldown = time.Nanosecond
	})
	f.login(t)
	f.clock.Advance(time.Second)

	require.Eventually(t, func() bool { return f.api.MeCalls() >= 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestMonitor_TimerRejectionEndsSession(t *testing.T) {
	f := newFixture(t, mocks.DefaultAdmin(), func(o *StoreOptions) {
		o.MonitorInterval = 10 * time.Millisecond
		o.Cooldown = time.Nanosecond
	})
	f.login(t)
	f.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, &mocks.StatusError{Status: 401}
	}
	f.clock.Advance(time.Second)

	require.Eventually(t, func() bool { return !f.store.IsAuthenticated() }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !f.store.Monitor().Running() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.nav.Count())
}

func TestMonitor_StopCancelsEachRunOnce(t *testing.T) {
	f := newFixture(t, mocks.DefaultAdmin())
	ctx := context.Background()

	f.login(t)
	f.store.Logout(ctx)
	f.store.Logout(ctx)
	f.store.Wait()
	f.store.Monitor().Stop()

	f.login(t)
	held, _ := f.store.Credential()
	f.store.HandleUnauthorized(ctx, held)

	runs, stops := f.store.Monitor().Stats()
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, stops)
	assert.False(t, f.store.Monitor().Running())
}

func TestMonitor_StartIsIdempotent(t *testing.T) {
	f := newFixture(t, mocks.DefaultAdmin())
	m := f.store.Monitor()

	m.Start(context.Background())
	m.Start(context.Background())
	runs, _ := m.Stats()
	assert.Equal(t, 1, runs)
	m.Stop()
	assert.False(t, m.Running())
}

func TestMonitor_InconclusiveErrorsKeepSession(t *testing.T) {
	f := restoredFixture(t)
	f.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("dial tcp 127.0.0.1:3333: connect: connection refused")
	}

	assert.True(t, f.store.Monitor().Trigger(context.Background(), TriggerVisibility))
	assert.True(t, f.store.IsAuthenticated())
	assert.True(t, f.store.Monitor().Running())
	assert.Zero(t, f.nav.Count())
}
