package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lubsanchez/pos-console/internal/clock"
)

// Trigger names the signal that asked for a validation.
type Trigger string

const (
	TriggerTimer      Trigger = "timer"
	TriggerFocus      Trigger = "focus"
	TriggerVisibility Trigger = "visibility"
)

// ParseTrigger maps a browser signal name onto a Trigger.
func ParseTrigger(s string) (Trigger, bool) {
	switch Trigger(s) {
	case TriggerTimer, TriggerFocus, TriggerVisibility:
		return Trigger(s), true
	default:
		return "", false
	}
}

type monitorOptions struct {
	Check         func(ctx context.Context) (Outcome, error)
	LastValidated func() time.Time
	Authenticated func() bool
	Interval      time.Duration
	Cooldown      time.Duration
	Clock         clock.Clock
	Logger        *slog.Logger
}

// Monitor keeps the held credential fresh. A ticker plus focus and visibility
// signals all funnel into Trigger, which is rate limited by a cooldown measured
// from the last completed validation.
type Monitor struct {
	check         func(ctx context.Context) (Outcome, error)
	lastValidated func() time.Time
	authenticated func() bool
	interval      time.Duration
	cooldown      time.Duration
	clock         clock.Clock
	logger        *slog.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	inflight bool
	runs     int
	stops    int
}

func newMonitor(opts monitorOptions) *Monitor {
	return &Monitor{
		check:         opts.Check,
		lastValidated: opts.LastValidated,
		authenticated: opts.Authenticated,
		interval:      opts.Interval,
		cooldown:      opts.Cooldown,
		clock:         opts.Clock,
		logger:        opts.Logger,
	}
}

// Start begins the periodic loop. It is a no-op while already running.
func (m *Monitor) Start(parent context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.runs++
	go m.loop(ctx)
	m.logger.Debug("token monitor started", slog.Duration("interval", m.interval))
}

// Stop cancels the periodic loop. Each run is cancelled exactly once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return
	}
	m.cancel()
	m.cancel = nil
	m.stops++
	m.logger.Debug("token monitor stopped")
}

// Running reports whether the periodic loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Stats returns how many runs were started and stopped.
func (m *Monitor) Stats() (runs, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs, m.stops
}

// Trigger runs a validation unless one is in flight or the last one completed
// within the cooldown. It reports whether a validation ran.
func (m *Monitor) Trigger(ctx context.Context, t Trigger) bool {
	if !m.authenticated() {
		return false
	}

	m.mu.Lock()
	if m.inflight {
		m.mu.Unlock()
		m.logger.Debug("validation skipped; already in flight", slog.String("trigger", string(t)))
		return false
	}
	if last := m.lastValidated(); !last.IsZero() && m.clock.Now().Sub(last) < m.cooldown {
		m.mu.Unlock()
		m.logger.Debug("validation skipped; within cooldown", slog.String("trigger", string(t)))
		return false
	}
	m.inflight = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inflight = false
		m.mu.Unlock()
	}()

	outcome, _ := m.check(ctx)
	m.logger.Debug("validation finished",
		slog.String("trigger", string(t)),
		slog.String("outcome", outcome.String()))
	return true
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Trigger(ctx, TriggerTimer)
		}
	}
}
