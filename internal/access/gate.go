package access

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/lubsanchez/pos-console/internal/session"
)

// Mode selects how a requirement combines its actions.
type Mode string

const (
	ModeAny Mode = "any"
	ModeAll Mode = "all"
)

// ErrEmptyRequirement is returned when a requirement lists no actions.
var ErrEmptyRequirement = errors.New("requirement needs at least one action")

// Requirement is the permission condition guarding a block of content.
type Requirement struct {
	Actions []Action
	Mode    Mode
}

// Any builds a requirement satisfied by any of actions.
func Any(actions ...Action) Requirement { return Requirement{Actions: actions, Mode: ModeAny} }

// All builds a requirement satisfied only by all of actions.
func All(actions ...Action) Requirement { return Requirement{Actions: actions, Mode: ModeAll} }

// ParseRequirement builds a requirement from template or configuration strings.
func ParseRequirement(mode string, actions ...string) (Requirement, error) {
	req := Requirement{Mode: Mode(strings.ToLower(strings.TrimSpace(mode)))}
	switch req.Mode {
	case "":
		req.Mode = ModeAny
	case ModeAny, ModeAll:
	default:
		return Requirement{}, fmt.Errorf("unknown gate mode %q", mode)
	}
	for _, a := range actions {
		action := Action(strings.TrimSpace(a))
		if !action.valid() {
			return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidAction, a)
		}
		req.Actions = append(req.Actions, action)
	}
	if len(req.Actions) == 0 {
		return Requirement{}, ErrEmptyRequirement
	}
	return req, nil
}

// GateHooks are the side effects of inserting and removing gated content.
// Mount is where gated data loads belong; it never runs for an identity
// that does not satisfy the requirement.
type GateHooks struct {
	Mount   func(ctx context.Context) error
	Unmount func(ctx context.Context)
}

// Gate inserts or removes a block of content as the current identity changes.
type Gate struct {
	eval   *Evaluator
	req    Requirement
	hooks  GateHooks
	logger *slog.Logger

	mu      sync.Mutex
	mounted bool
}

// NewGate constructs a Gate. Nothing is mounted until Sync or Run.
func NewGate(eval *Evaluator, req Requirement, hooks GateHooks, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{eval: eval, req: req, hooks: hooks, logger: logger}
}

// Mounted reports whether the content is currently inserted.
func (g *Gate) Mounted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mounted
}

// Sync re-evaluates the requirement and mounts or unmounts accordingly.
// It reports whether the content is mounted afterwards.
func (g *Gate) Sync(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	allowed := g.eval.Satisfies(g.req)
	switch {
	case allowed && !g.mounted:
		if g.hooks.Mount != nil {
			if err := g.hooks.Mount(ctx); err != nil {
				g.logger.WarnContext(ctx, "gated content failed to mount", slog.Any("error", err))
				return false
			}
		}
		g.mounted = true
	case !allowed && g.mounted:
		if g.hooks.Unmount != nil {
			g.hooks.Unmount(ctx)
		}
		g.mounted = false
	}
	return g.mounted
}

// Run re-evaluates on every identity event until ctx is done or the
// subscription closes, then removes the content.
func (g *Gate) Run(ctx context.Context, sub *session.Subscription) {
	defer g.teardown(context.WithoutCancel(ctx))

	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind == session.EventIdentity {
				g.Sync(ctx)
			}
		}
	}
}

func (g *Gate) teardown(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.mounted {
		return
	}
	if g.hooks.Unmount != nil {
		g.hooks.Unmount(ctx)
	}
	g.mounted = false
}

// Render writes content only when the requirement is satisfied right now.
// content is not invoked otherwise, so loads inside it never run for
// unauthorized operators.
func Render(ctx context.Context, eval *Evaluator, req Requirement, w io.Writer,
	content func(ctx context.Context, w io.Writer) error,
) (bool, error) {
	if !eval.Satisfies(req) {
		return false, nil
	}
	if err := content(ctx, w); err != nil {
		return true, err
	}
	return true, nil
}
