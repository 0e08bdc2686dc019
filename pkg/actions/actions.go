// Package actions resolves pointer events on a block to the command bound
// by its button and scroll annotations, and runs that command.
package actions

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clubar/pkg/errors"
	"github.com/arthur-debert/clubar/pkg/logging"
	"github.com/arthur-debert/clubar/pkg/markup"
)

// Event is a pointer event: which button or scroll direction, and which
// keyboard modifiers were held.
type Event struct {
	Kind markup.Kind
	Mask markup.ModifierMask
}

func (e Event) String() string {
	if e.Mask == 0 {
		return e.Kind.String()
	}
	return e.Kind.String() + ":" + e.Mask.String()
}

// Select walks an action stack from the top and returns the first non-empty
// command whose modifier mask equals mask exactly.
func Select(stack *markup.Node, mask markup.ModifierMask) (string, bool) {
	for n := stack; n != nil; n = n.Previous {
		if n.Value != "" && n.Mask == mask {
			return n.Value, true
		}
	}
	return "", false
}

// Find selects the command for ev among the annotations of a block.
func Find(a markup.Annotations, ev Event) (string, bool) {
	if !ev.Kind.IsAction() {
		return "", false
	}
	return Select(a.Top(ev.Kind), ev.Mask)
}

// Executor runs a bound command.
type Executor interface {
	Execute(ctx context.Context, command string) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, command string) error

func (f ExecutorFunc) Execute(ctx context.Context, command string) error {
	return f(ctx, command)
}

// Dispatcher finds and executes the command for an event.
type Dispatcher struct {
	exec    Executor
	logger  zerolog.Logger
	onMatch func(markup.Kind)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithExecutor replaces the shell executor.
func WithExecutor(e Executor) DispatcherOption {
	return func(d *Dispatcher) { d.exec = e }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// OnMatch registers a hook called with the event kind each time a command
// is about to run.
func OnMatch(fn func(markup.Kind)) DispatcherOption {
	return func(d *Dispatcher) { d.onMatch = fn }
}

// NewDispatcher returns a dispatcher running commands through a
// ShellExecutor unless told otherwise.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{logger: logging.GetLogger("actions")}
	for _, opt := range opts {
		opt(d)
	}
	if d.exec == nil {
		d.exec = NewShellExecutor(d.logger)
	}
	return d
}

// Dispatch runs the command bound to ev on a, if any. It reports whether a
// command matched.
func (d *Dispatcher) Dispatch(ctx context.Context, a markup.Annotations, ev Event) (bool, error) {
	cmd, ok := Find(a, ev)
	if !ok {
		d.logger.Trace().Str("event", ev.String()).Msg("No action bound")
		return false, nil
	}
	if d.onMatch != nil {
		d.onMatch(ev.Kind)
	}
	d.logger.Debug().Str("event", ev.String()).Str("command", cmd).Msg("Running action")
	if err := d.exec.Execute(ctx, cmd); err != nil {
		return true, errors.Wrapf(err, errors.ErrActionExecute, "failed to run %q", cmd).
			WithDetail("event", ev.String())
	}
	return true, nil
}
