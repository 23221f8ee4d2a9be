// Package optimistic implements the local-apply / remote-call / reconcile protocol used by
// every user action that must feel instantaneous.
//
// A mutation is applied to the in-memory view synchronously, the remote call runs in the
// background under a fixed time budget, and the outcome is reconciled: on success the
// server's answer may be merged and post-confirmation side effects fire; on failure the
// exact inverse of the local change is applied. Reverts only touch what the mutation
// itself touched, so concurrent mutations on other entities survive.
package optimistic

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/observability/metrics"
)

// ErrNotApplied is returned when a mutation's local apply found nothing to change.
// No remote call is made in that case.
var ErrNotApplied = errors.New("mutation not applied")

// DefaultTimeout is the wall-clock budget for a remote call.
const DefaultTimeout = 8 * time.Second

// Cloner is implemented by view models that can be deep-copied for readers.
type Cloner[T any] interface {
	Clone() T
}

// State guards a view model that optimistic mutations edit in place.
type State[T Cloner[T]] struct {
	mu sync.Mutex
	v  T
}

// NewState wraps an initial view.
func NewState[T Cloner[T]](v T) *State[T] {
	return &State[T]{v: v}
}

// Snapshot returns a deep copy of the current view.
func (s *State[T]) Snapshot() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Clone()
}

// Update runs fn with exclusive access to the view.
func (s *State[T]) Update(fn func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.v)
}

// Replace swaps in an authoritative view (used after full reloads).
func (s *State[T]) Replace(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
}

// Mutation describes one optimistic change.
//
// Apply must return false when there is nothing to change; Revert must be the exact inverse
// of a successful Apply. Commit (optional) merges the server's answer. After (optional) runs
// irreversible side effects and is only ever invoked once Remote has succeeded. Failed
// (optional) is told about the failure after Revert has run. Current (optional) is asked
// before After or Failed; when it reports false the owner of the view has changed since
// Apply (for example a sign-out) and neither runs.
type Mutation[T any, R any] struct {
	Name    string
	Apply   func(*T) bool
	Revert  func(*T)
	Remote  func(ctx context.Context) (R, error)
	Commit  func(*T, R)
	After   func(ctx context.Context, result R)
	Failed  func(ctx context.Context, err error)
	Current func() bool
}

// Engine runs mutations and tracks in-flight reconciles for shutdown.
type Engine struct {
	timeout time.Duration
	logger  *slog.Logger
	metrics metrics.Sink

	wg sync.WaitGroup
}

// EngineOptions groups dependencies for Engine.
type EngineOptions struct {
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics metrics.Sink
}

// NewEngine constructs an Engine.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{timeout: opts.Timeout, logger: opts.Logger, metrics: opts.Metrics}
}

// Timeout is the budget each remote call runs under.
func (e *Engine) Timeout() time.Duration { return e.timeout }

// Wait blocks until every in-flight reconcile has finished or ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending is the eventual outcome of a mutation.
type Pending[R any] struct {
	done   chan struct{}
	result R
	err    error
}

func newPending[R any]() *Pending[R] {
	return &Pending[R]{done: make(chan struct{})}
}

func (p *Pending[R]) resolve(r R, err error) {
	p.result, p.err = r, err
	close(p.done)
}

// Done is closed once the mutation has been reconciled.
func (p *Pending[R]) Done() <-chan struct{} { return p.done }

// Wait blocks for the reconciled outcome.
func (p *Pending[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Apply performs the local apply synchronously and reconciles in the background.
// When Apply returns the view already reflects the intended end state.
func Apply[T Cloner[T], R any](ctx context.Context, e *Engine, st *State[T], m Mutation[T, R]) *Pending[R] {
	p := newPending[R]()

	applied := false
	st.Update(func(v *T) { applied = m.Apply(v) })
	if !applied {
		var zero R
		e.record(m.Name, metrics.ResultNoop, 0, nil)
		p.resolve(zero, ErrNotApplied)
		return p
	}

	// The reconcile outlives the request that triggered it.
	remoteCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	start := time.Now()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		r, err := m.Remote(remoteCtx)
		if err != nil {
			err = apperrors.FromContext(err)
			st.Update(m.Revert)
			e.logger.WarnContext(remoteCtx, "optimistic mutation reverted",
				"mutation", m.Name,
				"error", err,
				"duration", time.Since(start))
			e.record(m.Name, metrics.ResultReverted, time.Since(start), err)
			if m.Failed != nil && stillCurrent(remoteCtx, e, m) {
				m.Failed(remoteCtx, err)
			}
			var zero R
			p.resolve(zero, err)
			return
		}

		if m.Commit != nil {
			st.Update(func(v *T) { m.Commit(v, r) })
		}
		e.record(m.Name, metrics.ResultSuccess, time.Since(start), nil)
		if m.After != nil && stillCurrent(remoteCtx, e, m) {
			m.After(remoteCtx, r)
		}
		p.resolve(r, nil)
	}()

	return p
}

// stillCurrent reports whether m's side effects may run.
func stillCurrent[T, R any](ctx context.Context, e *Engine, m Mutation[T, R]) bool {
	if m.Current == nil || m.Current() {
		return true
	}
	e.logger.InfoContext(ctx, "optimistic side effects skipped for a replaced owner", "mutation", m.Name)
	return false
}

// Run is Apply followed by Wait.
func Run[T Cloner[T], R any](ctx context.Context, e *Engine, st *State[T], m Mutation[T, R]) (R, error) {
	return Apply(ctx, e, st, m).Wait(ctx)
}

func (e *Engine) record(name, result string, d time.Duration, err error) {
	if e.metrics == nil {
		return
	}
	e.metrics.Mutation(metrics.MutationMetric{Name: name, Result: result, Duration: d, Err: err})
}
