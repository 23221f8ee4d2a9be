// Package reaper periodically evicts idle per-browser session stores from memory.
package reaper

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"
)

// Evictor is the subset of the session registry the reaper drives.
type Evictor interface {
	EvictIdle(ctx context.Context) int
	Len() int
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Sessions Evictor
	// Stores are swept after Sessions, e.g. an in-memory token store.
	Stores   []Evictor
	Interval time.Duration
	Logger   *slog.Logger
}

// Runner evicts idle sessions at a fixed interval until its context is cancelled.
type Runner struct {
	sessions Evictor
	stores   []Evictor
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session registry is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		sessions: opts.Sessions,
		stores:   opts.Stores,
		interval: opts.Interval,
		logger:   opts.Logger.With("component", "session_reaper"),
	}, nil
}

// Run starts the eviction loop. Returns nil on graceful shutdown (context.Canceled).
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper", "interval", r.interval)

	r.waitWithJitter(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Runner) sweep(ctx context.Context) int {
	n := r.sessions.EvictIdle(ctx)
	if n > 0 {
		r.logger.DebugContext(ctx, "evicted idle sessions", "evicted", n, "live", r.sessions.Len())
	}
	for _, s := range r.stores {
		if m := s.EvictIdle(ctx); m > 0 {
			r.logger.DebugContext(ctx, "evicted expired stored sessions", "evicted", m, "live", s.Len())
		}
	}
	return n
}

// waitWithJitter delays the first sweep by up to 10% of the interval.
func (r *Runner) waitWithJitter(ctx context.Context) {
	maxJitter := int64(r.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		r.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}
