package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/ports"
)

// SessionRegistryOptions groups dependencies for SessionRegistry.
type SessionRegistryOptions struct {
	Backend   ports.Backend
	Tokens    ports.TokenStore
	Drafts    ports.DraftStore
	Validator *Validator
	TokenTTL  time.Duration
	// IdleTTL is how long an unused store stays in memory. The durable token outlives it.
	IdleTTL time.Duration
	Logger  *slog.Logger
	Metrics metrics.Sink
	Now     func() time.Time
}

// SessionRegistry maps browser session ids to their SessionStore.
// Stores are created lazily and evicted when idle.
type SessionRegistry struct {
	opts SessionRegistryOptions

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	store    *SessionStore
	lastUsed time.Time
}

// NewSessionRegistry constructs a SessionRegistry.
func NewSessionRegistry(opts SessionRegistryOptions) (*SessionRegistry, error) {
	if opts.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("token store is required")
	}
	if opts.Validator == nil {
		opts.Validator = NewValidator()
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionRegistry{opts: opts, entries: make(map[string]*registryEntry)}, nil
}

// Acquire returns the store for sessionID, creating it (and starting its restore) on first use.
// An empty or malformed id is replaced with a fresh one; the returned id is authoritative.
func (r *SessionRegistry) Acquire(ctx context.Context, sessionID string) (*SessionStore, string, error) {
	if !ValidSessionID(sessionID) {
		sessionID = NewSessionID()
	}

	r.mu.Lock()
	e, ok := r.entries[sessionID]
	if ok {
		e.lastUsed = r.opts.Now()
		r.mu.Unlock()
		return e.store, sessionID, nil
	}
	store, err := NewSessionStore(SessionStoreOptions{
		SessionID: sessionID,
		Backend:   r.opts.Backend,
		Tokens:    r.opts.Tokens,
		Drafts:    r.opts.Drafts,
		Validator: r.opts.Validator,
		TokenTTL:  r.opts.TokenTTL,
		Logger:    r.opts.Logger,
		Metrics:   r.opts.Metrics,
		Now:       r.opts.Now,
	})
	if err != nil {
		r.mu.Unlock()
		return nil, "", err
	}
	r.entries[sessionID] = &registryEntry{store: store, lastUsed: r.opts.Now()}
	r.mu.Unlock()

	store.StartRestore(ctx)
	return store, sessionID, nil
}

// Lookup returns an existing store without creating one.
func (r *SessionRegistry) Lookup(sessionID string) (*SessionStore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// EvictIdle drops stores unused for longer than the idle TTL and returns how many were removed.
func (r *SessionRegistry) EvictIdle(_ context.Context) int {
	cutoff := r.opts.Now().Add(-r.opts.IdleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of live stores.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// NewSessionID creates a random browser session id.
func NewSessionID() string {
	// UUIDs are URL-safe and have good entropy.
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like an id minted by NewSessionID.
func ValidSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
