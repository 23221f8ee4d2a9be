// Package memstore provides in-memory durable client storage for single-process
// deployments and tests. Contents do not survive a restart.
package memstore

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/guided/guided-web/internal/ports"
)

// Store implements ports.TokenStore, ports.DraftStore and ports.NotificationQueue.
// Concurrency: methods are safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	tokens map[string]tokenEntry
	drafts map[string][]byte
	queues map[string][]ports.Notification

	defaultTTL time.Duration
	maxQueue   int
	now        func() time.Time // injectable clock for tests
}

type tokenEntry struct {
	token  string
	expiry time.Time // zero means no expiry
}

var (
	_ ports.TokenStore        = (*Store)(nil)
	_ ports.DraftStore        = (*Store)(nil)
	_ ports.NotificationQueue = (*Store)(nil)
)

// Options configures a Store.
type Options struct {
	DefaultTTL time.Duration
	MaxQueue   int
	Now        func() time.Time
}

// New creates an empty Store.
func New(opts Options) *Store {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 24 * time.Hour
	}
	if opts.MaxQueue <= 0 {
		opts.MaxQueue = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		tokens:     make(map[string]tokenEntry),
		drafts:     make(map[string][]byte),
		queues:     make(map[string][]ports.Notification),
		defaultTTL: opts.DefaultTTL,
		maxQueue:   opts.MaxQueue,
		now:        opts.Now,
	}
}

var errEmptySessionID = errors.New("session ID cannot be empty")

func (s *Store) LoadToken(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[sessionID]
	if !ok {
		return "", ports.ErrNotFound
	}
	if !e.expiry.IsZero() && !s.now().Before(e.expiry) {
		delete(s.tokens, sessionID)
		return "", ports.ErrNotFound
	}
	return e.token, nil
}

func (s *Store) SaveToken(_ context.Context, sessionID, token string, ttl time.Duration) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID] = tokenEntry{token: token, expiry: s.now().Add(ttl)}
	return nil
}

func (s *Store) DeleteToken(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}

func (s *Store) LoadDraft(_ context.Context, sessionID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return slices.Clone(d), nil
}

func (s *Store) SaveDraft(_ context.Context, sessionID string, data []byte) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[sessionID] = slices.Clone(data)
	return nil
}

func (s *Store) DeleteDraft(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

func (s *Store) Notify(_ context.Context, sessionID string, n ports.Notification) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q := append(s.queues[sessionID], n)
	if over := len(q) - s.maxQueue; over > 0 {
		q = q[over:]
	}
	s.queues[sessionID] = q
	return nil
}

func (s *Store) Drain(_ context.Context, sessionID string) ([]ports.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[sessionID]
	delete(s.queues, sessionID)
	return q, nil
}

// EvictIdle drops sessions whose token has expired, along with their drafts and
// queued notifications, and returns how many were removed.
func (s *Store) EvictIdle(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.tokens {
		if e.expiry.IsZero() || now.Before(e.expiry) {
			continue
		}
		delete(s.tokens, id)
		delete(s.drafts, id)
		delete(s.queues, id)
		n++
	}
	return n
}

// Len returns the number of sessions holding a token.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
