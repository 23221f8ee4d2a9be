package auth

// Package auth contains simple hand-written test doubles for the session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/guided/guided-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore = (*MemoryTokenStore)(nil)
	_ ports.Opener     = (*RecordingOpener)(nil)
)

// ErrInjected is returned by doubles configured to fail.
var ErrInjected = errors.New("injected failure")

// MemoryTokenStore is an in-memory token store whose operations can be made to fail.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string

	// FailLoad, FailSave and FailDelete make the matching operation return ErrInjected.
	FailLoad   bool
	FailSave   bool
	FailDelete bool

	// Deletes counts DeleteToken calls, successful or not.
	Deletes int

	// BeforeSave, when set, runs at the start of every SaveToken. Tests use it to hold a
	// write in flight.
	BeforeSave func(sessionID, token string)
}

// NewMemoryTokenStore creates an empty MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (m *MemoryTokenStore) LoadToken(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoad {
		return "", ErrInjected
	}
	tok, ok := m.tokens[sessionID]
	if !ok {
		return "", ports.ErrNotFound
	}
	return tok, nil
}

func (m *MemoryTokenStore) SaveToken(_ context.Context, sessionID, token string, _ time.Duration) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if m.BeforeSave != nil {
		m.BeforeSave(sessionID, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave {
		return ErrInjected
	}
	m.tokens[sessionID] = token
	return nil
}

func (m *MemoryTokenStore) DeleteToken(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.FailDelete {
		return ErrInjected
	}
	delete(m.tokens, sessionID)
	return nil
}

// Has reports whether a token is stored for sessionID.
func (m *MemoryTokenStore) Has(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[sessionID]
	return ok
}

// OpenCall records one Open invocation.
type OpenCall struct {
	SessionID string
	URL       string
}

// RecordingOpener records every link it is asked to open.
type RecordingOpener struct {
	mu    sync.Mutex
	calls []OpenCall

	// OnOpen, when set, runs before the call is recorded.
	OnOpen func(sessionID, url string)
	// Err is returned from every Open call.
	Err error
}

func (o *RecordingOpener) Open(_ context.Context, sessionID, url string) error {
	if o.OnOpen != nil {
		o.OnOpen(sessionID, url)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, OpenCall{SessionID: sessionID, URL: url})
	return o.Err
}

// Calls returns a copy of the recorded calls.
func (o *RecordingOpener) Calls() []OpenCall {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]OpenCall, len(o.calls))
	copy(out, o.calls)
	return out
}
