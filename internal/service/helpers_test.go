package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/guided/guided-web/internal/adapters/memstore"
	domainauth "github.com/guided/guided-web/internal/domain/auth"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/optimistic"
	"github.com/guided/guided-web/internal/ports"
)

// fakeSession is a signed-in Session that records authorization failures.
type fakeSession struct {
	id       string
	token    string
	identity *domainauth.Identity
	views    Views

	mu          sync.Mutex
	invalidated bool
}

func newFakeSession(role domainauth.Role) *fakeSession {
	return &fakeSession{
		id:    "7a1c4f1e-4b8e-4a55-9a3c-2f0e7c1d9b21",
		token: "tok",
		identity: &domainauth.Identity{
			ID:    "user-1",
			Email: "ada@example.com",
			Name:  "Ada",
			Role:  role,
		},
	}
}

func (f *fakeSession) ID() string    { return f.id }
func (f *fakeSession) Views() *Views { return &f.views }

func (f *fakeSession) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// signInAs replaces the bearer, as a sign-in from another tab would.
func (f *fakeSession) signInAs(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeSession) IsCurrent(token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return token != "" && token == f.token
}

func (f *fakeSession) Identity() (domainauth.Identity, bool) {
	if f.identity == nil {
		return domainauth.Identity{}, false
	}
	return *f.identity, true
}

func (f *fakeSession) Observe(_ context.Context, token string, err error) error {
	if !apperrors.IsUnauthorized(err) {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != "" && token == f.token {
		f.invalidated = true
		f.token = ""
	}
	return err
}

func (f *fakeSession) wasInvalidated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidated
}

var _ Session = (*fakeSession)(nil)

func newTestEngine() *optimistic.Engine {
	return optimistic.NewEngine(optimistic.EngineOptions{Timeout: 2 * time.Second})
}

func newTestStore() *memstore.Store {
	return memstore.New(memstore.Options{})
}

// drainKinds returns the kinds of queued notifications for sid.
func drainKinds(t *testing.T, q ports.NotificationQueue, sid string) []ports.NotificationKind {
	t.Helper()
	ns, err := q.Drain(context.Background(), sid)
	require.NoError(t, err)
	out := make([]ports.NotificationKind, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind)
	}
	return out
}

// signedToken returns an HS256 token expiring at exp.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}
