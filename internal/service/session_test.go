package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guided/guided-web/internal/adapters/memstore"
	domainauth "github.com/guided/guided-web/internal/domain/auth"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/mocks"
	mockauth "github.com/guided/guided-web/internal/mocks/auth"
	"github.com/guided/guided-web/internal/ports"
)

const testSID = "0b8f0a43-8f43-4c41-9d55-5f3bb3d3a1e0"

func newTestSessionStore(t *testing.T, backend ports.Backend, store *memstore.Store) *SessionStore {
	t.Helper()
	s, err := NewSessionStore(SessionStoreOptions{
		SessionID: testSID,
		Backend:   backend,
		Tokens:    store,
		Drafts:    store,
	})
	require.NoError(t, err)
	return s
}

func TestNewSessionStore_RequiresDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	_, err := NewSessionStore(SessionStoreOptions{Backend: backend, Tokens: newTestStore()})
	require.Error(t, err)
	_, err = NewSessionStore(SessionStoreOptions{SessionID: testSID, Tokens: newTestStore()})
	require.Error(t, err)
	_, err = NewSessionStore(SessionStoreOptions{SessionID: testSID, Backend: backend})
	require.Error(t, err)
}

func TestSessionStore_StartsLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := newTestSessionStore(t, mocks.NewMockBackend(ctrl), newTestStore())

	st := s.Snapshot()
	assert.True(t, st.Loading)
	assert.False(t, st.Authenticated())
	assert.False(t, s.WaitRestored(context.Background(), 0))
}

func TestSessionStore_Restore(t *testing.T) {
	ctx := context.Background()
	me := domainauth.Identity{ID: "u1", Email: "ada@example.com", Name: "Ada", Role: domainauth.RoleCandidate}

	t.Run("no persisted token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := newTestSessionStore(t, mocks.NewMockBackend(ctrl), newTestStore())

		st := s.Restore(ctx)
		assert.False(t, st.Loading)
		assert.Nil(t, st.Identity)
		assert.True(t, s.WaitRestored(ctx, 0))
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		store := newTestStore()
		tok := signedToken(t, time.Now().Add(time.Hour))
		require.NoError(t, store.SaveToken(ctx, testSID, tok, time.Hour))
		backend.EXPECT().Me(gomock.Any(), tok).Return(me, nil)

		s := newTestSessionStore(t, backend, store)
		st := s.Restore(ctx)

		require.True(t, st.Authenticated())
		assert.Equal(t, me, *st.Identity)
		assert.Equal(t, tok, s.Token())
	})

	t.Run("expired token is dropped without a backend call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := newTestStore()
		tok := signedToken(t, time.Now().Add(-time.Minute))
		require.NoError(t, store.SaveToken(ctx, testSID, tok, time.Hour))

		s := newTestSessionStore(t, mocks.NewMockBackend(ctrl), store)
		st := s.Restore(ctx)

		assert.False(t, st.Loading)
		assert.Nil(t, st.Identity)
		assert.Empty(t, s.Token())
		_, err := store.LoadToken(ctx, testSID)
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("rejected token is dropped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		store := newTestStore()
		tok := signedToken(t, time.Now().Add(time.Hour))
		require.NoError(t, store.SaveToken(ctx, testSID, tok, time.Hour))
		backend.EXPECT().Me(gomock.Any(), tok).Return(domainauth.Identity{}, apperrors.Unauthorized("expired"))

		s := newTestSessionStore(t, backend, store)
		st := s.Restore(ctx)

		assert.Nil(t, st.Identity)
		assert.Empty(t, s.Token())
		_, err := store.LoadToken(ctx, testSID)
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("runs once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		store := newTestStore()
		tok := signedToken(t, time.Now().Add(time.Hour))
		require.NoError(t, store.SaveToken(ctx, testSID, tok, time.Hour))
		backend.EXPECT().Me(gomock.Any(), tok).Return(me, nil).Times(1)

		s := newTestSessionStore(t, backend, store)
		s.Restore(ctx)
		s.Restore(ctx)
		s.StartRestore(ctx)
		assert.True(t, s.WaitRestored(ctx, time.Second))
	})
}

func TestSessionStore_Login(t *testing.T) {
	ctx := context.Background()
	user := domainauth.Identity{ID: "u1", Email: "ada@example.com", Name: "Ada", Role: domainauth.RoleMentor}

	t.Run("success persists token and identity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		store := newTestStore()
		tok := signedToken(t, time.Now().Add(time.Hour))
		backend.EXPECT().
			Login(gomock.Any(), domainauth.Credentials{Email: "ada@example.com", Password: "pw"}).
			Return(domainauth.AuthResponse{Token: tok, User: user}, nil)

		s := newTestSessionStore(t, backend, store)
		res := s.Login(ctx, "ada@example.com", "pw")

		require.True(t, res.Success)
		assert.Equal(t, user, *res.User)
		assert.True(t, s.Snapshot().Authenticated())
		assert.True(t, s.WaitRestored(ctx, 0))
		saved, err := store.LoadToken(ctx, testSID)
		require.NoError(t, err)
		assert.Equal(t, tok, saved)
	})

	t.Run("invalid input never reaches the backend", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := newTestSessionStore(t, mocks.NewMockBackend(ctrl), newTestStore())

		res := s.Login(ctx, "not-an-email", "pw")
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "email")
	})

	t.Run("backend rejection leaves session signed out", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		backend.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{}, apperrors.Unauthorized("Invalid email or password"))

		s := newTestSessionStore(t, backend, newTestStore())
		res := s.Login(ctx, "ada@example.com", "wrong")

		assert.False(t, res.Success)
		assert.Equal(t, "Invalid email or password", res.Error)
		assert.Nil(t, res.User)
		_, ok := s.Identity()
		assert.False(t, ok)
	})

	t.Run("response without token fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		backend.EXPECT().Login(gomock.Any(), gomock.Any()).Return(domainauth.AuthResponse{User: user}, nil)

		s := newTestSessionStore(t, backend, newTestStore())
		res := s.Login(ctx, "ada@example.com", "pw")
		assert.False(t, res.Success)
		assert.Empty(t, s.Token())
	})
}

func TestSessionStore_StaleLoginIsSuperseded(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	store := newTestStore()

	started := make(chan struct{})
	release := make(chan struct{})
	backend.EXPECT().Login(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domainauth.Credentials) (domainauth.AuthResponse, error) {
			close(started)
			<-release
			return domainauth.AuthResponse{Token: "late", User: domainauth.Identity{ID: "u1"}}, nil
		})

	s := newTestSessionStore(t, backend, store)
	results := make(chan domainauth.AuthResult, 1)
	go func() { results <- s.Login(ctx, "ada@example.com", "pw") }()

	<-started
	s.Logout(ctx)
	close(release)

	res := <-results
	assert.False(t, res.Success)
	assert.Equal(t, ErrSuperseded.Error(), res.Error)
	assert.Empty(t, s.Token())
	_, err := store.LoadToken(ctx, testSID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("candidate signup drops linkedin and defaults role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		backend.EXPECT().Signup(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in domainauth.SignupInput) (domainauth.AuthResponse, error) {
				assert.Equal(t, domainauth.RoleCandidate, in.Role)
				assert.Empty(t, in.LinkedInURL)
				return domainauth.AuthResponse{
					Token: "tok",
					User:  domainauth.Identity{ID: "u2", Email: in.Email, Name: in.Name, Role: in.Role},
				}, nil
			})

		s := newTestSessionStore(t, backend, newTestStore())
		res := s.Signup(ctx, domainauth.SignupInput{
			Email:       "grace@example.com",
			Password:    "secret1",
			Name:        "Grace",
			LinkedInURL: "https://www.linkedin.com/in/grace",
		})
		require.True(t, res.Success)
		assert.Equal(t, domainauth.RoleCandidate, res.User.Role)
	})

	t.Run("mentor linkedin must be a profile url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := newTestSessionStore(t, mocks.NewMockBackend(ctrl), newTestStore())

		res := s.Signup(ctx, domainauth.SignupInput{
			Email:       "grace@example.com",
			Password:    "secret1",
			Name:        "Grace",
			Role:        domainauth.RoleMentor,
			LinkedInURL: "https://example.com/grace",
		})
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "LinkedIn")
	})

	t.Run("conflict is reported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		backend.EXPECT().Signup(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{}, apperrors.Rejected("Email already registered"))

		s := newTestSessionStore(t, backend, newTestStore())
		res := s.Signup(ctx, domainauth.SignupInput{
			Email:    "grace@example.com",
			Password: "secret1",
			Name:     "Grace",
		})
		assert.False(t, res.Success)
		assert.Equal(t, "Email already registered", res.Error)
	})
}

func TestSessionStore_LogoutClearsDurableState(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	store := newTestStore()
	backend.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(domainauth.AuthResponse{Token: "tok", User: domainauth.Identity{ID: "u1"}}, nil)

	s := newTestSessionStore(t, backend, store)
	require.True(t, s.Login(ctx, "ada@example.com", "pw").Success)
	require.NoError(t, store.SaveDraft(ctx, testSID, []byte(`{"careerGoal":"x"}`)))

	s.Logout(ctx)
	s.Logout(ctx)

	st := s.Snapshot()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Identity)
	_, err := store.LoadToken(ctx, testSID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = store.LoadDraft(ctx, testSID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_ObserveInvalidatesOnUnauthorized(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(domainauth.AuthResponse{Token: "tok", User: domainauth.Identity{ID: "u1"}}, nil)

	s := newTestSessionStore(t, backend, newTestStore())
	require.True(t, s.Login(ctx, "ada@example.com", "pw").Success)

	notFound := apperrors.NotFound("missing")
	assert.Same(t, notFound, s.Observe(ctx, "tok", notFound))
	assert.Equal(t, "tok", s.Token())

	unauth := apperrors.Unauthorized("expired")
	assert.Same(t, unauth, s.Observe(ctx, "tok", unauth))
	assert.Empty(t, s.Token())
	_, ok := s.Identity()
	assert.False(t, ok)
	assert.False(t, s.IsCurrent(""))
}

func TestSessionStore_ObserveIgnoresReplacedToken(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	gomock.InOrder(
		backend.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{Token: "old", User: domainauth.Identity{ID: "u1"}}, nil),
		backend.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{Token: "new", User: domainauth.Identity{ID: "u1"}}, nil),
	)
	store := newTestStore()
	s := newTestSessionStore(t, backend, store)

	require.True(t, s.Login(ctx, "ada@example.com", "pw").Success)
	require.True(t, s.Login(ctx, "ada@example.com", "pw").Success)
	assert.False(t, s.IsCurrent("old"))

	// A request sent with the old token is rejected after the second sign-in.
	unauth := apperrors.Unauthorized("expired")
	assert.Same(t, unauth, s.Observe(ctx, "old", unauth))
	assert.False(t, s.Invalidate(ctx, "old"))

	assert.Equal(t, "new", s.Token())
	assert.True(t, s.Snapshot().Authenticated())
	persisted, err := store.LoadToken(ctx, testSID)
	require.NoError(t, err)
	assert.Equal(t, "new", persisted)
}

func TestSessionStore_SnapshotDoesNotWaitOnTokenWrites(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(domainauth.AuthResponse{Token: "tok", User: domainauth.Identity{ID: "u1"}}, nil)

	saving := make(chan struct{})
	release := make(chan struct{})
	tokens := mockauth.NewMemoryTokenStore()
	tokens.BeforeSave = func(string, string) {
		close(saving)
		<-release
	}
	s, err := NewSessionStore(SessionStoreOptions{SessionID: testSID, Backend: backend, Tokens: tokens})
	require.NoError(t, err)

	done := make(chan domainauth.AuthResult, 1)
	go func() { done <- s.Login(ctx, "ada@example.com", "pw") }()
	<-saving

	snapped := make(chan domainauth.SessionState, 1)
	go func() { snapped <- s.Snapshot() }()
	select {
	case st := <-snapped:
		assert.False(t, st.Authenticated())
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked behind the token write")
	}

	close(release)
	res := <-done
	assert.True(t, res.Success)
	assert.True(t, s.Snapshot().Authenticated())
}

func TestSessionStore_LogoutDuringTokenWriteWins(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(domainauth.AuthResponse{Token: "tok", User: domainauth.Identity{ID: "u1"}}, nil)

	saving := make(chan struct{})
	release := make(chan struct{})
	tokens := mockauth.NewMemoryTokenStore()
	tokens.BeforeSave = func(string, string) {
		close(saving)
		<-release
	}
	s, err := NewSessionStore(SessionStoreOptions{SessionID: testSID, Backend: backend, Tokens: tokens})
	require.NoError(t, err)

	done := make(chan domainauth.AuthResult, 1)
	go func() { done <- s.Login(ctx, "ada@example.com", "pw") }()
	<-saving

	loggedOut := make(chan struct{})
	go func() {
		s.Logout(ctx)
		close(loggedOut)
	}()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.gen == 2
	}, time.Second, 5*time.Millisecond)

	close(release)
	res := <-done
	<-loggedOut

	assert.False(t, res.Success)
	assert.Equal(t, ErrSuperseded.Error(), res.Error)
	assert.False(t, s.Snapshot().Authenticated())
	assert.False(t, tokens.Has(testSID))
}

func TestSessionStore_TokenTTLFollowsExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)
	s, err := NewSessionStore(SessionStoreOptions{
		SessionID: testSID,
		Backend:   mocks.NewMockBackend(ctrl),
		Tokens:    newTestStore(),
		TokenTTL:  24 * time.Hour,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, s.ttlFor(signedToken(t, now.Add(2*time.Hour))))
	assert.Equal(t, 24*time.Hour, s.ttlFor(signedToken(t, now.Add(48*time.Hour))))
	assert.Equal(t, 24*time.Hour, s.ttlFor("opaque"))
}

func TestSessionStore_TokenStoreFailures(t *testing.T) {
	ctx := context.Background()
	user := domainauth.Identity{ID: "u1", Email: "ada@example.com", Name: "Ada", Role: domainauth.RoleCandidate}

	newStore := func(t *testing.T, backend ports.Backend, tokens *mockauth.MemoryTokenStore) *SessionStore {
		t.Helper()
		s, err := NewSessionStore(SessionStoreOptions{SessionID: testSID, Backend: backend, Tokens: tokens})
		require.NoError(t, err)
		return s
	}

	t.Run("save failure leaves token and identity unset", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		backend.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{Token: signedToken(t, time.Now().Add(time.Hour)), User: user}, nil)
		tokens := mockauth.NewMemoryTokenStore()
		tokens.FailSave = true

		s := newStore(t, backend, tokens)
		res := s.Login(ctx, "ada@example.com", "pw")

		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Error)
		assert.Empty(t, s.Token())
		_, ok := s.Identity()
		assert.False(t, ok)
		assert.False(t, tokens.Has(testSID))
	})

	t.Run("load failure restores as signed out", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tokens := mockauth.NewMemoryTokenStore()
		tokens.FailLoad = true

		s := newStore(t, mocks.NewMockBackend(ctrl), tokens)
		st := s.Restore(ctx)

		assert.False(t, st.Loading)
		assert.False(t, st.Authenticated())
	})

	t.Run("logout clears memory even when delete fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := mocks.NewMockBackend(ctrl)
		backend.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(domainauth.AuthResponse{Token: signedToken(t, time.Now().Add(time.Hour)), User: user}, nil)
		tokens := mockauth.NewMemoryTokenStore()

		s := newStore(t, backend, tokens)
		require.True(t, s.Login(ctx, "ada@example.com", "pw").Success)

		tokens.FailDelete = true
		s.Logout(ctx)

		assert.Empty(t, s.Token())
		assert.False(t, s.Snapshot().Authenticated())
		assert.Equal(t, 1, tokens.Deletes)
	})
}
