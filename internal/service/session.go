package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/ports"
)

// ErrSuperseded is reported when a sign-in response arrives after a newer
// sign-in, sign-up or sign-out has started.
var ErrSuperseded = errors.New("superseded by a newer sign-in")

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	SessionID string
	Backend   ports.Backend
	Tokens    ports.TokenStore
	Drafts    ports.DraftStore
	Validator *Validator
	// TokenTTL bounds durable token storage when the token carries no exp claim.
	TokenTTL time.Duration
	Logger   *slog.Logger
	Metrics  metrics.Sink
	Now      func() time.Time
}

// SessionStore owns one browser session's identity and bearer token.
//
// Every operation reports failure as a value; nothing here panics or returns raw
// transport errors to screens. State is read by the access gate via Snapshot.
type SessionStore struct {
	id        string
	backend   ports.Backend
	tokens    ports.TokenStore
	drafts    ports.DraftStore
	validator *Validator
	tokenTTL  time.Duration
	logger    *slog.Logger
	metrics   metrics.Sink
	now       func() time.Time

	mu       sync.Mutex
	token    string
	identity *domainauth.Identity
	restored bool
	// gen increments on every Login, Signup and Logout; responses from older generations are dropped.
	gen uint64

	// persistMu orders writes to the token store. mu is never held across store I/O.
	persistMu sync.Mutex

	views Views

	restoreGroup singleflight.Group
	restoreDone  chan struct{}
	doneOnce     sync.Once
}

// NewSessionStore constructs a SessionStore in the loading state.
func NewSessionStore(opts SessionStoreOptions) (*SessionStore, error) {
	if opts.SessionID == "" {
		return nil, errors.New("session ID is required")
	}
	if opts.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("token store is required")
	}
	if opts.Validator == nil {
		opts.Validator = NewValidator()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionStore{
		id:          opts.SessionID,
		backend:     opts.Backend,
		tokens:      opts.Tokens,
		drafts:      opts.Drafts,
		validator:   opts.Validator,
		tokenTTL:    opts.TokenTTL,
		logger:      opts.Logger.With("session_id", opts.SessionID),
		metrics:     opts.Metrics,
		now:         opts.Now,
		restoreDone: make(chan struct{}),
	}, nil
}

// ID returns the browser session id this store belongs to.
func (s *SessionStore) ID() string { return s.id }

// Snapshot returns the state the access gate decides on.
func (s *SessionStore) Snapshot() domainauth.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domainauth.SessionState{Loading: !s.restored}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
	}
	return st
}

// Views returns the session's screen view models.
func (s *SessionStore) Views() *Views { return &s.views }

// Token returns the current bearer token, or "" when signed out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns a copy of the signed-in identity.
func (s *SessionStore) Identity() (domainauth.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domainauth.Identity{}, false
	}
	return *s.identity, true
}

// Restored is closed once the initial restore has finished.
func (s *SessionStore) Restored() <-chan struct{} { return s.restoreDone }

// WaitRestored waits for the initial restore for at most budget.
// It reports whether the restore has finished.
func (s *SessionStore) WaitRestored(ctx context.Context, budget time.Duration) bool {
	if budget <= 0 {
		select {
		case <-s.restoreDone:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(budget)
	defer t.Stop()
	select {
	case <-s.restoreDone:
		return true
	case <-t.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// StartRestore begins the initial restore in the background if it has not run yet.
func (s *SessionStore) StartRestore(ctx context.Context) {
	s.mu.Lock()
	done := s.restored
	s.mu.Unlock()
	if done {
		return
	}
	go s.Restore(context.WithoutCancel(ctx))
}

// Restore revalidates the persisted token once per store. Concurrent callers share one attempt.
func (s *SessionStore) Restore(ctx context.Context) domainauth.SessionState {
	_, _, _ = s.restoreGroup.Do("restore", func() (any, error) {
		s.mu.Lock()
		done := s.restored
		gen := s.gen
		s.mu.Unlock()
		if !done {
			s.restore(context.WithoutCancel(ctx), gen)
		}
		return nil, nil
	})
	return s.Snapshot()
}

func (s *SessionStore) restore(ctx context.Context, gen uint64) {
	result := metrics.ResultSuccess
	defer func() {
		s.record(result)
		s.finishRestore()
	}()

	token, err := s.tokens.LoadToken(ctx, s.id)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.logger.WarnContext(ctx, "load persisted token failed", "error", err)
			result = metrics.ResultError
		}
		s.commitRestore(gen, "", nil)
		return
	}

	if exp, ok := tokenExpiry(token); ok && !exp.After(s.now()) {
		s.logger.InfoContext(ctx, "persisted token expired", "expired_at", exp)
		if s.commitRestore(gen, "", nil) {
			s.dropToken(ctx, gen)
		}
		result = "expired"
		return
	}

	// The token is attached optimistically while it is being revalidated.
	s.mu.Lock()
	if s.gen == gen {
		s.token = token
	}
	s.mu.Unlock()

	me, err := s.backend.Me(ctx, token)
	if err != nil {
		s.logger.InfoContext(ctx, "persisted token rejected",
			"error", err,
			"error_code", apperrors.GetCode(err))
		if s.commitRestore(gen, "", nil) {
			s.dropToken(ctx, gen)
		}
		result = metrics.ResultError
		return
	}
	s.commitRestore(gen, token, &me)
}

// commitRestore applies the restore outcome unless a newer sign-in or sign-out has happened.
func (s *SessionStore) commitRestore(gen uint64, token string, id *domainauth.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restored = true
	if s.gen != gen {
		return false
	}
	s.token = token
	s.identity = id
	return true
}

func (s *SessionStore) finishRestore() {
	s.doneOnce.Do(func() { close(s.restoreDone) })
}

func (s *SessionStore) record(result string) {
	if s.metrics != nil {
		s.metrics.SessionRestored(result)
	}
}

// Login authenticates with email and password. Token and identity are set together or not at all.
func (s *SessionStore) Login(ctx context.Context, email, password string) domainauth.AuthResult {
	creds := domainauth.Credentials{Email: email, Password: password}
	if err := s.validator.Struct(creds); err != nil {
		return failure(err)
	}
	gen := s.nextGen()
	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		s.logger.InfoContext(ctx, "login failed", "error_code", apperrors.GetCode(err))
		return failure(err)
	}
	return s.commitAuth(ctx, gen, resp)
}

// Signup registers a new account and signs it in. The LinkedIn URL is only sent for mentors.
func (s *SessionStore) Signup(ctx context.Context, in domainauth.SignupInput) domainauth.AuthResult {
	if in.Role == "" {
		in.Role = domainauth.RoleCandidate
	}
	in.Role = domainauth.ParseRole(string(in.Role))
	if in.Role != domainauth.RoleMentor {
		in.LinkedInURL = ""
	}
	if err := s.validator.Struct(in); err != nil {
		return failure(err)
	}
	gen := s.nextGen()
	resp, err := s.backend.Signup(ctx, in)
	if err != nil {
		s.logger.InfoContext(ctx, "signup failed", "error_code", apperrors.GetCode(err))
		return failure(err)
	}
	return s.commitAuth(ctx, gen, resp)
}

func (s *SessionStore) commitAuth(ctx context.Context, gen uint64, resp domainauth.AuthResponse) domainauth.AuthResult {
	if resp.Token == "" {
		return domainauth.AuthResult{Error: "Sign-in failed. Please try again."}
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if !s.isGen(gen) {
		s.logger.InfoContext(ctx, "dropping stale sign-in response")
		return domainauth.AuthResult{Error: ErrSuperseded.Error()}
	}
	if err := s.tokens.SaveToken(ctx, s.id, resp.Token, s.ttlFor(resp.Token)); err != nil {
		s.logger.ErrorContext(ctx, "persist token failed", "error", err)
		return domainauth.AuthResult{Error: apperrors.UserMessage(apperrors.Unavailable(err))}
	}

	user := resp.User
	s.mu.Lock()
	if s.gen != gen {
		current := s.token
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "dropping sign-in response superseded while persisting")
		s.persistCurrent(ctx, current)
		return domainauth.AuthResult{Error: ErrSuperseded.Error()}
	}
	s.views.Reset()
	s.token = resp.Token
	s.identity = &user
	s.restored = true
	s.mu.Unlock()
	s.finishRestore()

	out := user
	return domainauth.AuthResult{Success: true, User: &out}
}

// persistCurrent rewrites the token store to match memory after a superseded write.
// Callers hold persistMu.
func (s *SessionStore) persistCurrent(ctx context.Context, token string) {
	var err error
	if token == "" {
		err = s.tokens.DeleteToken(ctx, s.id)
	} else {
		err = s.tokens.SaveToken(ctx, s.id, token, s.ttlFor(token))
	}
	if err != nil {
		s.logger.WarnContext(ctx, "resyncing persisted token failed", "error", err)
	}
}

// Logout clears token, identity and onboarding draft. It is idempotent.
func (s *SessionStore) Logout(ctx context.Context) {
	s.clear(ctx, "")
	s.logger.InfoContext(ctx, "signed out")
}

// Invalidate ends the session after the backend rejected token. It does nothing when the
// session has meanwhile signed out or signed in with a different token, and reports
// whether the session was ended.
func (s *SessionStore) Invalidate(ctx context.Context, token string) bool {
	if token == "" || !s.clear(ctx, token) {
		return false
	}
	s.logger.WarnContext(ctx, "session invalidated after authorization failure")
	return true
}

// clear signs the session out. A non-empty match limits it to the session still holding
// that token.
func (s *SessionStore) clear(ctx context.Context, match string) bool {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	if match != "" && s.token != match {
		s.mu.Unlock()
		return false
	}
	s.gen++
	gen := s.gen
	s.token = ""
	s.identity = nil
	s.restored = true
	s.views.Reset()
	s.mu.Unlock()
	s.finishRestore()

	var errs []error
	s.persistMu.Lock()
	// A sign-in that started after this one owns the token key now.
	if s.isGen(gen) {
		if err := s.tokens.DeleteToken(ctx, s.id); err != nil {
			errs = append(errs, fmt.Errorf("delete token: %w", err))
		}
	}
	s.persistMu.Unlock()
	if s.drafts != nil {
		if err := s.drafts.DeleteDraft(ctx, s.id); err != nil {
			errs = append(errs, fmt.Errorf("delete draft: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.WarnContext(ctx, "clearing durable session state failed", "error", err)
	}
	return true
}

// Observe inspects the error of a backend call made with token and invalidates the
// session on authorization failures. It returns err unchanged.
func (s *SessionStore) Observe(ctx context.Context, token string, err error) error {
	if !apperrors.IsUnauthorized(err) {
		return err
	}
	if !s.Invalidate(ctx, token) {
		s.logger.InfoContext(ctx, "ignoring authorization failure for a replaced token")
	}
	return err
}

// IsCurrent reports whether token is still this session's bearer.
func (s *SessionStore) IsCurrent(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token != "" && s.token == token
}

func (s *SessionStore) isGen(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *SessionStore) nextGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// dropToken deletes the persisted token unless a newer sign-in has replaced it.
func (s *SessionStore) dropToken(ctx context.Context, gen uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if !s.isGen(gen) {
		return
	}
	if err := s.tokens.DeleteToken(ctx, s.id); err != nil {
		s.logger.WarnContext(ctx, "delete persisted token failed", "error", err)
	}
}

// ttlFor keeps the durable token no longer than the token itself is valid.
func (s *SessionStore) ttlFor(token string) time.Duration {
	if exp, ok := tokenExpiry(token); ok {
		if d := exp.Sub(s.now()); d > 0 && d < s.tokenTTL {
			return d
		}
	}
	return s.tokenTTL
}

// tokenExpiry reads the exp claim without verifying the signature; the backend remains
// the only authority on validity.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func failure(err error) domainauth.AuthResult {
	return domainauth.AuthResult{Error: apperrors.UserMessage(err)}
}
