package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/guided/guided-web/internal/domain/mentorship"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/optimistic"
	"github.com/guided/guided-web/internal/ports"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Backend  ports.Backend
	Engine   *optimistic.Engine
	Notifier ports.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// AdminService backs the mentor verification queue.
type AdminService struct {
	backend ports.Backend
	engine  *optimistic.Engine
	toast   toaster
}

// NewAdminService constructs an AdminService.
func NewAdminService(opts AdminServiceOptions) (*AdminService, error) {
	if opts.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("optimistic engine is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.With("component", "admin_service")
	return &AdminService{
		backend: opts.Backend,
		engine:  opts.Engine,
		toast:   toaster{notifier: opts.Notifier, logger: logger, now: opts.Now},
	}, nil
}

// Queue returns the pending verifications, loading them when reload is set or on first use.
func (s *AdminService) Queue(ctx context.Context, sess Session, reload bool) (mentorship.ReviewQueue, error) {
	if st, ok := sess.Views().Queue(); ok && !reload {
		return st.Snapshot(), nil
	}
	st, err := s.loadQueue(ctx, sess)
	if err != nil {
		return mentorship.ReviewQueue{}, err
	}
	return st.Snapshot(), nil
}

func (s *AdminService) loadQueue(ctx context.Context, sess Session) (*optimistic.State[mentorship.ReviewQueue], error) {
	token := sess.Token()
	q, err := s.backend.PendingMentors(ctx, token)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	return sess.Views().PutQueue(q), nil
}

// Overview returns the platform counters and activity feed.
func (s *AdminService) Overview(ctx context.Context, sess Session) (mentorship.PlatformOverview, error) {
	token := sess.Token()
	o, err := s.backend.PlatformOverview(ctx, token)
	if err != nil {
		return mentorship.PlatformOverview{}, sess.Observe(ctx, token, err)
	}
	return o, nil
}

// Mentors lists every mentor account with its workload.
func (s *AdminService) Mentors(ctx context.Context, sess Session) ([]mentorship.MentorAccount, error) {
	token := sess.Token()
	out, err := s.backend.MentorAccounts(ctx, token)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	return out, nil
}

// Mentees lists candidate accounts. A non-empty status keeps only mentees in that status.
func (s *AdminService) Mentees(ctx context.Context, sess Session, status string) ([]mentorship.MenteeAccount, error) {
	token := sess.Token()
	out, err := s.backend.MenteeAccounts(ctx, token)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	if status == "" {
		return out, nil
	}
	return slices.DeleteFunc(out, func(m mentorship.MenteeAccount) bool { return m.Status != status }), nil
}

// Mentee returns a single candidate account.
func (s *AdminService) Mentee(ctx context.Context, sess Session, menteeID string) (mentorship.MenteeAccount, error) {
	if menteeID == "" {
		return mentorship.MenteeAccount{}, apperrors.ValidationField("menteeId", "menteeId is required")
	}
	token := sess.Token()
	m, err := s.backend.MenteeAccount(ctx, token, menteeID)
	if err != nil {
		return mentorship.MenteeAccount{}, sess.Observe(ctx, token, err)
	}
	return m, nil
}

// Verify approves a pending mentor. The entry leaves the queue immediately and returns
// to its original position if the backend refuses.
func (s *AdminService) Verify(
	ctx context.Context,
	sess Session,
	mentorID string,
) (mentorship.ReviewQueue, *optimistic.Pending[struct{}], error) {
	return s.review(ctx, sess, mentorID, "verify_mentor", "Mentor verified.", func(rctx context.Context, token string) error {
		return s.backend.VerifyMentor(rctx, token, mentorID)
	})
}

// Reject turns down a pending mentor with an optional reason.
func (s *AdminService) Reject(
	ctx context.Context,
	sess Session,
	mentorID, reason string,
) (mentorship.ReviewQueue, *optimistic.Pending[struct{}], error) {
	return s.review(ctx, sess, mentorID, "reject_mentor", "Application rejected.", func(rctx context.Context, token string) error {
		return s.backend.RejectMentor(rctx, token, mentorID, reason)
	})
}

func (s *AdminService) review(
	ctx context.Context,
	sess Session,
	mentorID, name, okMsg string,
	call func(ctx context.Context, token string) error,
) (mentorship.ReviewQueue, *optimistic.Pending[struct{}], error) {
	st, err := s.queueState(ctx, sess)
	if err != nil {
		return mentorship.ReviewQueue{}, nil, err
	}

	var (
		removed mentorship.PendingVerification
		at      int
	)
	token := sess.Token()
	p := optimistic.Apply(ctx, s.engine, st, optimistic.Mutation[mentorship.ReviewQueue, struct{}]{
		Name: name,
		Apply: func(q *mentorship.ReviewQueue) bool {
			item, i, ok := q.Remove(mentorID)
			removed, at = item, i
			return ok
		},
		Revert: func(q *mentorship.ReviewQueue) { q.Restore(removed, at) },
		Remote: func(rctx context.Context) (struct{}, error) { return struct{}{}, call(rctx, token) },
		After: func(actx context.Context, _ struct{}) {
			s.toast.success(actx, sess.ID(), okMsg)
		},
		Current: func() bool { return sess.IsCurrent(token) },
		Failed:  func(fctx context.Context, err error) { s.toast.failure(fctx, sess, token, err) },
	})
	if errors.Is(pendingErr(p), optimistic.ErrNotApplied) {
		return st.Snapshot(), p, apperrors.NotFound("Pending mentor not found")
	}
	return st.Snapshot(), p, nil
}

func (s *AdminService) queueState(ctx context.Context, sess Session) (*optimistic.State[mentorship.ReviewQueue], error) {
	if st, ok := sess.Views().Queue(); ok {
		return st, nil
	}
	return s.loadQueue(ctx, sess)
}
