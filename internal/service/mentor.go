package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/optimistic"
	"github.com/guided/guided-web/internal/ports"
)

// MentorServiceOptions groups dependencies for MentorService.
type MentorServiceOptions struct {
	Backend   ports.Backend
	Engine    *optimistic.Engine
	Notifier  ports.Notifier
	Opener    ports.Opener
	Validator *Validator
	Logger    *slog.Logger
	Now       func() time.Time
}

// MentorService backs the mentor screens: request inbox and verification.
type MentorService struct {
	backend   ports.Backend
	engine    *optimistic.Engine
	opener    ports.Opener
	validator *Validator
	toast     toaster
	logger    *slog.Logger
}

// NewMentorService constructs a MentorService.
func NewMentorService(opts MentorServiceOptions) (*MentorService, error) {
	if opts.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("optimistic engine is required")
	}
	if opts.Validator == nil {
		opts.Validator = NewValidator()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.With("component", "mentor_service")
	return &MentorService{
		backend:   opts.Backend,
		engine:    opts.Engine,
		opener:    opts.Opener,
		validator: opts.Validator,
		toast:     toaster{notifier: opts.Notifier, logger: logger, now: opts.Now},
		logger:    logger,
	}, nil
}

// Overview returns the mentor's stats, upcoming sessions and mentees. It is read fresh
// on every call.
func (s *MentorService) Overview(ctx context.Context, sess Session) (mentorship.MentorOverview, error) {
	token := sess.Token()
	o, err := s.backend.MentorOverview(ctx, token)
	if err != nil {
		return mentorship.MentorOverview{}, sess.Observe(ctx, token, err)
	}
	return o, nil
}

// Inbox returns the mentor's requests, loading them when reload is set or on first use.
func (s *MentorService) Inbox(ctx context.Context, sess Session, reload bool) (mentorship.Inbox, error) {
	if st, ok := sess.Views().Inbox(); ok && !reload {
		return st.Snapshot(), nil
	}
	st, err := s.loadInbox(ctx, sess)
	if err != nil {
		return mentorship.Inbox{}, err
	}
	return st.Snapshot(), nil
}

func (s *MentorService) loadInbox(ctx context.Context, sess Session) (*optimistic.State[mentorship.Inbox], error) {
	token := sess.Token()
	b, err := s.backend.MentorRequests(ctx, token)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	return sess.Views().PutInbox(b), nil
}

func (s *MentorService) inboxState(ctx context.Context, sess Session) (*optimistic.State[mentorship.Inbox], error) {
	if st, ok := sess.Views().Inbox(); ok {
		return st, nil
	}
	return s.loadInbox(ctx, sess)
}

// Accept accepts a pending request optimistically. The calendar invite is opened only
// after the backend has confirmed the acceptance.
func (s *MentorService) Accept(
	ctx context.Context,
	sess Session,
	requestID string,
) (mentorship.Inbox, *optimistic.Pending[ports.AcceptResult], error) {
	return decide(ctx, s, sess, requestID, mentorship.RequestAccepted, decision[ports.AcceptResult]{
		name: "accept_mentorship",
		remote: func(rctx context.Context, token string) (ports.AcceptResult, error) {
			return s.backend.AcceptMentorship(rctx, token, requestID)
		},
		confirmed: func(r ports.AcceptResult) mentorship.Request { return r.Request },
		after: func(actx context.Context, r ports.AcceptResult) {
			msg := "Mentorship accepted."
			if r.SessionDetails.Date != "" {
				msg = fmt.Sprintf("Mentorship accepted. First session %s at %s.", r.SessionDetails.Date, r.SessionDetails.Time)
			}
			s.toast.success(actx, sess.ID(), msg)
			if r.CalendarURL == "" || s.opener == nil {
				return
			}
			if err := s.opener.Open(actx, sess.ID(), r.CalendarURL); err != nil {
				s.logger.WarnContext(actx, "open calendar invite failed", "error", err)
			}
		},
	})
}

// Decline declines a pending request optimistically.
func (s *MentorService) Decline(
	ctx context.Context,
	sess Session,
	requestID string,
) (mentorship.Inbox, *optimistic.Pending[mentorship.Request], error) {
	return decide(ctx, s, sess, requestID, mentorship.RequestDeclined, decision[mentorship.Request]{
		name: "decline_mentorship",
		remote: func(rctx context.Context, token string) (mentorship.Request, error) {
			return s.backend.DeclineMentorship(rctx, token, requestID)
		},
		confirmed: func(r mentorship.Request) mentorship.Request { return r },
		after: func(actx context.Context, _ mentorship.Request) {
			s.toast.success(actx, sess.ID(), "Request declined.")
		},
	})
}

type decision[R any] struct {
	name      string
	remote    func(ctx context.Context, token string) (R, error)
	confirmed func(R) mentorship.Request
	after     func(context.Context, R)
}

// decide runs the pending -> accepted/declined transition through the optimistic engine.
func decide[R any](
	ctx context.Context,
	s *MentorService,
	sess Session,
	requestID string,
	to mentorship.RequestStatus,
	d decision[R],
) (mentorship.Inbox, *optimistic.Pending[R], error) {
	st, err := s.inboxState(ctx, sess)
	if err != nil {
		return mentorship.Inbox{}, nil, err
	}

	snap := st.Snapshot()
	i := snap.Index(requestID)
	if i < 0 {
		return snap, nil, apperrors.NotFound("Request not found")
	}
	if err := mentorship.Transition(snap.Requests[i].Status, to); err != nil {
		return snap, nil, apperrors.Wrap(err, apperrors.ErrCodeRejected, fmt.Sprintf("Cannot %s: request is %s",
			verb(to), snap.Requests[i].Status))
	}

	token := sess.Token()
	p := optimistic.Apply(ctx, s.engine, st, optimistic.Mutation[mentorship.Inbox, R]{
		Name: d.name,
		Apply: func(b *mentorship.Inbox) bool {
			j := b.Index(requestID)
			if j < 0 || mentorship.Transition(b.Requests[j].Status, to) != nil {
				return false
			}
			b.Requests[j].Status = to
			return true
		},
		Revert: func(b *mentorship.Inbox) {
			if j := b.Index(requestID); j >= 0 && b.Requests[j].Status == to {
				b.Requests[j].Status = mentorship.RequestPending
			}
		},
		Remote: func(rctx context.Context) (R, error) { return d.remote(rctx, token) },
		Commit: func(b *mentorship.Inbox, r R) {
			req := d.confirmed(r)
			if j := b.Index(requestID); j >= 0 && req.ID == requestID && req.Status != "" {
				b.Requests[j] = req
			}
		},
		After:   d.after,
		Current: func() bool { return sess.IsCurrent(token) },
		Failed:  func(fctx context.Context, err error) { s.toast.failure(fctx, sess, token, err) },
	})
	if errors.Is(pendingErr(p), optimistic.ErrNotApplied) {
		return st.Snapshot(), p, apperrors.Rejected("Request is no longer pending")
	}
	return st.Snapshot(), p, nil
}

func verb(to mentorship.RequestStatus) string {
	if to == mentorship.RequestAccepted {
		return "accept"
	}
	return "decline"
}

// VerificationStatus returns the mentor's verification status.
func (s *MentorService) VerificationStatus(ctx context.Context, sess Session) (progress.VerificationStatus, error) {
	token := sess.Token()
	st, err := s.backend.VerificationStatus(ctx, token)
	if err != nil {
		return progress.VerificationStatus{}, sess.Observe(ctx, token, err)
	}
	return st, nil
}

type verificationInput struct {
	LinkedInURL string `json:"linkedinUrl" validate:"required,linkedin"`
}

// SubmitVerification sends a LinkedIn profile for admin review. A submitted application
// is pending until an admin decides.
func (s *MentorService) SubmitVerification(ctx context.Context, sess Session, linkedInURL string) (progress.VerificationStatus, error) {
	if err := s.validator.Struct(verificationInput{LinkedInURL: linkedInURL}); err != nil {
		return progress.VerificationStatus{}, err
	}
	token := sess.Token()
	st, err := s.backend.SubmitVerification(ctx, token, linkedInURL)
	if err != nil {
		return progress.VerificationStatus{}, sess.Observe(ctx, token, err)
	}
	if st.State().Submit() == progress.VerificationPending {
		st.Pending = true
	}
	s.toast.success(ctx, sess.ID(), "Verification submitted. An admin will review your profile.")
	return st, nil
}
