package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/optimistic"
	"github.com/guided/guided-web/internal/ports"
)

// CandidateServiceOptions groups dependencies for CandidateService.
type CandidateServiceOptions struct {
	Backend   ports.Backend
	Engine    *optimistic.Engine
	Drafts    ports.DraftStore
	Notifier  ports.Notifier
	Validator *Validator
	Logger    *slog.Logger
	Now       func() time.Time
}

// CandidateService backs the candidate screens: onboarding, roadmap, mentor discovery,
// checkout and the workflow dashboard.
type CandidateService struct {
	backend   ports.Backend
	engine    *optimistic.Engine
	drafts    ports.DraftStore
	validator *Validator
	toast     toaster
	logger    *slog.Logger
}

// NewCandidateService constructs a CandidateService.
func NewCandidateService(opts CandidateServiceOptions) (*CandidateService, error) {
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
	logger := opts.Logger.With("component", "candidate_service")
	return &CandidateService{
		backend:   opts.Backend,
		engine:    opts.Engine,
		drafts:    opts.Drafts,
		validator: opts.Validator,
		toast:     toaster{notifier: opts.Notifier, logger: logger, now: opts.Now},
		logger:    logger,
	}, nil
}

// Status returns the candidate's progress flags.
func (s *CandidateService) Status(ctx context.Context, sess Session) (progress.Flags, error) {
	token := sess.Token()
	flags, err := s.backend.CandidateStatus(ctx, token)
	if err != nil {
		return progress.Flags{}, sess.Observe(ctx, token, err)
	}
	return flags, nil
}

// Draft returns the persisted onboarding form, if any.
func (s *CandidateService) Draft(ctx context.Context, sess Session) (mentorship.Onboarding, bool, error) {
	if s.drafts == nil {
		return mentorship.Onboarding{}, false, nil
	}
	raw, err := s.drafts.LoadDraft(ctx, sess.ID())
	if errors.Is(err, ports.ErrNotFound) {
		return mentorship.Onboarding{}, false, nil
	}
	if err != nil {
		return mentorship.Onboarding{}, false, fmt.Errorf("load draft: %w", err)
	}
	var d mentorship.Onboarding
	if err := json.Unmarshal(raw, &d); err != nil {
		// A corrupt draft is discarded rather than blocking the wizard.
		s.logger.WarnContext(ctx, "discarding unreadable onboarding draft", "error", err)
		_ = s.drafts.DeleteDraft(ctx, sess.ID())
		return mentorship.Onboarding{}, false, nil
	}
	return d, true, nil
}

// SaveDraft persists partially filled wizard state. Drafts are not validated.
func (s *CandidateService) SaveDraft(ctx context.Context, sess Session, d mentorship.Onboarding) error {
	if s.drafts == nil {
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.drafts.SaveDraft(ctx, sess.ID(), raw); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// SubmitOnboarding validates and submits the wizard. The form stays in the draft store
// so the roadmap screen can show what the roadmap was generated from.
func (s *CandidateService) SubmitOnboarding(ctx context.Context, sess Session, d mentorship.Onboarding) error {
	if err := s.validator.Struct(d); err != nil {
		return err
	}
	if id, ok := sess.Identity(); ok {
		if d.Name == "" {
			d.Name = id.Name
		}
		if d.Email == "" {
			d.Email = id.Email
		}
	}
	token := sess.Token()
	if err := s.backend.SubmitOnboarding(ctx, token, d); err != nil {
		return sess.Observe(ctx, token, err)
	}
	if err := s.SaveDraft(ctx, sess, d); err != nil {
		s.logger.WarnContext(ctx, "keeping onboarding draft failed", "error", err)
	}
	s.toast.success(ctx, sess.ID(), "Profile saved. Generating your roadmap next.")
	return nil
}

// GenerateRoadmap asks the backend for the candidate's roadmap and clears the draft on success.
func (s *CandidateService) GenerateRoadmap(ctx context.Context, sess Session) ([]mentorship.RoadmapStep, error) {
	candidateID, err := s.candidateID(ctx, sess)
	if err != nil {
		return nil, err
	}
	token := sess.Token()
	steps, err := s.backend.GenerateRoadmap(ctx, token, candidateID)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	if s.drafts != nil {
		if err := s.drafts.DeleteDraft(ctx, sess.ID()); err != nil {
			s.logger.WarnContext(ctx, "clearing onboarding draft failed", "error", err)
		}
	}
	return steps, nil
}

// RegenerateRoadmap replaces the candidate's roadmap from the answers already on file.
// A loaded dashboard picks up the new steps without a reload.
func (s *CandidateService) RegenerateRoadmap(ctx context.Context, sess Session) ([]mentorship.RoadmapStep, error) {
	candidateID, err := s.candidateID(ctx, sess)
	if err != nil {
		return nil, err
	}
	token := sess.Token()
	steps, err := s.backend.RegenerateRoadmap(ctx, token, candidateID)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	if st, ok := sess.Views().Workflow(); ok {
		st.Update(func(w *mentorship.Workflow) { w.Roadmap = slices.Clone(steps) })
	}
	s.toast.success(ctx, sess.ID(), "Your roadmap has been refreshed.")
	return steps, nil
}

// Mentors lists the marketplace.
func (s *CandidateService) Mentors(ctx context.Context, sess Session) ([]mentorship.Mentor, error) {
	token := sess.Token()
	mentors, err := s.backend.ListMentors(ctx, token)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	return mentors, nil
}

// Mentor returns one marketplace listing.
func (s *CandidateService) Mentor(ctx context.Context, sess Session, mentorID string) (mentorship.Mentor, error) {
	if mentorID == "" {
		return mentorship.Mentor{}, apperrors.ValidationField("mentorId", "mentorId is required")
	}
	token := sess.Token()
	m, err := s.backend.GetMentor(ctx, token, mentorID)
	if err != nil {
		return mentorship.Mentor{}, sess.Observe(ctx, token, err)
	}
	return m, nil
}

// Checkout books mentorID for the candidate.
func (s *CandidateService) Checkout(ctx context.Context, sess Session, mentorID string) (ports.CheckoutResult, error) {
	if mentorID == "" {
		return ports.CheckoutResult{}, apperrors.ValidationField("mentorId", "mentorId is required")
	}
	candidateID, err := s.candidateID(ctx, sess)
	if err != nil {
		return ports.CheckoutResult{}, err
	}
	token := sess.Token()
	res, err := s.backend.Checkout(ctx, token, candidateID, mentorID)
	if err != nil {
		return ports.CheckoutResult{}, sess.Observe(ctx, token, err)
	}
	s.toast.success(ctx, sess.ID(), fmt.Sprintf("You're booked with %s.", res.MentorName))
	return res, nil
}

// Workflow returns the dashboard, loading it from the backend when reload is set or
// when it has never been loaded.
func (s *CandidateService) Workflow(ctx context.Context, sess Session, reload bool) (mentorship.Workflow, error) {
	if st, ok := sess.Views().Workflow(); ok && !reload {
		return st.Snapshot(), nil
	}
	st, err := s.loadWorkflow(ctx, sess)
	if err != nil {
		return mentorship.Workflow{}, err
	}
	return st.Snapshot(), nil
}

func (s *CandidateService) loadWorkflow(ctx context.Context, sess Session) (*optimistic.State[mentorship.Workflow], error) {
	candidateID, err := s.candidateID(ctx, sess)
	if err != nil {
		return nil, err
	}
	token := sess.Token()
	w, err := s.backend.Workflow(ctx, token, candidateID)
	if err != nil {
		return nil, sess.Observe(ctx, token, err)
	}
	return sess.Views().PutWorkflow(w), nil
}

func (s *CandidateService) workflowState(ctx context.Context, sess Session) (*optimistic.State[mentorship.Workflow], error) {
	if st, ok := sess.Views().Workflow(); ok {
		return st, nil
	}
	return s.loadWorkflow(ctx, sess)
}

// ToggleAction flips an action item's completion optimistically. The returned view already
// shows the change; the pending outcome resolves once the backend has answered. Asking for
// the state the item is already in is a no-op: the current view comes back with a nil
// Pending and nothing is sent.
func (s *CandidateService) ToggleAction(
	ctx context.Context,
	sess Session,
	actionID string,
	completed bool,
) (mentorship.Workflow, *optimistic.Pending[ports.ToggleActionResult], error) {
	st, err := s.workflowState(ctx, sess)
	if err != nil {
		return mentorship.Workflow{}, nil, err
	}
	candidateID := st.Snapshot().CandidateID
	token := sess.Token()

	p := optimistic.Apply(ctx, s.engine, st, optimistic.Mutation[mentorship.Workflow, ports.ToggleActionResult]{
		Name:   "toggle_action",
		Apply:  func(w *mentorship.Workflow) bool { return w.SetActionCompleted(actionID, completed) },
		Revert: func(w *mentorship.Workflow) { w.SetActionCompleted(actionID, !completed) },
		Remote: func(rctx context.Context) (ports.ToggleActionResult, error) {
			return s.backend.ToggleAction(rctx, token, ports.ToggleActionInput{
				CandidateID:  candidateID,
				ActionItemID: actionID,
				Completed:    completed,
			})
		},
		Commit: func(w *mentorship.Workflow, r ports.ToggleActionResult) {
			if i := w.ActionIndex(actionID); i >= 0 {
				w.ActionItems[i].Completed = r.Completed
			}
			w.Recount()
			if w.CompletedActions != r.CompletedCount {
				s.logger.Debug("toggle counters differ from backend",
					"local", w.CompletedActions, "backend", r.CompletedCount)
			}
		},
		Current: func() bool { return sess.IsCurrent(token) },
		Failed:  func(fctx context.Context, err error) { s.toast.failure(fctx, sess, token, err) },
	})
	if errors.Is(pendingErr(p), optimistic.ErrNotApplied) {
		view := st.Snapshot()
		if view.ActionIndex(actionID) < 0 {
			return view, nil, apperrors.NotFound("Action item not found")
		}
		return view, nil, nil
	}
	return st.Snapshot(), p, nil
}

// CompleteSession marks a mentoring session completed optimistically and reloads the
// whole dashboard once the backend confirms, since completion also advances the roadmap.
func (s *CandidateService) CompleteSession(
	ctx context.Context,
	sess Session,
	sessionID, notes string,
) (mentorship.Workflow, *optimistic.Pending[ports.CompleteSessionResult], error) {
	st, err := s.workflowState(ctx, sess)
	if err != nil {
		return mentorship.Workflow{}, nil, err
	}

	var prev mentorship.SessionStatus
	token := sess.Token()
	p := optimistic.Apply(ctx, s.engine, st, optimistic.Mutation[mentorship.Workflow, ports.CompleteSessionResult]{
		Name: "complete_session",
		Apply: func(w *mentorship.Workflow) bool {
			i := w.SessionIndex(sessionID)
			if i < 0 {
				return false
			}
			prev = w.Sessions[i].Status
			return w.SetSessionStatus(sessionID, mentorship.SessionCompleted)
		},
		Revert: func(w *mentorship.Workflow) { w.SetSessionStatus(sessionID, prev) },
		Remote: func(rctx context.Context) (ports.CompleteSessionResult, error) {
			return s.backend.CompleteSession(rctx, token, ports.CompleteSessionInput{
				SessionID: sessionID,
				Notes:     notes,
			})
		},
		After: func(actx context.Context, r ports.CompleteSessionResult) {
			s.toast.success(actx, sess.ID(),
				fmt.Sprintf("Session completed (%d of %d).", r.CompletedSessions, r.TotalSessions))
			if _, err := s.loadWorkflow(actx, sess); err != nil {
				s.logger.WarnContext(actx, "workflow reload after session completion failed", "error", err)
			}
		},
		Current: func() bool { return sess.IsCurrent(token) },
		Failed:  func(fctx context.Context, err error) { s.toast.failure(fctx, sess, token, err) },
	})
	if errors.Is(pendingErr(p), optimistic.ErrNotApplied) {
		return st.Snapshot(), p, apperrors.Rejected("Session is already completed")
	}
	return st.Snapshot(), p, nil
}

func (s *CandidateService) candidateID(ctx context.Context, sess Session) (string, error) {
	if st, ok := sess.Views().Workflow(); ok {
		if id := st.Snapshot().CandidateID; id != "" {
			return id, nil
		}
	}
	flags, err := s.Status(ctx, sess)
	if err != nil {
		return "", err
	}
	if flags.CandidateID != "" {
		return flags.CandidateID, nil
	}
	// The backend keys candidate profiles by user id.
	if id, ok := sess.Identity(); ok && id.ID != "" {
		return id.ID, nil
	}
	return "", apperrors.NotFound("Candidate profile not found")
}

// pendingErr returns the outcome of an already-resolved Pending without blocking.
func pendingErr[R any](p *optimistic.Pending[R]) error {
	select {
	case <-p.Done():
		_, err := p.Wait(context.Background())
		return err
	default:
		return nil
	}
}
