package service

import (
	"context"
	"log/slog"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/progress"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/ports"
)

// ProgressServiceOptions groups dependencies for ProgressService.
type ProgressServiceOptions struct {
	Backend ports.Backend
	Logger  *slog.Logger
	Metrics metrics.Sink
}

// ProgressService decides where a signed-in user belongs. Every navigation entry point
// (landing, post-login redirect, dashboard shortcut) goes through NextFor.
type ProgressService struct {
	backend ports.Backend
	logger  *slog.Logger
	metrics metrics.Sink
}

// NewProgressService constructs a ProgressService.
func NewProgressService(opts ProgressServiceOptions) *ProgressService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressService{
		backend: opts.Backend,
		logger:  logger.With("component", "progress_service"),
		metrics: opts.Metrics,
	}
}

// NextFor resolves the signed-in user's destination. It never fails: a candidate whose
// flags cannot be fetched goes to onboarding, and a mentor whose status cannot be fetched
// is routed on the identity's verified flag. Signed-out sessions get DestinationNone.
func (s *ProgressService) NextFor(ctx context.Context, sess Session) progress.Destination {
	id, ok := sess.Identity()
	if !ok {
		return progress.DestinationNone
	}

	switch id.Role {
	case domainauth.RoleAdmin:
		s.record(id.Role, progress.DestinationAdminHome, false)
		return progress.DestinationAdminHome
	case domainauth.RoleMentor:
		return s.nextForMentor(ctx, sess, id)
	default:
		return s.nextForCandidate(ctx, sess, id)
	}
}

func (s *ProgressService) nextForCandidate(ctx context.Context, sess Session, id domainauth.Identity) progress.Destination {
	flags, err := s.CandidateFlags(ctx, sess)
	if err != nil {
		dest := progress.FallbackCandidate()
		s.logger.WarnContext(ctx, "candidate status unavailable, using fallback",
			"user_id", id.ID,
			"error_code", apperrors.GetCode(err),
			"destination", dest)
		s.record(id.Role, dest, true)
		return dest
	}
	if !flags.Consistent() {
		s.logger.InfoContext(ctx, "candidate flags out of order",
			"user_id", id.ID,
			"has_onboarded", flags.HasOnboarded,
			"has_roadmap", flags.HasRoadmap,
			"has_mentor", flags.HasMentor)
	}
	dest := progress.ResolveCandidate(flags)
	s.record(id.Role, dest, false)
	return dest
}

func (s *ProgressService) nextForMentor(ctx context.Context, sess Session, id domainauth.Identity) progress.Destination {
	status, err := s.VerificationStatus(ctx, sess)
	fallback := false
	state := status.State()
	if err != nil {
		fallback = true
		state = progress.VerificationUnsubmitted
		if id.Verified {
			state = progress.VerificationVerified
		}
		s.logger.WarnContext(ctx, "verification status unavailable, using identity",
			"user_id", id.ID,
			"error_code", apperrors.GetCode(err),
			"verified", id.Verified)
	}
	dest := progress.ResolveMentor(state)
	s.record(id.Role, dest, fallback)
	return dest
}

// CandidateFlags fetches the candidate's progress flags.
func (s *ProgressService) CandidateFlags(ctx context.Context, sess Session) (progress.Flags, error) {
	token := sess.Token()
	flags, err := s.backend.CandidateStatus(ctx, token)
	if err != nil {
		return progress.Flags{}, sess.Observe(ctx, token, err)
	}
	return flags, nil
}

// VerificationStatus fetches the mentor's verification status.
func (s *ProgressService) VerificationStatus(ctx context.Context, sess Session) (progress.VerificationStatus, error) {
	token := sess.Token()
	st, err := s.backend.VerificationStatus(ctx, token)
	if err != nil {
		return progress.VerificationStatus{}, sess.Observe(ctx, token, err)
	}
	return st, nil
}

func (s *ProgressService) record(role domainauth.Role, dest progress.Destination, fallback bool) {
	if s.metrics != nil {
		s.metrics.Resolved(string(role), dest.String(), fallback)
	}
}
