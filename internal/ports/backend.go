package ports

import (
	"context"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
)

// ToggleActionInput identifies an action item and its new completion value.
type ToggleActionInput struct {
	CandidateID  string `json:"candidateId"`
	ActionItemID string `json:"actionItemId"`
	Completed    bool   `json:"completed"`
}

// ToggleActionResult is the backend's authoritative view after a toggle.
type ToggleActionResult struct {
	ActionItemID   string `json:"actionItemId"`
	Completed      bool   `json:"completed"`
	CompletedCount int    `json:"completedCount"`
	TotalCount     int    `json:"totalCount"`
}

// CompleteSessionInput identifies a mentoring session to mark completed.
type CompleteSessionInput struct {
	SessionID string `json:"sessionId"`
	Notes     string `json:"notes,omitempty"`
}

// CompleteSessionResult reports session counters after completion.
type CompleteSessionResult struct {
	SessionID         string `json:"sessionId"`
	CompletedSessions int    `json:"completedSessions"`
	TotalSessions     int    `json:"totalSessions"`
}

// SessionDetails describes the first session scheduled on acceptance.
type SessionDetails struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	MentorName    string `json:"mentorName"`
	CandidateName string `json:"candidateName"`
}

// AcceptResult is returned when a mentor accepts a request.
type AcceptResult struct {
	Request        mentorship.Request `json:"request"`
	CalendarURL    string             `json:"calendarUrl"`
	SessionDetails SessionDetails     `json:"sessionDetails"`
}

// CheckoutResult is returned when a candidate books a mentor.
type CheckoutResult struct {
	MentorID      string               `json:"mentorId"`
	MentorName    string               `json:"mentorName"`
	SessionsCount int                  `json:"sessionsCount"`
	Total         float64              `json:"total"`
	Sessions      []mentorship.Session `json:"sessions"`
}

// Backend is the remote GUIDED API. Every call that needs authorization takes the bearer token.
// Errors are *errors.AppError values classified as unauthorized, rejected, validation,
// not_found, conflict, or unavailable.
type Backend interface {
	Login(ctx context.Context, creds domainauth.Credentials) (domainauth.AuthResponse, error)
	Signup(ctx context.Context, in domainauth.SignupInput) (domainauth.AuthResponse, error)
	Me(ctx context.Context, token string) (domainauth.Identity, error)

	CandidateStatus(ctx context.Context, token string) (progress.Flags, error)
	SubmitOnboarding(ctx context.Context, token string, in mentorship.Onboarding) error
	GenerateRoadmap(ctx context.Context, token, candidateID string) ([]mentorship.RoadmapStep, error)
	RegenerateRoadmap(ctx context.Context, token, candidateID string) ([]mentorship.RoadmapStep, error)
	ListMentors(ctx context.Context, token string) ([]mentorship.Mentor, error)
	GetMentor(ctx context.Context, token, mentorID string) (mentorship.Mentor, error)
	Checkout(ctx context.Context, token, candidateID, mentorID string) (CheckoutResult, error)
	Workflow(ctx context.Context, token, candidateID string) (mentorship.Workflow, error)
	ToggleAction(ctx context.Context, token string, in ToggleActionInput) (ToggleActionResult, error)
	CompleteSession(ctx context.Context, token string, in CompleteSessionInput) (CompleteSessionResult, error)

	MentorRequests(ctx context.Context, token string) (mentorship.Inbox, error)
	MentorOverview(ctx context.Context, token string) (mentorship.MentorOverview, error)
	AcceptMentorship(ctx context.Context, token, requestID string) (AcceptResult, error)
	DeclineMentorship(ctx context.Context, token, requestID string) (mentorship.Request, error)
	SubmitVerification(ctx context.Context, token, linkedInURL string) (progress.VerificationStatus, error)
	VerificationStatus(ctx context.Context, token string) (progress.VerificationStatus, error)

	PendingMentors(ctx context.Context, token string) (mentorship.ReviewQueue, error)
	PlatformOverview(ctx context.Context, token string) (mentorship.PlatformOverview, error)
	MentorAccounts(ctx context.Context, token string) ([]mentorship.MentorAccount, error)
	MenteeAccounts(ctx context.Context, token string) ([]mentorship.MenteeAccount, error)
	MenteeAccount(ctx context.Context, token, menteeID string) (mentorship.MenteeAccount, error)
	VerifyMentor(ctx context.Context, token, mentorID string) error
	RejectMentor(ctx context.Context, token, mentorID, reason string) error

	Ping(ctx context.Context) error
}
