package guidedapi

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
	"github.com/guided/guided-web/internal/ports"
)

// Auth

func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.AuthResponse, error) {
	var out domainauth.AuthResponse
	err := c.call(ctx, "auth.login", http.MethodPost, "/auth/login", "", creds, &out)
	out.User.Role = domainauth.ParseRole(string(out.User.Role))
	return out, err
}

func (c *Client) Signup(ctx context.Context, in domainauth.SignupInput) (domainauth.AuthResponse, error) {
	var out domainauth.AuthResponse
	err := c.call(ctx, "auth.signup", http.MethodPost, "/auth/signup", "", in, &out)
	out.User.Role = domainauth.ParseRole(string(out.User.Role))
	return out, err
}

func (c *Client) Me(ctx context.Context, token string) (domainauth.Identity, error) {
	var out domainauth.Identity
	err := c.call(ctx, "auth.me", http.MethodGet, "/auth/me", token, nil, &out)
	out.Role = domainauth.ParseRole(string(out.Role))
	return out, err
}

// Candidate

func (c *Client) CandidateStatus(ctx context.Context, token string) (progress.Flags, error) {
	var out progress.Flags
	err := c.call(ctx, "candidate.status", http.MethodGet, "/candidate/status", token, nil, &out)
	return out, err
}

func (c *Client) SubmitOnboarding(ctx context.Context, token string, in mentorship.Onboarding) error {
	return c.call(ctx, "candidate.onboarding", http.MethodPost, "/candidate/onboarding", token, in, nil)
}

type candidateRef struct {
	CandidateID string `json:"candidateId"`
}

func (c *Client) GenerateRoadmap(ctx context.Context, token, candidateID string) ([]mentorship.RoadmapStep, error) {
	var out struct {
		Roadmap []mentorship.RoadmapStep `json:"roadmap"`
	}
	err := c.call(ctx, "candidate.generate_roadmap", http.MethodPost, "/candidate/generate-roadmap", token,
		candidateRef{CandidateID: candidateID}, &out)
	return out.Roadmap, err
}

// RegenerateRoadmap replaces the candidate's roadmap from the stored onboarding answers.
func (c *Client) RegenerateRoadmap(ctx context.Context, token, candidateID string) ([]mentorship.RoadmapStep, error) {
	var out struct {
		Roadmap []mentorship.RoadmapStep `json:"roadmap"`
	}
	err := c.call(ctx, "candidate.regenerate_roadmap", http.MethodPost, "/candidate/regenerate-roadmap", token,
		candidateRef{CandidateID: candidateID}, &out)
	return out.Roadmap, err
}

func (c *Client) ListMentors(ctx context.Context, token string) ([]mentorship.Mentor, error) {
	var out struct {
		Mentors []mentorship.Mentor `json:"mentors"`
	}
	err := c.call(ctx, "mentors.list", http.MethodGet, "/mentors", token, nil, &out)
	return out.Mentors, err
}

func (c *Client) GetMentor(ctx context.Context, token, mentorID string) (mentorship.Mentor, error) {
	var out mentorship.Mentor
	err := c.call(ctx, "mentors.get", http.MethodGet, "/mentors/"+url.PathEscape(mentorID), token, nil, &out)
	return out, err
}

func (c *Client) Checkout(ctx context.Context, token, candidateID, mentorID string) (ports.CheckoutResult, error) {
	in := struct {
		MentorID    string `json:"mentorId"`
		CandidateID string `json:"candidateId,omitempty"`
	}{MentorID: mentorID, CandidateID: candidateID}
	var out ports.CheckoutResult
	err := c.call(ctx, "candidate.checkout", http.MethodPost, "/candidate/checkout", token, in, &out)
	return out, err
}

// workflowResponse is the dashboard payload; counters arrive nested under stats.
type workflowResponse struct {
	CandidateID     string                   `json:"candidateId"`
	MentorName      string                   `json:"mentorName"`
	Status          string                   `json:"status"`
	Sessions        []mentorship.Session     `json:"sessions"`
	ActionItems     []mentorship.ActionItem  `json:"actionItems"`
	Roadmap         []mentorship.RoadmapStep `json:"roadmap"`
	NextSession     *mentorship.Session      `json:"nextSession"`
	OverallProgress int                      `json:"overallProgress"`
	Stats           struct {
		CompletedSessions int `json:"completedSessions"`
		CompletedActions  int `json:"completedActions"`
	} `json:"stats"`
}

func (c *Client) Workflow(ctx context.Context, token, candidateID string) (mentorship.Workflow, error) {
	var out workflowResponse
	path := "/candidate/workflow/" + url.PathEscape(candidateID)
	if err := c.call(ctx, "candidate.workflow", http.MethodGet, path, token, nil, &out); err != nil {
		return mentorship.Workflow{}, err
	}
	w := mentorship.Workflow{
		CandidateID:     out.CandidateID,
		MentorName:      out.MentorName,
		Status:          out.Status,
		OverallProgress: out.OverallProgress,
		Roadmap:         out.Roadmap,
		Sessions:        out.Sessions,
		ActionItems:     out.ActionItems,
		NextSession:     out.NextSession,
	}
	// The lists are authoritative; stats only matter if they disagree, which is logged.
	w.Recount()
	if w.CompletedActions != out.Stats.CompletedActions || w.CompletedSessions != out.Stats.CompletedSessions {
		c.logger.DebugContext(ctx, "workflow stats disagree with lists",
			"candidate_id", out.CandidateID,
			"stats_actions", out.Stats.CompletedActions,
			"list_actions", w.CompletedActions)
	}
	return w, nil
}

func (c *Client) ToggleAction(ctx context.Context, token string, in ports.ToggleActionInput) (ports.ToggleActionResult, error) {
	var out ports.ToggleActionResult
	err := c.call(ctx, "candidate.toggle_action", http.MethodPost, "/candidate/toggle-action", token, in, &out)
	return out, err
}

func (c *Client) CompleteSession(ctx context.Context, token string, in ports.CompleteSessionInput) (ports.CompleteSessionResult, error) {
	var out ports.CompleteSessionResult
	err := c.call(ctx, "candidate.complete_session", http.MethodPost, "/candidate/complete-session", token, in, &out)
	return out, err
}

// Mentor

func (c *Client) MentorRequests(ctx context.Context, token string) (mentorship.Inbox, error) {
	var out mentorship.Inbox
	err := c.call(ctx, "mentor.requests", http.MethodGet, "/mentor/requests", token, nil, &out)
	return out, err
}

func (c *Client) MentorOverview(ctx context.Context, token string) (mentorship.MentorOverview, error) {
	var out mentorship.MentorOverview
	err := c.call(ctx, "mentor.dashboard", http.MethodGet, "/mentor/dashboard", token, nil, &out)
	return out, err
}

type mentorshipRef struct {
	MentorshipID string `json:"mentorshipId"`
}

func (c *Client) AcceptMentorship(ctx context.Context, token, requestID string) (ports.AcceptResult, error) {
	var out ports.AcceptResult
	err := c.call(ctx, "mentor.accept", http.MethodPost, "/mentor/accept", token, mentorshipRef{requestID}, &out)
	return out, err
}

func (c *Client) DeclineMentorship(ctx context.Context, token, requestID string) (mentorship.Request, error) {
	var out struct {
		Request mentorship.Request `json:"request"`
	}
	err := c.call(ctx, "mentor.decline", http.MethodPost, "/mentor/decline", token, mentorshipRef{requestID}, &out)
	return out.Request, err
}

func (c *Client) SubmitVerification(ctx context.Context, token, linkedInURL string) (progress.VerificationStatus, error) {
	in := struct {
		LinkedInURL string `json:"linkedinUrl"`
	}{linkedInURL}
	var out struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, "mentor.verify_submit", http.MethodPost, "/mentor/verify-submit", token, in, &out); err != nil {
		return progress.VerificationStatus{}, err
	}
	return progress.VerificationStatus{
		Verified:    out.Status == "verified",
		Pending:     out.Status == "pending",
		LinkedInURL: linkedInURL,
	}, nil
}

func (c *Client) VerificationStatus(ctx context.Context, token string) (progress.VerificationStatus, error) {
	var out progress.VerificationStatus
	err := c.call(ctx, "mentor.verification_status", http.MethodGet, "/mentor/verification-status", token, nil, &out)
	return out, err
}

// Admin

func (c *Client) PendingMentors(ctx context.Context, token string) (mentorship.ReviewQueue, error) {
	var out struct {
		PendingMentors []mentorship.PendingVerification `json:"pendingMentors"`
	}
	err := c.call(ctx, "admin.pending_mentors", http.MethodGet, "/admin/pending-mentors", token, nil, &out)
	return mentorship.ReviewQueue{Items: out.PendingMentors}, err
}

func (c *Client) PlatformOverview(ctx context.Context, token string) (mentorship.PlatformOverview, error) {
	var out mentorship.PlatformOverview
	err := c.call(ctx, "admin.dashboard", http.MethodGet, "/admin/dashboard", token, nil, &out)
	return out, err
}

func (c *Client) MentorAccounts(ctx context.Context, token string) ([]mentorship.MentorAccount, error) {
	var out struct {
		Mentors []mentorship.MentorAccount `json:"mentors"`
	}
	err := c.call(ctx, "admin.mentors", http.MethodGet, "/admin/mentors", token, nil, &out)
	return out.Mentors, err
}

func (c *Client) MenteeAccounts(ctx context.Context, token string) ([]mentorship.MenteeAccount, error) {
	var out struct {
		Mentees []mentorship.MenteeAccount `json:"mentees"`
	}
	err := c.call(ctx, "admin.mentees", http.MethodGet, "/admin/mentees", token, nil, &out)
	return out.Mentees, err
}

func (c *Client) MenteeAccount(ctx context.Context, token, menteeID string) (mentorship.MenteeAccount, error) {
	var out mentorship.MenteeAccount
	err := c.call(ctx, "admin.mentee", http.MethodGet, "/admin/mentees/"+url.PathEscape(menteeID), token, nil, &out)
	return out, err
}

func (c *Client) VerifyMentor(ctx context.Context, token, mentorID string) error {
	in := struct {
		MentorID string `json:"mentorId"`
	}{mentorID}
	return c.call(ctx, "admin.verify_mentor", http.MethodPost, "/admin/verify-mentor", token, in, nil)
}

func (c *Client) RejectMentor(ctx context.Context, token, mentorID, reason string) error {
	in := struct {
		MentorID string `json:"mentorId"`
		Reason   string `json:"reason,omitempty"`
	}{mentorID, reason}
	return c.call(ctx, "admin.reject_mentor", http.MethodPost, "/admin/reject-mentor", token, in, nil)
}

// Ping checks the backend's root health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "health", http.MethodGet, "/", "", nil, nil)
}
