package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/ports"
)

func sampleWorkflow() mentorship.Workflow {
	return mentorship.Workflow{
		CandidateID: "cand-1",
		MentorName:  "Grace",
		ActionItems: []mentorship.ActionItem{
			{ID: "a1", Title: "Update CV"},
			{ID: "a2", Title: "Mock interview", Completed: true},
		},
		Sessions: []mentorship.Session{
			{ID: "s1", Title: "Kickoff", Status: mentorship.SessionUpcoming},
		},
	}
}

// expectWorkflow wires the calls that load the candidate dashboard once.
func (f *routerFixture) expectWorkflow(token string) {
	gomock.InOrder(
		f.backend.EXPECT().CandidateStatus(gomock.Any(), token).
			Return(progress.Flags{HasOnboarded: true, HasRoadmap: true, HasMentor: true, CandidateID: "cand-1"}, nil),
		f.backend.EXPECT().Workflow(gomock.Any(), token, "cand-1").Return(sampleWorkflow(), nil),
	)
}

func (f *routerFixture) drain(t *testing.T, sid string) []ports.Notification {
	t.Helper()
	rec := f.do(apiRequest(http.MethodGet, PathNotify, sid, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[struct {
		Notifications []ports.Notification `json:"notifications"`
	}](t, rec).Notifications
}

func actionCompleted(w mentorship.Workflow, id string) bool {
	i := w.ActionIndex(id)
	return i >= 0 && w.ActionItems[i].Completed
}

func TestToggleActionCommits(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, candidateSID, domainauth.RoleCandidate)
	f.expectWorkflow("tok-candidate")
	f.backend.EXPECT().ToggleAction(gomock.Any(), "tok-candidate", ports.ToggleActionInput{
		CandidateID: "cand-1", ActionItemID: "a1", Completed: true,
	}).Return(ports.ToggleActionResult{ActionItemID: "a1", Completed: true, CompletedCount: 2, TotalCount: 2}, nil)

	rec := f.do(apiRequest(http.MethodPost, "/candidate/actions/a1/toggle?wait=1", candidateSID, `{"completed":true}`))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[mutationResponse[mentorship.Workflow]](t, rec)
	assert.False(t, res.Pending)
	assert.Empty(t, res.Error)
	assert.True(t, actionCompleted(res.View, "a1"))
	assert.Equal(t, 2, res.View.CompletedActions)
}

func TestToggleActionRespondsOptimistically(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, candidateSID, domainauth.RoleCandidate)
	f.expectWorkflow("tok-candidate")
	release := make(chan struct{})
	f.backend.EXPECT().ToggleAction(gomock.Any(), "tok-candidate", gomock.Any()).DoAndReturn(
		func(context.Context, string, ports.ToggleActionInput) (ports.ToggleActionResult, error) {
			<-release
			return ports.ToggleActionResult{ActionItemID: "a1", Completed: true, CompletedCount: 2, TotalCount: 2}, nil
		})

	rec := f.do(apiRequest(http.MethodPost, "/candidate/actions/a1/toggle", candidateSID, `{"completed":true}`))
	close(release)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[mutationResponse[mentorship.Workflow]](t, rec)
	assert.True(t, res.Pending)
	assert.True(t, actionCompleted(res.View, "a1"), "the view reflects the change before the backend answers")
}

func TestToggleActionRevertsOnFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, candidateSID, domainauth.RoleCandidate)
	f.expectWorkflow("tok-candidate")
	f.backend.EXPECT().ToggleAction(gomock.Any(), "tok-candidate", gomock.Any()).
		Return(ports.ToggleActionResult{}, apperrors.Unavailable(errors.New("connection refused")))

	rec := f.do(apiRequest(http.MethodPost, "/candidate/actions/a1/toggle?wait=1", candidateSID, `{"completed":true}`))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	res := decodeBody[mutationResponse[mentorship.Workflow]](t, rec)
	assert.False(t, actionCompleted(res.View, "a1"))
	assert.NotEmpty(t, res.Error)

	ns := f.drain(t, candidateSID)
	require.Len(t, ns, 1)
	assert.Equal(t, ports.NotifyError, ns[0].Kind)
	assert.Empty(t, f.drain(t, candidateSID), "toasts are delivered once")
}

func TestToggleActionUnauthorizedSignsOut(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, candidateSID, domainauth.RoleCandidate)
	f.expectWorkflow("tok-candidate")
	f.backend.EXPECT().ToggleAction(gomock.Any(), "tok-candidate", gomock.Any()).
		Return(ports.ToggleActionResult{}, apperrors.Unauthorized("token expired"))

	req := apiRequest(http.MethodPost, "/candidate/actions/a1/toggle?wait=1", candidateSID, `{"completed":true}`)
	req.Header.Set("Hx-Request", "true")
	rec := f.do(req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, PathSignIn, rec.Header().Get("Hx-Redirect"))
	assert.Empty(t, f.drain(t, candidateSID), "authorization failures never toast")

	rec = f.do(newRequest(http.MethodGet, "/candidate/workflow", candidateSID, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, PathSignIn, rec.Header().Get("Location"))
}

func TestToggleUnknownActionIsNotFound(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, candidateSID, domainauth.RoleCandidate)
	f.expectWorkflow("tok-candidate")

	rec := f.do(apiRequest(http.MethodPost, "/candidate/actions/zzz/toggle", candidateSID, `{"completed":true}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitOnboardingValidation(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, candidateSID, domainauth.RoleCandidate)

	rec := f.do(apiRequest(http.MethodPost, "/candidate/onboarding", candidateSID, `{"skillLevel":"wizard"}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "validation_failed", body.Error)
	assert.NotEmpty(t, body.Field)
}

func TestAcceptQueuesToastThenCalendar(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, mentorSID, domainauth.RoleMentor)
	f.backend.EXPECT().MentorRequests(gomock.Any(), "tok-mentor").Return(mentorship.Inbox{
		MentorID: "m-1",
		Requests: []mentorship.Request{{ID: "r1", CandidateName: "Lin", Status: mentorship.RequestPending}},
	}, nil)
	f.backend.EXPECT().AcceptMentorship(gomock.Any(), "tok-mentor", "r1").Return(ports.AcceptResult{
		Request:     mentorship.Request{ID: "r1", CandidateName: "Lin", Status: mentorship.RequestAccepted},
		CalendarURL: "https://calendar.example.com/invite/1",
	}, nil)

	rec := f.do(apiRequest(http.MethodPost, "/mentor/requests/r1/accept?wait=1", mentorSID, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[mutationResponse[mentorship.Inbox]](t, rec)
	require.Len(t, res.View.Requests, 1)
	assert.Equal(t, mentorship.RequestAccepted, res.View.Requests[0].Status)

	ns := f.drain(t, mentorSID)
	require.Len(t, ns, 2)
	assert.Equal(t, ports.NotifySuccess, ns[0].Kind)
	assert.Equal(t, ports.NotifyOpenURL, ns[1].Kind)
	assert.Equal(t, "https://calendar.example.com/invite/1", ns[1].URL)
}

func TestDeclineTerminalRequestIsRejected(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, mentorSID, domainauth.RoleMentor)
	f.backend.EXPECT().MentorRequests(gomock.Any(), "tok-mentor").Return(mentorship.Inbox{
		Requests: []mentorship.Request{{ID: "r1", Status: mentorship.RequestAccepted}},
	}, nil)

	rec := f.do(apiRequest(http.MethodPost, "/mentor/requests/r1/decline", mentorSID, ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.drain(t, mentorSID))
}

func TestAdminRejectRestoresQueueOnFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, adminSID, domainauth.RoleAdmin)
	f.backend.EXPECT().PendingMentors(gomock.Any(), "tok-admin").Return(mentorship.ReviewQueue{
		Items: []mentorship.PendingVerification{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}},
	}, nil)
	f.backend.EXPECT().RejectMentor(gomock.Any(), "tok-admin", "m2", "").
		Return(apperrors.Rejected("Mentor already reviewed"))

	rec := f.do(apiRequest(http.MethodPost, "/admin/mentors/m2/reject?wait=1", adminSID, ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeBody[mutationResponse[mentorship.ReviewQueue]](t, rec)
	ids := make([]string, 0, len(res.View.Items))
	for _, it := range res.View.Items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids)
	assert.Equal(t, "Mentor already reviewed", res.Error)
}

func TestAdminVerifyRemovesEntry(t *testing.T) {
	f := newRouterFixture(t)
	f.signedIn(t, adminSID, domainauth.RoleAdmin)
	f.backend.EXPECT().PendingMentors(gomock.Any(), "tok-admin").Return(mentorship.ReviewQueue{
		Items: []mentorship.PendingVerification{{ID: "m1"}},
	}, nil)
	f.backend.EXPECT().VerifyMentor(gomock.Any(), "tok-admin", "m1").Return(nil)

	rec := f.do(apiRequest(http.MethodPost, "/admin/mentors/m1/verify?wait=1", adminSID, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[mutationResponse[mentorship.ReviewQueue]](t, rec)
	assert.Empty(t, res.View.Items)
}
