package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/guided/guided-web/internal/adapters/memstore"
	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/mocks"
	"github.com/guided/guided-web/internal/ports"
)

type candidateFixture struct {
	svc     *CandidateService
	backend *mocks.MockBackend
	store   *memstore.Store
	engine  interface{ Wait(context.Context) error }
	sess    *fakeSession
}

func newCandidateFixture(t *testing.T) *candidateFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	store := newTestStore()
	engine := newTestEngine()
	svc, err := NewCandidateService(CandidateServiceOptions{
		Backend:  backend,
		Engine:   engine,
		Drafts:   store,
		Notifier: store,
	})
	require.NoError(t, err)
	return &candidateFixture{
		svc:     svc,
		backend: backend,
		store:   store,
		engine:  engine,
		sess:    newFakeSession(domainauth.RoleCandidate),
	}
}

func sampleWorkflow() mentorship.Workflow {
	w := mentorship.Workflow{
		CandidateID: "cand-1",
		MentorName:  "Grace",
		ActionItems: []mentorship.ActionItem{
			{ID: "a1", Title: "Update resume"},
			{ID: "a2", Title: "Mock interview", Completed: true},
		},
		Sessions: []mentorship.Session{
			{ID: "s1", Title: "Kickoff", Status: mentorship.SessionCompleted},
			{ID: "s2", Title: "Resume review", Status: mentorship.SessionUpcoming},
		},
	}
	w.Recount()
	return w
}

func (f *candidateFixture) expectWorkflowLoad(w mentorship.Workflow) {
	f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok").
		Return(progress.Flags{HasOnboarded: true, HasRoadmap: true, HasMentor: true, CandidateID: "cand-1"}, nil)
	f.backend.EXPECT().Workflow(gomock.Any(), "tok", "cand-1").Return(w, nil)
}

func TestCandidateService_WorkflowCachesView(t *testing.T) {
	ctx := context.Background()
	f := newCandidateFixture(t)
	f.expectWorkflowLoad(sampleWorkflow())

	w, err := f.svc.Workflow(ctx, f.sess, false)
	require.NoError(t, err)
	assert.Equal(t, 1, w.CompletedActions)

	again, err := f.svc.Workflow(ctx, f.sess, false)
	require.NoError(t, err)
	assert.Equal(t, w, again)
}

func TestCandidateService_ToggleAction(t *testing.T) {
	ctx := context.Background()

	t.Run("applies immediately and keeps the confirmed state", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())
		f.backend.EXPECT().ToggleAction(gomock.Any(), "tok", ports.ToggleActionInput{
			CandidateID:  "cand-1",
			ActionItemID: "a1",
			Completed:    true,
		}).Return(ports.ToggleActionResult{ActionItemID: "a1", Completed: true, CompletedCount: 2, TotalCount: 2}, nil)

		view, p, err := f.svc.ToggleAction(ctx, f.sess, "a1", true)
		require.NoError(t, err)
		assert.True(t, view.ActionItems[0].Completed)
		assert.Equal(t, 2, view.CompletedActions)

		res, err := p.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, res.CompletedCount)

		w, err := f.svc.Workflow(ctx, f.sess, false)
		require.NoError(t, err)
		assert.True(t, w.ActionItems[0].Completed)
		assert.Equal(t, 2, w.CompletedActions)
	})

	t.Run("reverts and notifies on failure", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())
		f.backend.EXPECT().ToggleAction(gomock.Any(), "tok", gomock.Any()).
			Return(ports.ToggleActionResult{}, apperrors.Unavailable(assert.AnError))

		view, p, err := f.svc.ToggleAction(ctx, f.sess, "a2", false)
		require.NoError(t, err)
		assert.False(t, view.ActionItems[1].Completed)

		_, err = p.Wait(ctx)
		require.Error(t, err)
		require.NoError(t, f.engine.Wait(ctx))

		w, err := f.svc.Workflow(ctx, f.sess, false)
		require.NoError(t, err)
		assert.True(t, w.ActionItems[1].Completed)
		assert.Equal(t, 1, w.CompletedActions)
		assert.Equal(t, []ports.NotificationKind{ports.NotifyError}, drainKinds(t, f.store, f.sess.ID()))
	})

	t.Run("unauthorized ends the session without a toast", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())
		f.backend.EXPECT().ToggleAction(gomock.Any(), "tok", gomock.Any()).
			Return(ports.ToggleActionResult{}, apperrors.Unauthorized("expired"))

		_, p, err := f.svc.ToggleAction(ctx, f.sess, "a1", true)
		require.NoError(t, err)
		_, err = p.Wait(ctx)
		require.Error(t, err)

		assert.True(t, f.sess.wasInvalidated())
		assert.Empty(t, drainKinds(t, f.store, f.sess.ID()))
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())

		_, _, err := f.svc.ToggleAction(ctx, f.sess, "missing", true)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("repeating the current state sends nothing", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())

		view, p, err := f.svc.ToggleAction(ctx, f.sess, "a2", true)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.True(t, view.ActionItems[1].Completed)
		assert.Equal(t, 1, view.CompletedActions)
		assert.Empty(t, drainKinds(t, f.store, f.sess.ID()))
	})

	t.Run("unauthorized for a replaced token keeps the newer sign-in", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())
		release := make(chan struct{})
		f.backend.EXPECT().ToggleAction(gomock.Any(), "tok", gomock.Any()).DoAndReturn(
			func(context.Context, string, ports.ToggleActionInput) (ports.ToggleActionResult, error) {
				<-release
				return ports.ToggleActionResult{}, apperrors.Unauthorized("expired")
			})

		_, p, err := f.svc.ToggleAction(ctx, f.sess, "a1", true)
		require.NoError(t, err)
		f.sess.signInAs("tok-2")
		close(release)

		_, err = p.Wait(ctx)
		require.Error(t, err)
		assert.False(t, f.sess.wasInvalidated())
		assert.Equal(t, "tok-2", f.sess.Token())
		assert.Empty(t, drainKinds(t, f.store, f.sess.ID()))
	})
}

func TestCandidateService_CompleteSessionReloadsWorkflow(t *testing.T) {
	ctx := context.Background()
	f := newCandidateFixture(t)
	f.expectWorkflowLoad(sampleWorkflow())

	reloaded := sampleWorkflow()
	reloaded.Sessions[1].Status = mentorship.SessionCompleted
	reloaded.OverallProgress = 60
	reloaded.Recount()
	f.backend.EXPECT().CompleteSession(gomock.Any(), "tok", ports.CompleteSessionInput{SessionID: "s2", Notes: "great"}).
		Return(ports.CompleteSessionResult{SessionID: "s2", CompletedSessions: 2, TotalSessions: 2}, nil)
	f.backend.EXPECT().Workflow(gomock.Any(), "tok", "cand-1").Return(reloaded, nil)

	view, p, err := f.svc.CompleteSession(ctx, f.sess, "s2", "great")
	require.NoError(t, err)
	assert.Equal(t, mentorship.SessionCompleted, view.Sessions[1].Status)
	assert.Equal(t, 2, view.CompletedSessions)

	_, err = p.Wait(ctx)
	require.NoError(t, err)

	w, err := f.svc.Workflow(ctx, f.sess, false)
	require.NoError(t, err)
	assert.Equal(t, 60, w.OverallProgress)
	assert.Equal(t, []ports.NotificationKind{ports.NotifySuccess}, drainKinds(t, f.store, f.sess.ID()))
}

func TestCandidateService_CompleteSessionAfterSignOutSkipsSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newCandidateFixture(t)
	f.expectWorkflowLoad(sampleWorkflow())
	release := make(chan struct{})
	f.backend.EXPECT().CompleteSession(gomock.Any(), "tok", gomock.Any()).DoAndReturn(
		func(context.Context, string, ports.CompleteSessionInput) (ports.CompleteSessionResult, error) {
			<-release
			return ports.CompleteSessionResult{SessionID: "s2", CompletedSessions: 2, TotalSessions: 2}, nil
		})

	_, p, err := f.svc.CompleteSession(ctx, f.sess, "s2", "")
	require.NoError(t, err)
	f.sess.signInAs("")
	close(release)

	_, err = p.Wait(ctx)
	require.NoError(t, err)
	// No toast and no workflow reload for whoever holds the browser now.
	assert.Empty(t, drainKinds(t, f.store, f.sess.ID()))
}

func TestCandidateService_CompleteSessionAlreadyCompleted(t *testing.T) {
	ctx := context.Background()
	f := newCandidateFixture(t)
	f.expectWorkflowLoad(sampleWorkflow())

	_, _, err := f.svc.CompleteSession(ctx, f.sess, "s1", "")
	assert.True(t, apperrors.IsRejected(err))
}

func validOnboarding() mentorship.Onboarding {
	return mentorship.Onboarding{
		CareerGoal:      "Move into backend engineering",
		TargetRole:      "Backend Engineer",
		SkillLevel:      "intermediate",
		ExperienceLevel: "1-2",
	}
}

func TestCandidateService_SubmitOnboarding(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid form is rejected locally", func(t *testing.T) {
		f := newCandidateFixture(t)
		d := validOnboarding()
		d.SkillLevel = "guru"

		err := f.svc.SubmitOnboarding(ctx, f.sess, d)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "skillLevel", apperrors.GetField(err))
	})

	t.Run("submits with identity defaults and keeps the draft", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.backend.EXPECT().SubmitOnboarding(gomock.Any(), "tok", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, in mentorship.Onboarding) error {
				assert.Equal(t, "Ada", in.Name)
				assert.Equal(t, "ada@example.com", in.Email)
				return nil
			})

		require.NoError(t, f.svc.SubmitOnboarding(ctx, f.sess, validOnboarding()))

		d, ok, err := f.svc.Draft(ctx, f.sess)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Backend Engineer", d.TargetRole)
	})
}

func TestCandidateService_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newCandidateFixture(t)

	_, ok, err := f.svc.Draft(ctx, f.sess)
	require.NoError(t, err)
	assert.False(t, ok)

	partial := mentorship.Onboarding{CareerGoal: "half done"}
	require.NoError(t, f.svc.SaveDraft(ctx, f.sess, partial))
	got, ok, err := f.svc.Draft(ctx, f.sess)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, partial, got)

	f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok").
		Return(progress.Flags{HasOnboarded: true, CandidateID: "cand-1"}, nil)
	f.backend.EXPECT().GenerateRoadmap(gomock.Any(), "tok", "cand-1").
		Return([]mentorship.RoadmapStep{{ID: "r1", Title: "Foundations"}}, nil)

	steps, err := f.svc.GenerateRoadmap(ctx, f.sess)
	require.NoError(t, err)
	assert.Len(t, steps, 1)

	_, ok, err = f.svc.Draft(ctx, f.sess)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCandidateService_CorruptDraftIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newCandidateFixture(t)
	require.NoError(t, f.store.SaveDraft(ctx, f.sess.ID(), []byte("{not json")))

	_, ok, err := f.svc.Draft(ctx, f.sess)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = f.store.LoadDraft(ctx, f.sess.ID())
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCandidateService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("mentor id required", func(t *testing.T) {
		f := newCandidateFixture(t)
		_, err := f.svc.Checkout(ctx, f.sess, "")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("books and notifies", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok").
			Return(progress.Flags{HasOnboarded: true, HasRoadmap: true, CandidateID: "cand-1"}, nil)
		f.backend.EXPECT().Checkout(gomock.Any(), "tok", "cand-1", "m1").
			Return(ports.CheckoutResult{MentorID: "m1", MentorName: "Grace", SessionsCount: 4, Total: 400}, nil)

		res, err := f.svc.Checkout(ctx, f.sess, "m1")
		require.NoError(t, err)
		assert.Equal(t, "Grace", res.MentorName)
		assert.Equal(t, []ports.NotificationKind{ports.NotifySuccess}, drainKinds(t, f.store, f.sess.ID()))
	})

	t.Run("candidate id falls back to user id", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok").Return(progress.Flags{HasOnboarded: true}, nil)
		f.backend.EXPECT().Checkout(gomock.Any(), "tok", "user-1", "m1").Return(ports.CheckoutResult{}, nil)

		_, err := f.svc.Checkout(ctx, f.sess, "m1")
		require.NoError(t, err)
	})
}

func TestCandidateService_RegenerateRoadmap(t *testing.T) {
	ctx := context.Background()

	t.Run("loaded dashboard takes the new steps", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.expectWorkflowLoad(sampleWorkflow())
		_, err := f.svc.Workflow(ctx, f.sess, false)
		require.NoError(t, err)

		steps := []mentorship.RoadmapStep{{ID: "r1", Title: "Systems design"}, {ID: "r2", Title: "Interview loop"}}
		f.backend.EXPECT().RegenerateRoadmap(gomock.Any(), "tok", "cand-1").Return(steps, nil)

		got, err := f.svc.RegenerateRoadmap(ctx, f.sess)
		require.NoError(t, err)
		assert.Equal(t, steps, got)

		w, err := f.svc.Workflow(ctx, f.sess, false)
		require.NoError(t, err)
		assert.Equal(t, steps, w.Roadmap)
		assert.Equal(t, []ports.NotificationKind{ports.NotifySuccess}, drainKinds(t, f.store, f.sess.ID()))
	})

	t.Run("unauthorized signs out", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.backend.EXPECT().CandidateStatus(gomock.Any(), "tok").
			Return(progress.Flags{HasOnboarded: true, HasRoadmap: true, CandidateID: "cand-1"}, nil)
		f.backend.EXPECT().RegenerateRoadmap(gomock.Any(), "tok", "cand-1").
			Return(nil, apperrors.Unauthorized("Token expired"))

		_, err := f.svc.RegenerateRoadmap(ctx, f.sess)
		assert.True(t, apperrors.IsUnauthorized(err))
		assert.True(t, f.sess.wasInvalidated())
		assert.Empty(t, drainKinds(t, f.store, f.sess.ID()))
	})
}

func TestCandidateService_Mentor(t *testing.T) {
	ctx := context.Background()

	t.Run("id required", func(t *testing.T) {
		f := newCandidateFixture(t)
		_, err := f.svc.Mentor(ctx, f.sess, "")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown mentor", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.backend.EXPECT().GetMentor(gomock.Any(), "tok", "m-404").Return(mentorship.Mentor{}, apperrors.NotFound("Mentor not found"))
		_, err := f.svc.Mentor(ctx, f.sess, "m-404")
		assert.True(t, apperrors.IsNotFound(err))
		assert.False(t, f.sess.wasInvalidated())
	})

	t.Run("returns the listing", func(t *testing.T) {
		f := newCandidateFixture(t)
		f.backend.EXPECT().GetMentor(gomock.Any(), "tok", "m1").Return(mentorship.Mentor{ID: "m1", Name: "Grace", Rating: 4.9}, nil)
		m, err := f.svc.Mentor(ctx, f.sess, "m1")
		require.NoError(t, err)
		assert.Equal(t, "Grace", m.Name)
	})
}
