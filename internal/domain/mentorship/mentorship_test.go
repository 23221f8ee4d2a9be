package mentorship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkflow() Workflow {
	w := Workflow{
		CandidateID: "u-1",
		ActionItems: []ActionItem{
			{ID: "a1", Title: "Update resume"},
			{ID: "a2", Title: "Mock interview", Completed: true},
		},
		Sessions: []Session{
			{ID: "s1", Status: SessionCompleted},
			{ID: "s2", Status: SessionUpcoming},
		},
	}
	w.Recount()
	return w
}

func TestWorkflowRecount(t *testing.T) {
	w := sampleWorkflow()
	assert.Equal(t, 1, w.CompletedActions)
	assert.Equal(t, 1, w.CompletedSessions)
}

func TestWorkflowSetActionCompleted(t *testing.T) {
	w := sampleWorkflow()

	require.True(t, w.SetActionCompleted("a1", true))
	assert.True(t, w.ActionItems[0].Completed)
	assert.Equal(t, 2, w.CompletedActions)

	assert.False(t, w.SetActionCompleted("a1", true), "no-op when already in state")
	assert.Equal(t, 2, w.CompletedActions)

	require.True(t, w.SetActionCompleted("a1", false))
	assert.Equal(t, 1, w.CompletedActions)

	assert.False(t, w.SetActionCompleted("missing", true))
}

func TestWorkflowSetSessionStatus(t *testing.T) {
	w := sampleWorkflow()

	require.True(t, w.SetSessionStatus("s2", SessionCompleted))
	assert.Equal(t, 2, w.CompletedSessions)

	require.True(t, w.SetSessionStatus("s2", SessionUpcoming))
	assert.Equal(t, 1, w.CompletedSessions)

	assert.False(t, w.SetSessionStatus("nope", SessionCompleted))
}

func TestWorkflowCloneIsDeep(t *testing.T) {
	w := sampleWorkflow()
	w.NextSession = &Session{ID: "s2"}
	c := w.Clone()

	c.ActionItems[0].Completed = true
	c.NextSession.ID = "changed"

	assert.False(t, w.ActionItems[0].Completed)
	assert.Equal(t, "s2", w.NextSession.ID)
}

func TestTransition(t *testing.T) {
	assert.NoError(t, Transition(RequestPending, RequestAccepted))
	assert.NoError(t, Transition(RequestPending, RequestDeclined))
	assert.Error(t, Transition(RequestAccepted, RequestDeclined))
	assert.Error(t, Transition(RequestDeclined, RequestPending))
	assert.Error(t, Transition(RequestPending, RequestPending))
	assert.True(t, RequestAccepted.Terminal())
	assert.False(t, RequestPending.Terminal())
}

func TestInbox(t *testing.T) {
	b := Inbox{Requests: []Request{
		{ID: "r1", Status: RequestPending},
		{ID: "r2", Status: RequestAccepted},
	}}
	assert.Equal(t, 1, b.PendingCount())
	assert.Equal(t, 1, b.Index("r2"))
	assert.Equal(t, -1, b.Index("r3"))

	c := b.Clone()
	c.Requests[0].Status = RequestDeclined
	assert.Equal(t, RequestPending, b.Requests[0].Status)
}

func TestReviewQueueRemoveRestore(t *testing.T) {
	q := ReviewQueue{Items: []PendingVerification{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}}}

	item, idx, ok := q.Remove("m2")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "m2", item.ID)
	assert.Len(t, q.Items, 2)

	q.Restore(item, idx)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{q.Items[0].ID, q.Items[1].ID, q.Items[2].ID})

	_, _, ok = q.Remove("missing")
	assert.False(t, ok)

	q.Restore(PendingVerification{ID: "m4"}, 99)
	assert.Equal(t, "m4", q.Items[len(q.Items)-1].ID)
}

func TestOverviewPredicates(t *testing.T) {
	assert.False(t, MentorOverview{MentorName: "Sam"}.HasProfile())
	assert.True(t, MentorOverview{MentorID: "m-1"}.HasProfile())

	assert.False(t, MentorAccount{CurrentWorkload: 3}.AtCapacity(), "no limit set")
	assert.False(t, MentorAccount{CurrentWorkload: 2, MaxWorkload: 3}.AtCapacity())
	assert.True(t, MentorAccount{CurrentWorkload: 3, MaxWorkload: 3}.AtCapacity())

	assert.False(t, MenteeAccount{ID: "c-1"}.Matched())
	assert.True(t, MenteeAccount{ID: "c-1", MentorID: "m-1"}.Matched())
}
