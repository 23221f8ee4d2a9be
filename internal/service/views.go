package service

import (
	"sync"

	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/optimistic"
)

// Views holds one browser session's screen view models. Each is created on first load
// and then edited in place by optimistic mutations.
type Views struct {
	mu       sync.Mutex
	workflow *optimistic.State[mentorship.Workflow]
	inbox    *optimistic.State[mentorship.Inbox]
	queue    *optimistic.State[mentorship.ReviewQueue]
}

// Workflow returns the candidate dashboard state if it has been loaded.
func (v *Views) Workflow() (*optimistic.State[mentorship.Workflow], bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.workflow, v.workflow != nil
}

// PutWorkflow installs an authoritative dashboard view, keeping the same State so
// in-flight reconciles still land on it.
func (v *Views) PutWorkflow(w mentorship.Workflow) *optimistic.State[mentorship.Workflow] {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.workflow == nil {
		v.workflow = optimistic.NewState(w)
	} else {
		v.workflow.Replace(w)
	}
	return v.workflow
}

// Inbox returns the mentor request list state if it has been loaded.
func (v *Views) Inbox() (*optimistic.State[mentorship.Inbox], bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inbox, v.inbox != nil
}

// PutInbox installs an authoritative request list.
func (v *Views) PutInbox(b mentorship.Inbox) *optimistic.State[mentorship.Inbox] {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inbox == nil {
		v.inbox = optimistic.NewState(b)
	} else {
		v.inbox.Replace(b)
	}
	return v.inbox
}

// Queue returns the admin review queue state if it has been loaded.
func (v *Views) Queue() (*optimistic.State[mentorship.ReviewQueue], bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queue, v.queue != nil
}

// PutQueue installs an authoritative review queue.
func (v *Views) PutQueue(q mentorship.ReviewQueue) *optimistic.State[mentorship.ReviewQueue] {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.queue == nil {
		v.queue = optimistic.NewState(q)
	} else {
		v.queue.Replace(q)
	}
	return v.queue
}

// Reset forgets every view. Used when the signed-in user changes.
func (v *Views) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.workflow, v.inbox, v.queue = nil, nil, nil
}
