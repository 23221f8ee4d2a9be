package mentorship

import (
	"fmt"
	"slices"
)

// RequestStatus is the state of a mentorship request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestDeclined RequestStatus = "declined"
)

// Terminal reports whether no further transition is possible.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestDeclined
}

// Transition validates pending -> {accepted, declined}. Nothing leads back to pending.
func Transition(from, to RequestStatus) error {
	if from != RequestPending {
		return fmt.Errorf("request is already %s", from)
	}
	if to != RequestAccepted && to != RequestDeclined {
		return fmt.Errorf("invalid request transition %s -> %s", from, to)
	}
	return nil
}

// Request is a candidate's request for mentorship addressed to a mentor.
type Request struct {
	ID            string        `json:"id"`
	CandidateName string        `json:"candidateName"`
	CandidateGoal string        `json:"candidateGoal"`
	Experience    string        `json:"experience"`
	Status        RequestStatus `json:"status"`
	SubmittedAt   string        `json:"submittedAt"`
	CandidateID   string        `json:"candidateId,omitempty"`
	MentorID      string        `json:"mentorId,omitempty"`
}

// Inbox is the mentor's request list view model.
type Inbox struct {
	MentorID string    `json:"mentorId"`
	Requests []Request `json:"requests"`
}

// Clone returns a deep copy.
func (b Inbox) Clone() Inbox {
	out := b
	out.Requests = slices.Clone(b.Requests)
	return out
}

// Index returns the position of request id, or -1.
func (b *Inbox) Index(id string) int {
	return slices.IndexFunc(b.Requests, func(r Request) bool { return r.ID == id })
}

// PendingCount returns the number of requests still awaiting a decision.
func (b Inbox) PendingCount() int {
	n := 0
	for _, r := range b.Requests {
		if r.Status == RequestPending {
			n++
		}
	}
	return n
}

// PendingVerification is a mentor application awaiting admin review.
type PendingVerification struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Experience  int    `json:"experience"`
	SubmittedAt string `json:"submittedAt"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	UserID      string `json:"userId,omitempty"`
}

// ReviewQueue is the admin's pending verification view model.
type ReviewQueue struct {
	Items []PendingVerification `json:"items"`
}

// Clone returns a deep copy.
func (q ReviewQueue) Clone() ReviewQueue {
	return ReviewQueue{Items: slices.Clone(q.Items)}
}

// Remove takes the entry with id out of the queue and reports where it was,
// so a failed review can put it back in the same position.
func (q *ReviewQueue) Remove(id string) (PendingVerification, int, bool) {
	i := slices.IndexFunc(q.Items, func(p PendingVerification) bool { return p.ID == id })
	if i < 0 {
		return PendingVerification{}, -1, false
	}
	item := q.Items[i]
	q.Items = slices.Delete(q.Items, i, i+1)
	return item, i, true
}

// Restore reinserts item at index i, clamped to the current length.
func (q *ReviewQueue) Restore(item PendingVerification, i int) {
	if i < 0 || i > len(q.Items) {
		i = len(q.Items)
	}
	q.Items = slices.Insert(q.Items, i, item)
}
