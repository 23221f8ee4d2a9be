// Package mentorship holds the entities that screens mutate optimistically.
package mentorship

import "slices"

// ActionItem is a task assigned to a candidate.
type ActionItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	DueDate   string `json:"dueDate"`
}

// SessionStatus is the lifecycle of a mentoring session.
type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionCompleted SessionStatus = "completed"
)

// Session is a scheduled or completed mentoring session.
type Session struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Date   string        `json:"date"`
	Time   string        `json:"time"`
	Status SessionStatus `json:"status"`
	Mentor string        `json:"mentor"`
	Notes  string        `json:"notes,omitempty"`
}

// RoadmapStep is a single phase of a candidate's roadmap.
type RoadmapStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Status      string `json:"status"`
}

// Workflow is the candidate dashboard view model.
// CompletedActions and CompletedSessions are derived counters kept alongside the lists.
type Workflow struct {
	CandidateID       string        `json:"candidateId"`
	MentorName        string        `json:"mentorName,omitempty"`
	Status            string        `json:"status,omitempty"`
	OverallProgress   int           `json:"overallProgress"`
	Roadmap           []RoadmapStep `json:"roadmap"`
	Sessions          []Session     `json:"sessions"`
	ActionItems       []ActionItem  `json:"actionItems"`
	CompletedActions  int           `json:"completedActions"`
	CompletedSessions int           `json:"completedSessions"`
	NextSession       *Session      `json:"nextSession,omitempty"`
}

// Clone returns a deep copy safe to hand to renderers.
func (w Workflow) Clone() Workflow {
	out := w
	out.Roadmap = slices.Clone(w.Roadmap)
	out.Sessions = slices.Clone(w.Sessions)
	out.ActionItems = slices.Clone(w.ActionItems)
	if w.NextSession != nil {
		next := *w.NextSession
		out.NextSession = &next
	}
	return out
}

// Recount recomputes the derived counters from the lists.
func (w *Workflow) Recount() {
	w.CompletedActions = 0
	for _, a := range w.ActionItems {
		if a.Completed {
			w.CompletedActions++
		}
	}
	w.CompletedSessions = 0
	for _, s := range w.Sessions {
		if s.Status == SessionCompleted {
			w.CompletedSessions++
		}
	}
}

// ActionIndex returns the index of the action item with id, or -1.
func (w *Workflow) ActionIndex(id string) int {
	return slices.IndexFunc(w.ActionItems, func(a ActionItem) bool { return a.ID == id })
}

// SessionIndex returns the index of the session with id, or -1.
func (w *Workflow) SessionIndex(id string) int {
	return slices.IndexFunc(w.Sessions, func(s Session) bool { return s.ID == id })
}

// SetActionCompleted sets one item's flag and moves the counter by exactly the change.
// It returns false if the item is missing or already in that state.
func (w *Workflow) SetActionCompleted(id string, completed bool) bool {
	i := w.ActionIndex(id)
	if i < 0 || w.ActionItems[i].Completed == completed {
		return false
	}
	w.ActionItems[i].Completed = completed
	if completed {
		w.CompletedActions++
	} else {
		w.CompletedActions--
	}
	return true
}

// SetSessionStatus sets one session's status and moves the counter accordingly.
func (w *Workflow) SetSessionStatus(id string, status SessionStatus) bool {
	i := w.SessionIndex(id)
	if i < 0 || w.Sessions[i].Status == status {
		return false
	}
	prev := w.Sessions[i].Status
	w.Sessions[i].Status = status
	switch {
	case status == SessionCompleted:
		w.CompletedSessions++
	case prev == SessionCompleted:
		w.CompletedSessions--
	}
	return true
}

// Mentor is a marketplace listing.
type Mentor struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	Company         string  `json:"company"`
	Domain          string  `json:"domain"`
	Experience      int     `json:"experience"`
	PricePerSession float64 `json:"pricePerSession"`
	Available       bool    `json:"available"`
	Rating          float64 `json:"rating"`
}

// Onboarding is the wizard's form state, also used as the persisted draft.
type Onboarding struct {
	CareerGoal      string `json:"careerGoal"      validate:"required,max=500"`
	TargetRole      string `json:"targetRole"      validate:"required,max=200"`
	TargetCompany   string `json:"targetCompany"   validate:"max=200"`
	SkillLevel      string `json:"skillLevel"      validate:"required,oneof=beginner intermediate advanced"`
	ExperienceLevel string `json:"experienceLevel" validate:"required,oneof=0 1-2 3-5 5+"`
	ResumeUploaded  bool   `json:"resumeUploaded"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
}
