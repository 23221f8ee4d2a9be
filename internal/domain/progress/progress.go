// Package progress resolves where a user belongs in the candidate and mentor lifecycles.
//
// Everything here is pure: the same input always yields the same destination, so every
// navigation entry point (landing, post-login redirect, dashboard shortcut) agrees.
package progress

// Destination is a canonical in-app route.
type Destination string

const (
	// DestinationNone is the zero value; the candidate resolver never returns it.
	DestinationNone Destination = ""

	DestinationOnboarding      Destination = "/candidate/onboarding"
	DestinationRoadmap         Destination = "/candidate/roadmap"
	DestinationMentorDiscovery Destination = "/candidate/mentors"
	DestinationWorkflow        Destination = "/candidate/workflow"

	DestinationMentorDashboard    Destination = "/mentor/dashboard"
	DestinationMentorVerification Destination = "/mentor/verification"

	DestinationAdminHome Destination = "/admin"
)

// String implements fmt.Stringer.
func (d Destination) String() string { return string(d) }

// Flags are the backend-reported candidate progress booleans.
// The expected (unverified) implication is HasMentor => HasRoadmap => HasOnboarded.
type Flags struct {
	Status       string `json:"status"`
	HasOnboarded bool   `json:"hasOnboarded"`
	HasRoadmap   bool   `json:"hasRoadmap"`
	HasMentor    bool   `json:"hasMentor"`
	CandidateID  string `json:"candidateId,omitempty"`
}

// Consistent reports whether the flags respect the cumulative ordering.
// The resolver tolerates inconsistent flags; this is only used for logging.
func (f Flags) Consistent() bool {
	if f.HasMentor && !f.HasRoadmap {
		return false
	}
	if f.HasRoadmap && !f.HasOnboarded {
		return false
	}
	return true
}

// Stage is the candidate lifecycle stage derived from Flags.
type Stage int

const (
	StageOnboarding Stage = iota
	StageRoadmap
	StageMentorDiscovery
	StageWorkflow
)

var stageNames = [...]string{"onboarding", "roadmap", "mentor_discovery", "workflow"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Destination maps a stage to its route.
func (s Stage) Destination() Destination {
	switch s {
	case StageWorkflow:
		return DestinationWorkflow
	case StageMentorDiscovery:
		return DestinationMentorDiscovery
	case StageRoadmap:
		return DestinationRoadmap
	default:
		return DestinationOnboarding
	}
}

// CandidateStage evaluates flags in fixed priority order: mentor > roadmap > onboarded > none.
func CandidateStage(f Flags) Stage {
	switch {
	case f.HasMentor:
		return StageWorkflow
	case f.HasRoadmap:
		return StageMentorDiscovery
	case f.HasOnboarded:
		return StageRoadmap
	default:
		return StageOnboarding
	}
}

// ResolveCandidate returns the single canonical next step for a candidate.
func ResolveCandidate(f Flags) Destination {
	return CandidateStage(f).Destination()
}

// FallbackCandidate is the destination used when the flags could not be fetched.
// Restarting the funnel is always safe; blocking navigation is not.
func FallbackCandidate() Destination { return DestinationOnboarding }
