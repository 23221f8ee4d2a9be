package progress

// VerificationState is the mentor verification tri-state.
type VerificationState int

const (
	VerificationUnsubmitted VerificationState = iota
	VerificationPending
	VerificationVerified
)

func (v VerificationState) String() string {
	switch v {
	case VerificationPending:
		return "pending"
	case VerificationVerified:
		return "verified"
	default:
		return "unsubmitted"
	}
}

// VerificationStatus is the backend's verification-status payload.
type VerificationStatus struct {
	Verified    bool   `json:"verified"`
	Pending     bool   `json:"pending"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
}

// State collapses the two backend booleans. Verified wins over pending.
func (s VerificationStatus) State() VerificationState {
	switch {
	case s.Verified:
		return VerificationVerified
	case s.Pending:
		return VerificationPending
	default:
		return VerificationUnsubmitted
	}
}

// ResolveMentor maps the verification state to one of the two mentor destinations.
func ResolveMentor(v VerificationState) Destination {
	if v == VerificationVerified {
		return DestinationMentorDashboard
	}
	return DestinationMentorVerification
}

// Submit returns the state after a successful verification submission.
// A verified mentor stays verified; anyone else becomes pending.
func (v VerificationState) Submit() VerificationState {
	if v == VerificationVerified {
		return v
	}
	return VerificationPending
}
