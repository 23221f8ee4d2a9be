// Package gate decides whether a protected screen may render for the current session.
package gate

import (
	"slices"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
)

// Kind enumerates gate outcomes.
type Kind int

const (
	// Loading means the session has not finished restoring; show a neutral indicator only.
	Loading Kind = iota
	// RedirectSignIn means there is no identity.
	RedirectSignIn
	// RedirectHome means the identity's role is not allowed here.
	RedirectHome
	// Render means the wrapped content may be shown unmodified.
	Render
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case RedirectSignIn:
		return "redirect_sign_in"
	case RedirectHome:
		return "redirect_home"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Well-known locations.
const (
	SignInPath        = "/signin"
	CandidateHomePath = "/candidate"
	MentorHomePath    = "/mentor"
	AdminHomePath     = "/"
)

// Decision is the gate's verdict. Location is set for the two redirect kinds.
type Decision struct {
	Kind     Kind
	Location string
}

// Renders reports whether the protected content may be written.
func (d Decision) Renders() bool { return d.Kind == Render }

// HomeFor returns the canonical home of a role. Unknown roles land on the candidate home.
func HomeFor(role domainauth.Role) string {
	switch role {
	case domainauth.RoleMentor:
		return MentorHomePath
	case domainauth.RoleAdmin:
		return AdminHomePath
	default:
		return CandidateHomePath
	}
}

// Decide evaluates the session snapshot against the allowed roles.
// An empty allowed set admits any authenticated identity.
func Decide(state domainauth.SessionState, allowed []domainauth.Role) Decision {
	if state.Loading {
		return Decision{Kind: Loading}
	}
	if state.Identity == nil {
		return Decision{Kind: RedirectSignIn, Location: SignInPath}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, state.Identity.Role) {
		return Decision{Kind: RedirectHome, Location: HomeFor(state.Identity.Role)}
	}
	return Decision{Kind: Render}
}
