// Package auth contains domain-level types for identities, roles, and client sessions.
// It is pure and free of framework/adapter concerns.
package auth

import "strings"

// Role represents a platform role.
// Keep string form for easy persistence and JSON round-trips with the backend.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleMentor    Role = "mentor"
	RoleAdmin     Role = "admin"
)

// ParseRole normalises a backend role string. Unknown values are returned as-is so
// callers can still route them (the gate treats unknown roles like candidates).
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether r is one of the known platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleMentor, RoleAdmin:
		return true
	default:
		return false
	}
}

// Identity is the authenticated user's profile as returned by the backend.
// It is owned exclusively by the session store.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
}

// IsMentor returns true if the identity belongs to a mentor.
func (i Identity) IsMentor() bool { return i.Role == RoleMentor }

// Credentials carries a login attempt.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// SignupInput is the enriched registration payload.
type SignupInput struct {
	Email       string `json:"email"        validate:"required,email,max=254"`
	Password    string `json:"password"     validate:"required,min=6,max=128"`
	Name        string `json:"name"         validate:"required,max=120"`
	Role        Role   `json:"role"         validate:"required,oneof=candidate mentor admin"`
	LinkedInURL string `json:"linkedin_url" validate:"omitempty,linkedin"`
}

// AuthResponse is the backend's answer to a successful login or signup.
type AuthResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// SessionState is the read-only snapshot the access gate consumes.
// Loading is true until the store's initial restore has finished.
type SessionState struct {
	Loading  bool
	Identity *Identity
}

// Authenticated returns true when restore has finished and an identity is present.
func (s SessionState) Authenticated() bool { return !s.Loading && s.Identity != nil }

// AuthResult is what login and signup return to callers.
// Callers branch only on Success; Error is a human-readable message.
type AuthResult struct {
	Success bool      `json:"success"`
	User    *Identity `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}
