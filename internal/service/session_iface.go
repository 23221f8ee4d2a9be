package service

import (
	"context"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
)

// Session is the per-browser view the screen services act on. *SessionStore implements it.
type Session interface {
	ID() string
	Token() string
	Identity() (domainauth.Identity, bool)
	Views() *Views
	// Observe invalidates the session when err is an authorization failure for a call made
	// with token and token is still the session's bearer. It returns err.
	Observe(ctx context.Context, token string, err error) error
	// IsCurrent reports whether token is still the session's bearer.
	IsCurrent(token string) bool
}

var _ Session = (*SessionStore)(nil)
