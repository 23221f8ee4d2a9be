package httpx

import (
	"context"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/service"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the browser's session store.
// If store is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, store *service.SessionStore) context.Context {
	if store == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, store)
}

// SessionFromContext returns the session store loaded by the Sessions middleware.
func SessionFromContext(ctx context.Context) (*service.SessionStore, bool) {
	s, ok := ctx.Value(sessionKey{}).(*service.SessionStore)
	return s, ok && s != nil
}

// IdentityFromContext returns the signed-in identity, if any.
func IdentityFromContext(ctx context.Context) (domainauth.Identity, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return domainauth.Identity{}, false
	}
	return s.Identity()
}
