package ports

// Package ports defines interfaces (hexagonal ports) for the client's collaborators.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no value is persisted under a key.
var ErrNotFound = errors.New("not found")

// TokenStore is durable client storage for the bearer token of one browser session.
// Every session keeps a single string value under a fixed key name.
type TokenStore interface {
	LoadToken(ctx context.Context, sessionID string) (string, error)
	SaveToken(ctx context.Context, sessionID, token string, ttl time.Duration) error
	DeleteToken(ctx context.Context, sessionID string) error
}

// DraftStore keeps the serialized onboarding wizard state between the wizard and the roadmap screen.
type DraftStore interface {
	LoadDraft(ctx context.Context, sessionID string) ([]byte, error)
	SaveDraft(ctx context.Context, sessionID string, data []byte) error
	DeleteDraft(ctx context.Context, sessionID string) error
}
