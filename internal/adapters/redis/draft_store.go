package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guided/guided-web/internal/ports"
)

// DraftStore persists the onboarding wizard's serialized form state.
type DraftStore struct {
	client redis.UniversalClient
	keys   keyspace
	ttl    time.Duration
}

var _ ports.DraftStore = (*DraftStore)(nil)

// NewDraftStore creates a Redis-backed draft store. Drafts expire after ttl (default 7 days).
func NewDraftStore(client redis.UniversalClient, prefix string, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &DraftStore{client: client, keys: newKeyspace(prefix), ttl: ttl}
}

func (s *DraftStore) LoadDraft(ctx context.Context, sessionID string) ([]byte, error) {
	if sessionID == "" {
		return nil, ports.ErrNotFound
	}
	b, err := s.client.Get(ctx, s.keys.key(sessionID, DraftKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("redis get draft: %w", err)
	}
	return b, nil
}

func (s *DraftStore) SaveDraft(ctx context.Context, sessionID string, data []byte) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	if err := s.client.Set(ctx, s.keys.key(sessionID, DraftKey), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

func (s *DraftStore) DeleteDraft(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.keys.key(sessionID, DraftKey)).Err()
}
