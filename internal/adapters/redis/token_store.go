package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guided/guided-web/internal/ports"
)

// TokenStore persists one bearer token per browser session.
// The key expires with the token so abandoned sessions clean themselves up.
type TokenStore struct {
	client     redis.UniversalClient
	keys       keyspace
	defaultTTL time.Duration
}

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	Prefix string
	// DefaultTTL applies when SaveToken is called without a TTL.
	DefaultTTL time.Duration
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(client redis.UniversalClient, opts TokenStoreOptions) *TokenStore {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = 24 * time.Hour
	}
	return &TokenStore{client: client, keys: newKeyspace(opts.Prefix), defaultTTL: opts.DefaultTTL}
}

func (s *TokenStore) LoadToken(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ports.ErrNotFound
	}
	tok, err := s.client.Get(ctx, s.keys.key(sessionID, TokenKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return tok, nil
}

func (s *TokenStore) SaveToken(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, s.keys.key(sessionID, TokenKey), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.keys.key(sessionID, TokenKey)).Err()
}
