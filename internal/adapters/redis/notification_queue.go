package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guided/guided-web/internal/ports"
)

// NotificationQueue is a per-session toast list. Only the newest maxLen entries are kept.
type NotificationQueue struct {
	client redis.UniversalClient
	keys   keyspace
	ttl    time.Duration
	maxLen int64
}

var _ ports.NotificationQueue = (*NotificationQueue)(nil)

// NotificationQueueOptions configures a NotificationQueue.
type NotificationQueueOptions struct {
	Prefix string
	TTL    time.Duration
	MaxLen int64
}

// NewNotificationQueue creates a Redis-backed toast queue.
func NewNotificationQueue(client redis.UniversalClient, opts NotificationQueueOptions) *NotificationQueue {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.MaxLen <= 0 {
		opts.MaxLen = 50
	}
	return &NotificationQueue{client: client, keys: newKeyspace(opts.Prefix), ttl: opts.TTL, maxLen: opts.MaxLen}
}

func (q *NotificationQueue) Notify(ctx context.Context, sessionID string, n ports.Notification) error {
	if sessionID == "" {
		return errEmptySessionID
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	key := q.keys.key(sessionID, NotificationKey)
	_, err = q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, data)
		p.LTrim(ctx, key, -q.maxLen, -1)
		p.Expire(ctx, key, q.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push notification: %w", err)
	}
	return nil
}

// Drain returns and removes every queued toast in arrival order.
func (q *NotificationQueue) Drain(ctx context.Context, sessionID string) ([]ports.Notification, error) {
	if sessionID == "" {
		return nil, nil
	}
	key := q.keys.key(sessionID, NotificationKey)

	var items *redis.StringSliceCmd
	_, err := q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		items = p.LRange(ctx, key, 0, -1)
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis drain notifications: %w", err)
	}

	raw := items.Val()
	out := make([]ports.Notification, 0, len(raw))
	for _, r := range raw {
		var n ports.Notification
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			// A corrupt entry should not hide the rest of the queue.
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
