package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/ports"
)

// toaster queues dismissible notifications. A nil Notifier drops them.
type toaster struct {
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func (t toaster) push(ctx context.Context, sessionID string, kind ports.NotificationKind, msg, url string) {
	if t.notifier == nil {
		return
	}
	n := ports.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   msg,
		URL:       url,
		CreatedAt: t.now(),
	}
	if err := t.notifier.Notify(ctx, sessionID, n); err != nil {
		t.logger.WarnContext(ctx, "queue notification failed", "error", err, "kind", kind)
	}
}

func (t toaster) success(ctx context.Context, sessionID, msg string) {
	t.push(ctx, sessionID, ports.NotifySuccess, msg, "")
}

// failure reports err, from a call made with token, to the user. Authorization failures end
// the session silently instead.
func (t toaster) failure(ctx context.Context, sess Session, token string, err error) {
	if apperrors.IsUnauthorized(err) {
		_ = sess.Observe(ctx, token, err)
		return
	}
	t.push(ctx, sess.ID(), ports.NotifyError, apperrors.UserMessage(err), "")
}

// NotificationOpener implements ports.Opener by queueing an open_url notification that the
// browser acts on when it drains its queue.
type NotificationOpener struct {
	Queue ports.Notifier
	Now   func() time.Time
}

var _ ports.Opener = (*NotificationOpener)(nil)

func (o *NotificationOpener) Open(ctx context.Context, sessionID, url string) error {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return o.Queue.Notify(ctx, sessionID, ports.Notification{
		ID:        uuid.NewString(),
		Kind:      ports.NotifyOpenURL,
		Message:   "Opening your calendar invite",
		URL:       url,
		CreatedAt: now(),
	})
}
