package ports

import (
	"context"
	"time"
)

// NotificationKind classifies a toast.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
	// NotifyOpenURL asks the browser to open URL in a new browsing context.
	NotifyOpenURL NotificationKind = "open_url"
)

// Notification is a dismissible message queued for one browser session.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	URL       string           `json:"url,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Notifier queues toasts for a browser session.
type Notifier interface {
	Notify(ctx context.Context, sessionID string, n Notification) error
}

// NotificationQueue is a Notifier that can also be drained by the browser.
type NotificationQueue interface {
	Notifier
	Drain(ctx context.Context, sessionID string) ([]Notification, error)
}

// Opener performs the irreversible "open this link elsewhere" side effect.
type Opener interface {
	Open(ctx context.Context, sessionID, url string) error
}
