package httpx

import (
	"log/slog"
	"net/http"

	"github.com/guided/guided-web/internal/ports"
)

// NotificationHandlers lets the client drain its queued toasts.
type NotificationHandlers struct {
	Queue  ports.NotificationQueue
	Logger *slog.Logger
}

// Drain handles GET /notifications. Each toast is delivered once.
func (h *NotificationHandlers) Drain(w http.ResponseWriter, r *http.Request) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ns, err := h.Queue.Drain(r.Context(), store.ID())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "drain notifications failed", "error", err)
		}
		// Toasts are best effort; an empty list keeps the client polling.
		ns = nil
	}
	if ns == nil {
		ns = []ports.Notification{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"notifications": ns})
}
