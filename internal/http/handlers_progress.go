package httpx

import (
	"net/http"

	"github.com/guided/guided-web/internal/service"
)

// ProgressHandlers routes signed-in users to their single next step.
type ProgressHandlers struct {
	Svc *service.ProgressService
}

// Start handles the landing routes (/, /start, /candidate, /mentor): it sends the user to
// the resolved destination. It is always mounted behind the gate.
func (h *ProgressHandlers) Start(w http.ResponseWriter, r *http.Request) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	dest := h.Svc.NextFor(r.Context(), store)
	if dest.String() == "" {
		redirectToSignIn(w, r)
		return
	}
	navigate(w, r, dest.String())
}

// Next handles GET /next, the dashboard shortcut: it reports the destination without navigating.
func (h *ProgressHandlers) Next(w http.ResponseWriter, r *http.Request) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"destination": h.Svc.NextFor(r.Context(), store).String(),
	})
}
