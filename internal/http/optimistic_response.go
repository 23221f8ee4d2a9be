package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/optimistic"
)

// mutationResponse carries the view as it stands after an optimistic mutation.
// Pending is true while the backend has not answered yet.
type mutationResponse[V any] struct {
	View    V      `json:"view"`
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`
}

// waitRequested reports whether the caller asked to block until reconciliation (?wait=1).
func waitRequested(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	return ok
}

// respondOptimistic answers immediately with the optimistic view. With ?wait=1 it waits
// for the reconcile and answers with the settled view (reverted on failure) instead.
func respondOptimistic[V, R any](
	w http.ResponseWriter,
	r *http.Request,
	view V,
	p *optimistic.Pending[R],
	current func(context.Context) (V, error),
) {
	if IsHTMX(r) {
		// Reconcile outcomes arrive as toasts; ask the page to poll for them.
		SetHXTrigger(w, notificationsEvent, nil)
	}
	if p == nil || !waitRequested(r) {
		WriteJSON(w, http.StatusOK, mutationResponse[V]{View: view, Pending: p != nil})
		return
	}

	_, err := p.Wait(r.Context())
	if err != nil && apperrors.IsUnauthorized(err) {
		redirectToSignIn(w, r)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// The client gave up; the reconcile continues on its own.
		WriteJSON(w, http.StatusAccepted, mutationResponse[V]{View: view, Pending: true})
		return
	}

	settled, cerr := current(r.Context())
	if cerr != nil {
		settled = view
	}
	if err != nil {
		code, _ := statusFor(err)
		WriteJSON(w, code, mutationResponse[V]{View: settled, Error: apperrors.UserMessage(err)})
		return
	}
	WriteJSON(w, http.StatusOK, mutationResponse[V]{View: settled})
}
