package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/service"
)

// AdminHandlers serves the mentor verification queue.
type AdminHandlers struct {
	Svc *service.AdminService
}

// Queue handles GET /admin (?reload=1 refetches).
func (h *AdminHandlers) Queue(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	q, err := h.Svc.Queue(r.Context(), store, reloadRequested(r))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, q)
}

// Overview handles GET /admin/overview.
func (h *AdminHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	o, err := h.Svc.Overview(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, o)
}

// Mentors handles GET /admin/mentors.
func (h *AdminHandlers) Mentors(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	mentors, err := h.Svc.Mentors(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"mentors": mentors})
}

// Mentees handles GET /admin/mentees (?status= filters).
func (h *AdminHandlers) Mentees(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	mentees, err := h.Svc.Mentees(r.Context(), store, r.URL.Query().Get("status"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"mentees": mentees})
}

// Mentee handles GET /admin/mentees/{id}.
func (h *AdminHandlers) Mentee(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	m, err := h.Svc.Mentee(r.Context(), store, r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

// Verify handles POST /admin/mentors/{id}/verify.
func (h *AdminHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	view, p, err := h.Svc.Verify(r.Context(), store, r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	respondOptimistic(w, r, view, p, h.currentQueue(store))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles POST /admin/mentors/{id}/reject with an optional {reason}.
func (h *AdminHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var in rejectRequest
	if !decodeOptionalJSON(w, r, &in) {
		return
	}
	view, p, err := h.Svc.Reject(r.Context(), store, r.PathValue("id"), in.Reason)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	respondOptimistic(w, r, view, p, h.currentQueue(store))
}

func (h *AdminHandlers) currentQueue(store service.Session) func(context.Context) (mentorship.ReviewQueue, error) {
	return func(ctx context.Context) (mentorship.ReviewQueue, error) {
		return h.Svc.Queue(ctx, store, false)
	}
}

// decodeOptionalJSON is DecodeJSON that accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	if len(body) == 0 {
		return true
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return DecodeJSON(w, r, dst)
}
