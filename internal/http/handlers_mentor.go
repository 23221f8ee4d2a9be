package httpx

import (
	"context"
	"net/http"

	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/service"
)

// MentorHandlers serves the mentor dashboard and verification screens.
type MentorHandlers struct {
	Svc *service.MentorService
}

// Dashboard handles GET /mentor/dashboard: the request inbox (?reload=1 refetches).
func (h *MentorHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	inbox, err := h.Svc.Inbox(r.Context(), store, reloadRequested(r))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"inbox":   inbox,
		"pending": inbox.PendingCount(),
	})
}

// Overview handles GET /mentor/overview.
func (h *MentorHandlers) Overview(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	o, err := h.Svc.Overview(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, o)
}

// Accept handles POST /mentor/requests/{id}/accept.
func (h *MentorHandlers) Accept(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	view, p, err := h.Svc.Accept(r.Context(), store, r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	respondOptimistic(w, r, view, p, h.currentInbox(store))
}

// Decline handles POST /mentor/requests/{id}/decline.
func (h *MentorHandlers) Decline(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	view, p, err := h.Svc.Decline(r.Context(), store, r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	respondOptimistic(w, r, view, p, h.currentInbox(store))
}

func (h *MentorHandlers) currentInbox(store service.Session) func(context.Context) (mentorship.Inbox, error) {
	return func(ctx context.Context) (mentorship.Inbox, error) {
		return h.Svc.Inbox(ctx, store, false)
	}
}

type verificationView struct {
	State       string `json:"state"`
	Verified    bool   `json:"verified"`
	Pending     bool   `json:"pending"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
}

// Verification handles GET /mentor/verification.
func (h *MentorHandlers) Verification(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	st, err := h.Svc.VerificationStatus(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, verificationView{
		State:       st.State().String(),
		Verified:    st.Verified,
		Pending:     st.Pending,
		LinkedInURL: st.LinkedInURL,
	})
}

type verificationRequest struct {
	LinkedInURL string `json:"linkedinUrl"`
}

// SubmitVerification handles POST /mentor/verification.
func (h *MentorHandlers) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var in verificationRequest
	if !DecodeJSON(w, r, &in) {
		return
	}
	st, err := h.Svc.SubmitVerification(r.Context(), store, in.LinkedInURL)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, verificationView{
		State:       st.State().String(),
		Verified:    st.Verified,
		Pending:     st.Pending,
		LinkedInURL: st.LinkedInURL,
	})
}
