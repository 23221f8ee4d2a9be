package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/guided/guided-web/internal/domain/mentorship"
	"github.com/guided/guided-web/internal/domain/progress"
	"github.com/guided/guided-web/internal/service"
)

// CandidateHandlers serves the candidate screens.
type CandidateHandlers struct {
	Svc *service.CandidateService
}

func reloadRequested(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("reload"))
	return ok
}

// Status handles GET /candidate/status.
func (h *CandidateHandlers) Status(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	flags, err := h.Svc.Status(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, flags)
}

type onboardingView struct {
	Draft    mentorship.Onboarding `json:"draft"`
	HasDraft bool                  `json:"hasDraft"`
}

// Onboarding handles GET /candidate/onboarding: the wizard with any saved draft.
func (h *CandidateHandlers) Onboarding(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	d, ok, err := h.Svc.Draft(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, onboardingView{Draft: d, HasDraft: ok})
}

// SaveDraft handles PUT /candidate/onboarding/draft.
func (h *CandidateHandlers) SaveDraft(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var d mentorship.Onboarding
	if !DecodeJSON(w, r, &d) {
		return
	}
	if err := h.Svc.SaveDraft(r.Context(), store, d); err != nil {
		WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitOnboarding handles POST /candidate/onboarding.
func (h *CandidateHandlers) SubmitOnboarding(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var d mentorship.Onboarding
	if !DecodeJSON(w, r, &d) {
		return
	}
	if err := h.Svc.SubmitOnboarding(r.Context(), store, d); err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"next": progress.DestinationRoadmap.String()})
}

// GenerateRoadmap handles POST /candidate/roadmap.
func (h *CandidateHandlers) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	steps, err := h.Svc.GenerateRoadmap(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"roadmap": steps,
		"next":    progress.DestinationMentorDiscovery.String(),
	})
}

// RegenerateRoadmap handles POST /candidate/roadmap/regenerate.
func (h *CandidateHandlers) RegenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	steps, err := h.Svc.RegenerateRoadmap(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roadmap": steps})
}

// Mentors handles GET /candidate/mentors.
func (h *CandidateHandlers) Mentors(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	mentors, err := h.Svc.Mentors(r.Context(), store)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"mentors": mentors})
}

// Mentor handles GET /candidate/mentors/{id}.
func (h *CandidateHandlers) Mentor(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	m, err := h.Svc.Mentor(r.Context(), store, r.PathValue("id"))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

type checkoutRequest struct {
	MentorID string `json:"mentorId"`
}

// Checkout handles POST /candidate/checkout.
func (h *CandidateHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var in checkoutRequest
	if !DecodeJSON(w, r, &in) {
		return
	}
	res, err := h.Svc.Checkout(r.Context(), store, in.MentorID)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"checkout": res,
		"next":     progress.DestinationWorkflow.String(),
	})
}

// Workflow handles GET /candidate/workflow (?reload=1 refetches).
func (h *CandidateHandlers) Workflow(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	wf, err := h.Svc.Workflow(r.Context(), store, reloadRequested(r))
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, wf)
}

type toggleRequest struct {
	Completed bool `json:"completed"`
}

// ToggleAction handles POST /candidate/actions/{id}/toggle.
func (h *CandidateHandlers) ToggleAction(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var in toggleRequest
	if !DecodeJSON(w, r, &in) {
		return
	}
	view, p, err := h.Svc.ToggleAction(r.Context(), store, r.PathValue("id"), in.Completed)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	respondOptimistic(w, r, view, p, h.currentWorkflow(store))
}

type completeSessionRequest struct {
	Notes string `json:"notes"`
}

// CompleteSession handles POST /candidate/sessions/{id}/complete.
func (h *CandidateHandlers) CompleteSession(w http.ResponseWriter, r *http.Request) {
	store, _ := SessionFromContext(r.Context())
	var in completeSessionRequest
	if !DecodeJSON(w, r, &in) {
		return
	}
	view, p, err := h.Svc.CompleteSession(r.Context(), store, r.PathValue("id"), in.Notes)
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}
	respondOptimistic(w, r, view, p, h.currentWorkflow(store))
}

func (h *CandidateHandlers) currentWorkflow(store service.Session) func(context.Context) (mentorship.Workflow, error) {
	return func(ctx context.Context) (mentorship.Workflow, error) {
		return h.Svc.Workflow(ctx, store, false)
	}
}
