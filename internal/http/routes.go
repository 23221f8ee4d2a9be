package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/ports"
	"github.com/guided/guided-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions      SessionAcquirer
	Progress      *service.ProgressService
	Candidate     *service.CandidateService
	Mentor        *service.MentorService
	Admin         *service.AdminService
	Notifications ports.NotificationQueue
	// Optional: readiness probe target. /readyz is not mounted when nil.
	Backend      Pinger
	ReadyTimeout time.Duration
	// Optional: Prometheus exposition handler for /metrics.
	Metrics     http.Handler
	GateMetrics metrics.Sink
	RestoreWait time.Duration
	Cookie      SessionCookieConfig
	// CSRF enables double-submit protection on unsafe methods when non-nil.
	CSRF   *CSRFConfig
	Logger *slog.Logger
}

// NewRouter creates the HTTP router. Probes and /metrics bypass the session layer;
// everything else runs with a per-browser SessionStore in the request context.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	restoreWait := services.RestoreWait
	if restoreWait <= 0 {
		restoreWait = DefaultRestoreWait
	}

	root := http.NewServeMux()
	root.Handle("GET "+PathHealth, http.HandlerFunc(healthHandler))
	root.Handle("HEAD "+PathHealth, http.HandlerFunc(healthHandler))
	if services.Backend != nil {
		timeout := services.ReadyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		root.Handle("GET "+PathReady, readyHandler(services.Backend, timeout))
	}
	if services.Metrics != nil {
		root.Handle("GET "+PathMetrics, services.Metrics)
	}

	app := http.NewServeMux()
	gk := &Gatekeeper{RestoreWait: restoreWait, Metrics: services.GateMetrics, Logger: logger}

	registerAuthRoutes(app, &AuthHandlers{Progress: services.Progress, RestoreWait: restoreWait, Logger: logger})
	landing := &ProgressHandlers{Svc: services.Progress}
	registerProgressRoutes(app, landing, gk)
	if services.Notifications != nil {
		app.Handle("GET "+PathNotify, http.HandlerFunc(
			(&NotificationHandlers{Queue: services.Notifications, Logger: logger}).Drain))
	}
	if services.Candidate != nil {
		app.Handle("GET /candidate", gk.Require(domainauth.RoleCandidate)(http.HandlerFunc(landing.Start)))
		registerCandidateRoutes(app, &CandidateHandlers{Svc: services.Candidate}, gk)
	}
	if services.Mentor != nil {
		app.Handle("GET /mentor", gk.Require(domainauth.RoleMentor)(http.HandlerFunc(landing.Start)))
		registerMentorRoutes(app, &MentorHandlers{Svc: services.Mentor}, gk)
	}
	if services.Admin != nil {
		registerAdminRoutes(app, &AdminHandlers{Svc: services.Admin}, gk)
	}

	var h http.Handler = app
	if services.CSRF != nil {
		h = CSRFProtection(*services.CSRF)(h)
	}
	h = Sessions(services.Sessions, services.Cookie, logger)(h)
	root.Handle("/", h)
	return root
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("GET "+PathSignIn, http.HandlerFunc(h.SignInPage))
	mux.Handle("POST "+PathSignIn, http.HandlerFunc(h.SignIn))
	mux.Handle("GET "+PathSignUp, http.HandlerFunc(h.SignUpPage))
	mux.Handle("POST "+PathSignUp, http.HandlerFunc(h.SignUp))
	mux.Handle("POST "+PathLogout, http.HandlerFunc(h.Logout))
	mux.Handle("GET "+PathSession, http.HandlerFunc(h.Session))
}

// registerProgressRoutes wires the landing routes. Any signed-in role may use them.
func registerProgressRoutes(mux *http.ServeMux, h *ProgressHandlers, gk *Gatekeeper) {
	signedIn := gk.Require()
	mux.Handle("GET /{$}", signedIn(http.HandlerFunc(h.Start)))
	mux.Handle("GET "+PathStart, signedIn(http.HandlerFunc(h.Start)))
	mux.Handle("GET "+PathNext, signedIn(http.HandlerFunc(h.Next)))
}

func registerCandidateRoutes(mux *http.ServeMux, h *CandidateHandlers, gk *Gatekeeper) {
	wrap := gk.Require(domainauth.RoleCandidate)
	mux.Handle("GET /candidate/status", wrap(http.HandlerFunc(h.Status)))
	mux.Handle("GET /candidate/onboarding", wrap(http.HandlerFunc(h.Onboarding)))
	mux.Handle("PUT /candidate/onboarding/draft", wrap(http.HandlerFunc(h.SaveDraft)))
	mux.Handle("POST /candidate/onboarding", wrap(http.HandlerFunc(h.SubmitOnboarding)))
	mux.Handle("POST /candidate/roadmap", wrap(http.HandlerFunc(h.GenerateRoadmap)))
	mux.Handle("POST /candidate/roadmap/regenerate", wrap(http.HandlerFunc(h.RegenerateRoadmap)))
	mux.Handle("GET /candidate/mentors", wrap(http.HandlerFunc(h.Mentors)))
	mux.Handle("GET /candidate/mentors/{id}", wrap(http.HandlerFunc(h.Mentor)))
	mux.Handle("POST /candidate/checkout", wrap(http.HandlerFunc(h.Checkout)))
	mux.Handle("GET /candidate/workflow", wrap(http.HandlerFunc(h.Workflow)))
	mux.Handle("POST /candidate/actions/{id}/toggle", wrap(http.HandlerFunc(h.ToggleAction)))
	mux.Handle("POST /candidate/sessions/{id}/complete", wrap(http.HandlerFunc(h.CompleteSession)))
}

func registerMentorRoutes(mux *http.ServeMux, h *MentorHandlers, gk *Gatekeeper) {
	wrap := gk.Require(domainauth.RoleMentor)
	mux.Handle("GET /mentor/dashboard", wrap(http.HandlerFunc(h.Dashboard)))
	mux.Handle("GET /mentor/overview", wrap(http.HandlerFunc(h.Overview)))
	mux.Handle("POST /mentor/requests/{id}/accept", wrap(http.HandlerFunc(h.Accept)))
	mux.Handle("POST /mentor/requests/{id}/decline", wrap(http.HandlerFunc(h.Decline)))
	mux.Handle("GET /mentor/verification", wrap(http.HandlerFunc(h.Verification)))
	mux.Handle("POST /mentor/verification", wrap(http.HandlerFunc(h.SubmitVerification)))
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, gk *Gatekeeper) {
	wrap := gk.Require(domainauth.RoleAdmin)
	mux.Handle("GET /admin", wrap(http.HandlerFunc(h.Queue)))
	mux.Handle("GET /admin/overview", wrap(http.HandlerFunc(h.Overview)))
	mux.Handle("GET /admin/mentors", wrap(http.HandlerFunc(h.Mentors)))
	mux.Handle("GET /admin/mentees", wrap(http.HandlerFunc(h.Mentees)))
	mux.Handle("GET /admin/mentees/{id}", wrap(http.HandlerFunc(h.Mentee)))
	mux.Handle("POST /admin/mentors/{id}/verify", wrap(http.HandlerFunc(h.Verify)))
	mux.Handle("POST /admin/mentors/{id}/reject", wrap(http.HandlerFunc(h.Reject)))
}
