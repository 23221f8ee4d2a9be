package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/service"
)

// AuthHandlers serves sign-in, sign-up, sign-out and the session probe.
type AuthHandlers struct {
	Progress    *service.ProgressService
	RestoreWait time.Duration
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// authResponse is the JSON reply to sign-in and sign-up.
type authResponse struct {
	domainauth.AuthResult
	Next string `json:"next,omitempty"`
}

// screenResponse is the view model for the signed-out screens.
type screenResponse struct {
	Screen    string `json:"screen"`
	CSRFToken string `json:"csrfToken,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SignInPage handles GET /signin. A signed-in session is sent on to its destination.
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.screen(w, r, "signin")
}

// SignUpPage handles GET /signup.
func (h *AuthHandlers) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.screen(w, r, "signup")
}

func (h *AuthHandlers) screen(w http.ResponseWriter, r *http.Request, name string) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	store.WaitRestored(r.Context(), h.RestoreWait)
	if store.Snapshot().Authenticated() {
		navigate(w, r, h.Progress.NextFor(r.Context(), store).String())
		return
	}
	WriteJSON(w, http.StatusOK, screenResponse{
		Screen:    name,
		CSRFToken: GetCSRFToken(r),
		Error:     r.URL.Query().Get("error"),
	})
}

// SignIn handles POST /signin with a JSON or form body {email, password}.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var in domainauth.Credentials
	if !decodeInput(w, r, &in, func(f url.Values) {
		in.Email = f.Get("email")
		in.Password = f.Get("password")
	}) {
		return
	}
	res := store.Login(r.Context(), in.Email, in.Password)
	h.finish(w, r, store, res, PathSignIn, http.StatusUnauthorized)
}

// SignUp handles POST /signup with a JSON or form body.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var in domainauth.SignupInput
	if !decodeInput(w, r, &in, func(f url.Values) {
		in.Email = f.Get("email")
		in.Password = f.Get("password")
		in.Name = f.Get("name")
		in.Role = domainauth.Role(f.Get("role"))
		in.LinkedInURL = f.Get("linkedin_url")
	}) {
		return
	}
	res := store.Signup(r.Context(), in)
	h.finish(w, r, store, res, PathSignUp, http.StatusBadRequest)
}

// finish answers a sign-in or sign-up. Success goes to the resolved destination; failure
// goes back to the form (browser) or returns the failure value (API, htmx).
func (h *AuthHandlers) finish(
	w http.ResponseWriter,
	r *http.Request,
	store *service.SessionStore,
	res domainauth.AuthResult,
	formPath string,
	failStatus int,
) {
	mode := modeOf(r)
	if !res.Success {
		h.logger().InfoContext(r.Context(), "authentication failed", "path", r.URL.Path, "reason", res.Error)
		if mode == modeBrowser {
			seeOther(w, formPath+"?error="+url.QueryEscape(res.Error))
			return
		}
		WriteJSON(w, failStatus, authResponse{AuthResult: res})
		return
	}

	next := h.Progress.NextFor(r.Context(), store).String()
	switch mode {
	case modeAPI:
		WriteJSON(w, http.StatusOK, authResponse{AuthResult: res, Next: next})
	default:
		navigate(w, r, next)
	}
}

// Logout handles POST /logout. It always succeeds.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := SessionFromContext(r.Context()); ok {
		store.Logout(r.Context())
	}
	if modeOf(r) == modeAPI {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	navigate(w, r, PathSignIn)
}

// sessionResponse reports the session state the gate decides on.
type sessionResponse struct {
	Loading bool                 `json:"loading"`
	User    *domainauth.Identity `json:"user"`
}

// Session handles GET /session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	store, ok := SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	store.WaitRestored(r.Context(), h.RestoreWait)
	st := store.Snapshot()
	WriteJSON(w, http.StatusOK, sessionResponse{Loading: st.Loading, User: st.Identity})
}

// decodeInput reads a JSON body into dst, or a form body through fromForm.
func decodeInput(w http.ResponseWriter, r *http.Request, dst any, fromForm func(url.Values)) bool {
	if isJSONBody(r) {
		return DecodeJSON(w, r, dst)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return false
	}
	fromForm(r.PostForm)
	return true
}
