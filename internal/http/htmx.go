package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXRefresh forces a full page refresh when true.
func SetHXRefresh(w http.ResponseWriter, refresh bool) {
	if refresh {
		w.Header().Set("Hx-Refresh", "true")
		return
	}
	w.Header().Set("Hx-Refresh", "false")
}

// SetHXTrigger triggers a client-side event after swap with optional payload.
// It sets the Hx-Trigger response header as a JSON object: {"<event>": <payload>}.
// If payload is nil, the value true is used for the event.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	var value any = true
	if payload != nil {
		value = payload
	}
	b, err := json.Marshal(map[string]any{event: value})
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// responseMode is how a request expects protected-route outcomes to be delivered.
type responseMode int

const (
	modeBrowser responseMode = iota
	modeHTMX
	modeAPI
)

// modeOf classifies a request: htmx swaps get headers, JSON clients get status codes,
// and plain navigations get redirects.
func modeOf(r *http.Request) responseMode {
	if IsHTMX(r) {
		return modeHTMX
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, contentJSON) && !strings.Contains(accept, "text/html") {
		return modeAPI
	}
	if isJSONBody(r) {
		return modeAPI
	}
	return modeBrowser
}

// navigate sends the client to location in the way its request mode understands.
// API clients get a JSON body naming the location.
func navigate(w http.ResponseWriter, r *http.Request, location string) {
	switch modeOf(r) {
	case modeHTMX:
		SetHXRedirect(w, location)
		w.WriteHeader(http.StatusNoContent)
	case modeAPI:
		WriteJSON(w, http.StatusOK, map[string]string{"location": location})
	default:
		seeOther(w, location)
	}
}

// redirectToSignIn sends the client to the sign-in screen without any protected payload.
func redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	switch modeOf(r) {
	case modeHTMX:
		SetHXRedirect(w, PathSignIn)
		w.WriteHeader(http.StatusNoContent)
	case modeAPI:
		WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication_required", Message: "Please sign in."})
	default:
		seeOther(w, PathSignIn)
	}
}

// seeOther answers 303 with an empty body.
func seeOther(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)
}
