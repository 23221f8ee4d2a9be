package httpx

import "time"

const (
	// SessionCookieName carries the browser session id that selects a SessionStore.
	SessionCookieName = "guided_sid"

	// DefaultRestoreWait is how long the gate waits for a fresh session to finish restoring
	// before answering with a loading response.
	DefaultRestoreWait = 250 * time.Millisecond

	// maxBodyBytes bounds JSON and form request bodies.
	maxBodyBytes = 64 << 10
)

// Browser-facing paths.
const (
	PathRoot    = "/"
	PathStart   = "/start"
	PathNext    = "/next"
	PathSignIn  = "/signin"
	PathSignUp  = "/signup"
	PathLogout  = "/logout"
	PathSession = "/session"
	PathNotify  = "/notifications"
	PathHealth  = "/healthz"
	PathReady   = "/readyz"
	PathMetrics = "/metrics"
)

// notificationsEvent is the htmx event that makes the page drain /notifications.
const notificationsEvent = "guided:notifications"

const (
	contentJSON = "application/json"
	contentForm = "application/x-www-form-urlencoded"
)
