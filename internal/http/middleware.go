package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/guided/guided-web/internal/domain/auth"
	"github.com/guided/guided-web/internal/domain/gate"
	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionAcquirer hands out the per-browser session store for a session id.
type SessionAcquirer interface {
	Acquire(ctx context.Context, sessionID string) (*service.SessionStore, string, error)
}

// SessionCookieConfig controls the session id cookie.
type SessionCookieConfig struct {
	Domain string
	// Secure forces the Secure attribute; otherwise it follows the request scheme.
	Secure bool
	MaxAge time.Duration
}

// Sessions loads (or creates) the browser's SessionStore and puts it in the request context.
// A missing or malformed cookie gets a fresh session id.
func Sessions(reg SessionAcquirer, cfg SessionCookieConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30 * 24 * time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if c, err := r.Cookie(SessionCookieName); err == nil {
				sid = c.Value
			}

			store, got, err := reg.Acquire(r.Context(), sid)
			if err != nil {
				logger.ErrorContext(r.Context(), "acquire session failed", "error", err)
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "session_unavailable",
					Err:     err,
				})
				return
			}
			if got != sid {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    got,
					Path:     "/",
					Domain:   cfg.Domain,
					HttpOnly: true,
					Secure:   cfg.Secure || r.TLS != nil || isForwardedHTTPS(r),
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(cfg.MaxAge / time.Second),
				})
			}

			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), store)))
		})
	}
}

// Gatekeeper enforces role-scoped access uniformly for every protected route.
type Gatekeeper struct {
	// RestoreWait bounds how long a request waits for a fresh session to finish restoring.
	RestoreWait time.Duration
	Metrics     metrics.Sink
	Logger      *slog.Logger
}

// Require wraps next so it only runs for a restored session whose role is in allowed.
// An empty allowed set admits any signed-in identity. The decision is re-evaluated on
// every request, and next never writes anything for a non-render decision.
func (g *Gatekeeper) Require(allowed ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, ok := SessionFromContext(r.Context())
			if !ok {
				g.logger().ErrorContext(r.Context(), "gate used without session middleware", "path", r.URL.Path)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			store.WaitRestored(r.Context(), g.RestoreWait)
			dec := gate.Decide(store.Snapshot(), allowed)
			if g.Metrics != nil {
				g.Metrics.GateDecided(dec.Kind.String())
			}

			switch dec.Kind {
			case gate.Render:
				next.ServeHTTP(w, r)
			case gate.Loading:
				writeLoading(w, r)
			case gate.RedirectSignIn:
				redirectToSignIn(w, r)
			case gate.RedirectHome:
				if modeOf(r) == modeAPI {
					WriteJSON(w, http.StatusForbidden, map[string]string{
						"error":    "forbidden",
						"location": dec.Location,
					})
					return
				}
				navigate(w, r, dec.Location)
			}
		})
	}
}

func (g *Gatekeeper) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// writeLoading answers with a neutral loading indicator and nothing else.
func writeLoading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	if IsHTMX(r) {
		SetHXRefresh(w, true)
	}
	WriteJSON(w, http.StatusAccepted, map[string]string{"state": "loading"})
}
