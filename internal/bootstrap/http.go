package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/guided/guided-web/config"
	httpx "github.com/guided/guided-web/internal/http"
	"github.com/guided/guided-web/internal/optimistic"
)

// RouterServices maps the service container onto the router's dependencies.
func RouterServices(cfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	if cfg == nil {
		cfg = &config.AppConfig{}
	}
	services := httpx.RouterServices{
		Sessions:      svcs.Sessions,
		Progress:      svcs.Progress,
		Candidate:     svcs.Candidate,
		Mentor:        svcs.Mentor,
		Admin:         svcs.Admin,
		Notifications: svcs.Notifications,
		ReadyTimeout:  cfg.API.ReadyTimeout,
		Metrics:       svcs.Observability.MetricsHandler(),
		GateMetrics:   svcs.Observability.Sink,
		RestoreWait:   cfg.Session.RestoreWait,
		Cookie: httpx.SessionCookieConfig{
			Domain: cfg.HTTP.CookieDomain,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.CookieMaxAge,
		},
		Logger: logger,
	}
	if svcs.Backend != nil {
		services.Backend = svcs.Backend
	}
	if cfg.Session.CSRFEnabled {
		services.CSRF = &httpx.CSRFConfig{CookieDomain: cfg.HTTP.CookieDomain}
	}
	return services
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	router := httpx.NewRouter(cfg.Services)

	// Apply compression middleware first (innermost) so logging captures compressed sizes
	// Order: Recover -> Logging -> Compression -> Router
	h := router
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

func newServer(handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// serveHTTP serves on ln until ctx is cancelled, then shuts the server down.
func serveHTTP(ctx context.Context, server *http.Server, ln net.Listener, shutdown ShutdownConfig) error {
	errCh := make(chan error, 1)
	go func() {
		shutdown.logger().Info("starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdown.Server = server
	shutdown.Context = context.WithoutCancel(ctx)
	if err := ShutdownHTTPServer(shutdown); err != nil {
		return err
	}
	return <-errCh
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	// Engine is drained after the server stops so queued reconciles still deliver their toasts.
	Engine  *optimistic.Engine
	Timeout time.Duration
	Logger  *slog.Logger
}

func (c ShutdownConfig) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	logger := cfg.logger()
	logger.Info("shutting down HTTP server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(cfg.Context, cfg.Timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Engine != nil {
		if err := cfg.Engine.Wait(shutdownCtx); err != nil {
			logger.Warn("pending mutations did not settle before shutdown", "error", err)
		}
	}

	logger.Info("HTTP server stopped")
	return nil
}
