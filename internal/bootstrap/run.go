package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/guided/guided-web/config"
	"github.com/guided/guided-web/internal/adapters/reaper"
)

// ServiceOrchestrationConfig holds what RunServices needs to start the enabled services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// Listener overrides the HTTP listener; tests pass one bound to port 0.
	Listener net.Listener
}

// RunServices starts every enabled service and blocks until ctx is cancelled or one fails.
// Cancellation is a graceful stop and returns nil.
func RunServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	var runner *reaper.Runner
	if enabled[config.ServiceModeReaper] {
		if runner, err = newReaper(cfg, logger); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		if err := startHTTP(gctx, g, cfg, logger); err != nil {
			return err
		}
	}

	if runner != nil {
		g.Go(func() error {
			if err := runner.Run(gctx); err != nil {
				return fmt.Errorf("session reaper: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func startHTTP(ctx context.Context, g *errgroup.Group, cfg *ServiceOrchestrationConfig, logger *slog.Logger) error {
	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: RouterServices(cfg.Config, cfg.Services, logger),
		HTTP:     cfg.Config.HTTP,
	})
	server := newServer(handler, cfg.Config.HTTP.Addr)

	ln := cfg.Listener
	if ln == nil {
		var err error
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
	}

	g.Go(func() error {
		return serveHTTP(ctx, server, ln, ShutdownConfig{
			Engine:  cfg.Services.Engine,
			Timeout: cfg.Config.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})
	return nil
}

func newReaper(cfg *ServiceOrchestrationConfig, logger *slog.Logger) (*reaper.Runner, error) {
	if cfg.Services.Sessions == nil {
		return nil, errors.New("reaper requires the session registry")
	}
	var stores []reaper.Evictor
	if cfg.Services.MemoryStore != nil {
		stores = append(stores, cfg.Services.MemoryStore)
	}
	return reaper.NewRunner(reaper.RunnerOptions{
		Sessions: cfg.Services.Sessions,
		Stores:   stores,
		Interval: cfg.Config.Session.ReaperInterval,
		Logger:   logger,
	})
}
