package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/guided/guided-web/config"
	"github.com/guided/guided-web/internal/adapters/guidedapi"
	"github.com/guided/guided-web/internal/adapters/memstore"
	redisstore "github.com/guided/guided-web/internal/adapters/redis"
	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/optimistic"
	"github.com/guided/guided-web/internal/ports"
	"github.com/guided/guided-web/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Backend       *guidedapi.Client
	Engine        *optimistic.Engine
	Sessions      *service.SessionRegistry
	Progress      *service.ProgressService
	Candidate     *service.CandidateService
	Mentor        *service.MentorService
	Admin         *service.AdminService
	Notifications ports.NotificationQueue
	// MemoryStore is set when Redis is disabled. The reaper sweeps its expired tokens.
	MemoryStore   *memstore.Store
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	// Registry is nil when metrics are disabled.
	Registry *metrics.Registry
	Sink     metrics.Sink
}

// MetricsHandler returns the exposition handler, or nil when metrics are disabled.
func (o ObservabilityContainer) MetricsHandler() http.Handler {
	if o.Registry == nil {
		return nil
	}
	return o.Registry.Handler()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// RedisClient is nil when Redis is disabled.
	RedisClient redis.UniversalClient
	// HTTPClient overrides the client used to reach the remote API.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// buildObservability configures the metrics registry.
func buildObservability(cfg config.ObservabilityMetricsConfig) ObservabilityContainer {
	if !cfg.Enabled {
		return ObservabilityContainer{}
	}
	reg := metrics.NewRegistry(cfg.Namespace)
	return ObservabilityContainer{Registry: reg, Sink: reg}
}

// clientStorage groups the adapters backing the durable storage ports.
type clientStorage struct {
	tokens ports.TokenStore
	drafts ports.DraftStore
	queue  ports.NotificationQueue
	memory *memstore.Store
}

// buildStorage picks Redis when a client is available and the in-memory store otherwise.
func buildStorage(client redis.UniversalClient, cfg *config.AppConfig) clientStorage {
	if client == nil {
		mem := memstore.New(memstore.Options{
			DefaultTTL: cfg.Session.TokenTTL,
			MaxQueue:   cfg.Session.NotificationLimit,
		})
		return clientStorage{tokens: mem, drafts: mem, queue: mem, memory: mem}
	}

	prefix := cfg.Redis.KeyPrefix
	return clientStorage{
		tokens: redisstore.NewTokenStore(client, redisstore.TokenStoreOptions{
			Prefix:     prefix,
			DefaultTTL: cfg.Session.TokenTTL,
		}),
		drafts: redisstore.NewDraftStore(client, prefix, cfg.Session.DraftTTL),
		queue: redisstore.NewNotificationQueue(client, redisstore.NotificationQueueOptions{
			Prefix: prefix,
			TTL:    cfg.Session.NotificationTTL,
			MaxLen: int64(cfg.Session.NotificationLimit),
		}),
	}
}

// NewBackend builds the remote API client the way the server does, without metrics.
func NewBackend(cfg config.APIConfig, logger *slog.Logger) (*guidedapi.Client, error) {
	return newBackend(cfg, &ServiceDeps{Logger: logger}, nil)
}

func newBackend(cfg config.APIConfig, deps *ServiceDeps, sink metrics.Sink) (*guidedapi.Client, error) {
	return guidedapi.New(guidedapi.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Breaker: guidedapi.BreakerConfig{
			Name:         "guided-api",
			MaxRequests:  cfg.Breaker.MaxRequests,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			FailureRatio: cfg.Breaker.FailureRatio,
			MinRequests:  cfg.Breaker.MinRequests,
		},
		HTTPClient: deps.HTTPClient,
		Logger:     deps.Logger,
		Metrics:    sink,
	})
}

// NewServices creates all application services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	cfg := deps.Config
	logger := deps.Logger

	obs := buildObservability(cfg.Observability.Metrics)

	backend, err := newBackend(cfg.API, deps, obs.Sink)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create api client: %w", err)
	}

	store := buildStorage(deps.RedisClient, cfg)
	engine := optimistic.NewEngine(optimistic.EngineOptions{
		Timeout: cfg.API.RequestTimeout,
		Logger:  logger,
		Metrics: obs.Sink,
	})
	validator := service.NewValidator()

	sessions, err := service.NewSessionRegistry(service.SessionRegistryOptions{
		Backend:   backend,
		Tokens:    store.tokens,
		Drafts:    store.drafts,
		Validator: validator,
		TokenTTL:  cfg.Session.TokenTTL,
		IdleTTL:   cfg.Session.IdleTTL,
		Logger:    logger,
		Metrics:   obs.Sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create session registry: %w", err)
	}

	candidate, err := service.NewCandidateService(service.CandidateServiceOptions{
		Backend:   backend,
		Engine:    engine,
		Drafts:    store.drafts,
		Notifier:  store.queue,
		Validator: validator,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create candidate service: %w", err)
	}

	mentor, err := service.NewMentorService(service.MentorServiceOptions{
		Backend:   backend,
		Engine:    engine,
		Notifier:  store.queue,
		Opener:    &service.NotificationOpener{Queue: store.queue},
		Validator: validator,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create mentor service: %w", err)
	}

	admin, err := service.NewAdminService(service.AdminServiceOptions{
		Backend:  backend,
		Engine:   engine,
		Notifier: store.queue,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create admin service: %w", err)
	}

	return ServiceContainer{
		Backend:  backend,
		Engine:   engine,
		Sessions: sessions,
		Progress: service.NewProgressService(service.ProgressServiceOptions{
			Backend: backend,
			Logger:  logger,
			Metrics: obs.Sink,
		}),
		Candidate:     candidate,
		Mentor:        mentor,
		Admin:         admin,
		Notifications: store.queue,
		MemoryStore:   store.memory,
		Observability: obs,
	}, nil
}
