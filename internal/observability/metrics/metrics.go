// Package metrics records client-side outcomes (restores, gate decisions, optimistic
// mutations, resolver destinations) on a Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/guided/guided-web/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultReverted = "reverted"
	ResultNoop     = "noop"
)

// Sink describes the metric events the client emits. A nil Sink is valid at every call site.
type Sink interface {
	SessionRestored(result string)
	GateDecided(kind string)
	Resolved(role, destination string, fallback bool)
	Mutation(in MutationMetric)
	BackendCall(endpoint string, status int, d time.Duration)
}

// MutationMetric captures one optimistic mutation outcome.
type MutationMetric struct {
	Name     string
	Result   string
	Duration time.Duration
	Err      error
}

// Registry is a Prometheus-backed Sink.
type Registry struct {
	reg *prometheus.Registry

	restores  *prometheus.CounterVec
	gate      *prometheus.CounterVec
	resolved  *prometheus.CounterVec
	mutations *prometheus.CounterVec
	mutDur    *prometheus.HistogramVec
	backend   *prometheus.HistogramVec
}

var _ Sink = (*Registry)(nil)

// NewRegistry builds a private registry with Go/process collectors and the client metrics.
func NewRegistry(namespace string) *Registry {
	if namespace == "" {
		namespace = "guided"
	}
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		restores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_restores_total",
			Help:      "Session restore outcomes.",
		}, []string{"result"}),
		gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Access gate decisions by kind.",
		}, []string{"kind"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "progress_resolutions_total",
			Help:      "Progression resolver results.",
		}, []string{"role", "destination", "fallback"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimistic_mutations_total",
			Help:      "Optimistic mutation outcomes.",
		}, []string{"mutation", "result", "error_class"}),
		mutDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "optimistic_mutation_seconds",
			Help:      "Time from local apply to reconcile.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mutation"}),
		backend: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_seconds",
			Help:      "Remote API latency by endpoint and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.restores, r.gate, r.resolved, r.mutations, r.mutDur, r.backend,
	)
	return r
}

// Handler exposes the registry for scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry (used by tests).
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) SessionRestored(result string) {
	r.restores.WithLabelValues(result).Inc()
}

func (r *Registry) GateDecided(kind string) {
	r.gate.WithLabelValues(kind).Inc()
}

func (r *Registry) Resolved(role, destination string, fallback bool) {
	fb := "false"
	if fallback {
		fb = "true"
	}
	r.resolved.WithLabelValues(role, destination, fb).Inc()
}

func (r *Registry) Mutation(in MutationMetric) {
	class := ""
	if in.Err != nil {
		class = obserrors.Classify(in.Err)
	}
	r.mutations.WithLabelValues(in.Name, in.Result, class).Inc()
	if in.Duration > 0 {
		r.mutDur.WithLabelValues(in.Name).Observe(in.Duration.Seconds())
	}
}

func (r *Registry) BackendCall(endpoint string, status int, d time.Duration) {
	r.backend.WithLabelValues(endpoint, statusLabel(status)).Observe(d.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status <= 0:
		return "transport_error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
