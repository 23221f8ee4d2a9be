// Package guidedapi is the HTTP client for the remote GUIDED API.
//
// Every call runs under a per-call timeout and through a circuit breaker. Transport
// failures, timeouts, 5xx responses and an open breaker all surface as
// errors.ErrCodeUnavailable or ErrCodeTimeout so callers can treat them alike.
package guidedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/guided/guided-web/internal/errors"
	"github.com/guided/guided-web/internal/observability/metrics"
	"github.com/guided/guided-web/internal/ports"
)

const (
	// DefaultTimeout is the per-call budget when none is configured.
	DefaultTimeout = 8 * time.Second

	maxBodyBytes = 1 << 20
)

// BreakerConfig configures the circuit breaker in front of the backend.
type BreakerConfig struct {
	Name string
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts; 0 never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig returns the breaker settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "guided-api",
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Breaker    BreakerConfig
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    metrics.Sink
}

// Client implements ports.Backend over HTTP.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[rawResponse]
	logger  *slog.Logger
	metrics metrics.Sink
}

var _ ports.Backend = (*Client)(nil)

// rawResponse is what the breaker sees: a fully read body and its status.
type rawResponse struct {
	status int
	body   []byte
}

// errServerStatus marks 5xx responses as breaker failures.
var errServerStatus = errors.New("server error")

// New constructs a Client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("guidedapi: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("guidedapi: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("guidedapi: unsupported scheme %q", base.Scheme)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = DefaultBreakerConfig()
	}

	c := &Client{
		base:    base,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		logger:  opts.Logger.With("component", "guidedapi"),
		metrics: opts.Metrics,
	}
	c.breaker = gobreaker.NewCircuitBreaker[rawResponse](c.breakerSettings(opts.Breaker))
	return c, nil
}

func (c *Client) breakerSettings(cfg BreakerConfig) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
		// A caller giving up is not evidence the backend is down.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
}

// BreakerState reports the breaker state (closed, half-open, open).
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// call performs one request. in is JSON-encoded when non-nil; out is decoded from a 2xx body
// when non-nil. endpoint is a stable label for logs and metrics.
func (c *Client) call(ctx context.Context, endpoint, method, path, token string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		payload = b
	}

	start := time.Now()
	var got rawResponse
	_, err := c.breaker.Execute(func() (rawResponse, error) {
		r, err := c.roundTrip(ctx, method, path, token, payload)
		got = r
		if err != nil {
			return r, err
		}
		if r.status >= http.StatusInternalServerError {
			return r, errServerStatus
		}
		return r, nil
	})
	c.recordCall(endpoint, got.status, time.Since(start))

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.logger.WarnContext(ctx, "backend call short-circuited", "endpoint", endpoint)
		return apperrors.Unavailable(err)
	case errors.Is(err, errServerStatus):
		return decodeError(got.status, got.body)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.FromContext(err)
	case err != nil:
		c.logger.WarnContext(ctx, "backend call failed", "endpoint", endpoint, "error", err)
		return apperrors.Unavailable(err)
	}

	if got.status < 200 || got.status >= 300 {
		return decodeError(got.status, got.body)
	}
	if out == nil || len(bytes.TrimSpace(got.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(got.body, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode %s response", endpoint)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, payload []byte) (rawResponse, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return rawResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return rawResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return rawResponse{status: resp.StatusCode}, fmt.Errorf("read response: %w", err)
	}
	return rawResponse{status: resp.StatusCode, body: b}, nil
}

func (c *Client) recordCall(endpoint string, status int, d time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.BackendCall(endpoint, status, d)
}
