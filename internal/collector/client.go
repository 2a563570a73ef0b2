// Package collector sends hits to the Measurement Protocol collection endpoint.
package collector

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
)

const (
	// DefaultTimeout bounds a single collect request.
	DefaultTimeout = 5 * time.Second

	// maxBodyBytes caps how much of a response body is kept for diagnostics.
	maxBodyBytes = 64 << 10

	defaultTLSHandshakeTimeout = 5 * time.Second
	defaultIdleConnTimeout     = 90 * time.Second
	defaultMaxIdleConnsPerHost = 10
)

// Config controls where and how hits are delivered.
type Config struct {
	// Property resolves the tracking ID stamped on every hit.
	Property hit.Property
	// BaseURL is the collection host; hit.DefaultBaseURL when empty.
	BaseURL string
	// UseTestingEndpoint targets /debug/collect and forwards response
	// bodies to the diagnostic sink.
	UseTestingEndpoint bool
	// InsecureSkipVerify disables TLS peer verification for collect
	// requests only. The client built here is never shared.
	InsecureSkipVerify bool
	// Timeout bounds each request; DefaultTimeout when zero.
	Timeout time.Duration
}

// Client performs one collect request per hit. It never retries.
type Client struct {
	cfg     Config
	http    *http.Client
	log     *zap.Logger
	sink    DiagnosticSink
	metrics *Metrics
	rnd     hit.RandomSource
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The caller owns its TLS settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithDiagnosticSink sets where debug-endpoint responses are sent.
func WithDiagnosticSink(s DiagnosticSink) Option {
	return func(c *Client) { c.sink = s }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRandom sets the source for cache busters.
func WithRandom(r hit.RandomSource) Option {
	return func(c *Client) { c.rnd = r }
}

// New returns a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		cfg: cfg,
		log: zap.NewNop(),
		rnd: hit.DefaultRandom,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = newHTTPClient(cfg.Timeout, cfg.InsecureSkipVerify)
	}
	if c.sink == nil {
		c.sink = LogSink{Log: c.log}
	}
	return c
}

func newHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
	}
	if insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // collect endpoint contract, opt-in via config
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Endpoint returns the collect URL hits are sent to.
func (c *Client) Endpoint() string {
	return hit.Endpoint(c.cfg.BaseURL, c.cfg.UseTestingEndpoint)
}

// Send resolves the tracking ID, serializes h, validates it and, if valid,
// issues one GET. Invalid hits never touch the network.
//
// The outcome never mutates h beyond the protocol fields BuildURL injects.
// A 4xx/5xx answer still counts as sent; the status and body are kept on the
// Result with an *UpstreamError.
func (c *Client) Send(ctx context.Context, h *hit.Hit, ip hit.IPSource) Result {
	start := time.Now()

	h.UseProperty(c.cfg.Property)
	target := h.BuildURL(c.Endpoint(), c.rnd, ip)

	res := c.send(ctx, h, target)
	c.metrics.observe(h.Type(), res.Outcome, time.Since(start))

	return res
}

func (c *Client) send(ctx context.Context, h *hit.Hit, target string) Result {
	res := Result{URL: target}

	if !h.IsValid() {
		res.Outcome = OutcomeValidationFailed
		res.Err = ErrValidationFailed
		c.log.Debug("hit failed validation",
			zap.String("hit_type", string(h.Type())),
			zap.Bool("has_tracking_id", h.TrackingID() != ""),
			zap.Bool("has_client_id", h.ClientID() != ""),
		)
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		res.Outcome = OutcomeTransportError
		res.Err = fmt.Errorf("%w: build request: %w", ErrTransport, err)
		return res
	}

	resp, err := c.http.Do(req)
	if err != nil {
		res.Outcome = OutcomeTransportError
		res.Err = fmt.Errorf("%w: %w", ErrTransport, err)
		c.log.Warn("hit transport failed",
			zap.String("hit_type", string(h.Type())),
			zap.Error(err),
		)
		return res
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		c.log.Debug("read collect response", zap.Error(readErr))
	}

	res.Outcome = OutcomeSent
	res.StatusCode = resp.StatusCode
	res.Body = string(body)

	if resp.StatusCode >= http.StatusBadRequest {
		res.Err = &UpstreamError{StatusCode: resp.StatusCode, Body: res.Body}
		c.log.Warn("collect endpoint returned error status",
			zap.String("hit_type", string(h.Type())),
			zap.Int("status", resp.StatusCode),
		)
	}

	if c.cfg.UseTestingEndpoint {
		c.sink.Show(ctx, res.Body)
	}

	return res
}
