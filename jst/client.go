package jst

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/tnicklin/jstclock/clock"
	"github.com/tnicklin/jstclock/metrics"
	"github.com/tnicklin/jstclock/transport"
)

const maxBodySize = 64 * 1024

const (
	rolePrimary  = "primary"
	roleFallback = "fallback"
)

// Logger is a minimal logging interface satisfied by logger.Logger.
type Logger interface {
	InfoW(msg string, keysAndValues ...any)
	WarnW(msg string, keysAndValues ...any)
}

// Client fetches the authoritative JST instant from the configured
// endpoints. It holds no mutable state and is safe for concurrent use.
type Client struct {
	endpoints Endpoints
	http      *http.Client
	clock     clock.Clock
	timeout   time.Duration
	userAgent string
	logger    Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoints sets the primary and fallback time authorities.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithHTTPClient sets the HTTP client used for every attempt.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock sets the local wall-clock source.
func WithClock(cl clock.Clock) Option {
	return func(c *Client) { c.clock = cl }
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithConfig applies endpoints, timeout and user agent from cfg.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		cfg.Defaults()
		c.endpoints = cfg.Endpoints()
		c.timeout = cfg.Timeout
		c.userAgent = cfg.UserAgent
	}
}

// NewClient creates a Client with the given options.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		endpoints: DefaultEndpoints(),
		clock:     clock.System(),
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}

	if err := c.endpoints.Validate(); err != nil {
		return nil, err
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		h, err := transport.NewHTTPClient(c.timeout)
		if err != nil {
			return nil, err
		}
		c.http = h
	}
	return c, nil
}

// Endpoints returns the endpoint pair this client queries.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Fetch returns the authoritative instant from the primary endpoint, or from
// the fallback if the primary fails. When both fail the error carries both
// causes, primary first.
func (c *Client) Fetch(ctx context.Context) (time.Time, error) {
	t, _, err := c.fetch(ctx)
	return t, err
}

func (c *Client) fetch(ctx context.Context) (time.Time, string, error) {
	t, primaryErr := c.attempt(ctx, rolePrimary, c.endpoints.Primary)
	if primaryErr == nil {
		return t, c.endpoints.Primary, nil
	}

	t, fallbackErr := c.attempt(ctx, roleFallback, c.endpoints.Fallback)
	if fallbackErr == nil {
		return t, c.endpoints.Fallback, nil
	}

	return time.Time{}, "", fmt.Errorf("jst: all endpoints failed: %w", multierr.Combine(primaryErr, fallbackErr))
}

// attempt runs FetchFrom and records its outcome.
func (c *Client) attempt(ctx context.Context, role, endpoint string) (time.Time, error) {
	start := time.Now()
	t, err := c.FetchFrom(ctx, endpoint)
	metrics.RecordAttempt(role, outcome(err), time.Since(start).Seconds())

	if err != nil {
		c.log().WarnW("jst fetch failed", "endpoint", role, "url", endpoint, "error", err)
		return time.Time{}, err
	}
	if role == roleFallback {
		c.log().InfoW("jst resolved from fallback endpoint", "url", endpoint)
	}
	return t, nil
}

// FetchFrom performs a single cache-bypassing request against endpoint,
// bounded by the client timeout.
func (c *Client) FetchFrom(ctx context.Context, endpoint string) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("jst: fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		return time.Time{}, &StatusError{URL: endpoint, Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return time.Time{}, fmt.Errorf("jst: read %s: %w", endpoint, err)
	}

	t, err := Parse(string(body))
	if err != nil {
		return time.Time{}, fmt.Errorf("jst: %s: %w", endpoint, err)
	}
	return t, nil
}

func (c *Client) log() Logger {
	if c.logger == nil {
		return nopLogger{}
	}
	return c.logger
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrFormat):
		return metrics.OutcomeFormat
	case errors.As(err, &statusErr):
		return metrics.OutcomeStatus
	default:
		return metrics.OutcomeTransport
	}
}

type nopLogger struct{}

func (nopLogger) InfoW(_ string, _ ...any) {}
func (nopLogger) WarnW(_ string, _ ...any) {}
