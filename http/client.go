// Package http fetches YouTube pages with retry logic, per-host rate
// limiting and error classification.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ytrss/internal/retry"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client wraps an HTTP client with retry logic and rate limit handling.
type Client struct {
	base        *http.Client
	config      *Config
	rateLimiter *RateLimiter
	breaker     *Breaker
}

// Config holds HTTP client configuration including retry and rate limit settings.
type Config struct {
	// Timeout for individual HTTP requests
	Timeout time.Duration

	// Retry configuration
	Retry retry.Config

	// UserAgent sent with every request. YouTube serves a stripped page to
	// unknown agents, so the default mimics a desktop browser.
	UserAgent string

	// RequestsPerSecond per host (0 = unlimited)
	RequestsPerSecond float64

	// MaxBodySize caps how much of a response body is read.
	MaxBodySize int64

	// Cookie is sent with every request. The default pre-accepts the
	// consent interstitial.
	Cookie string

	// Breaker configures per-host fail-fast behaviour.
	Breaker BreakerConfig
}

// DefaultConfig returns sensible defaults for HTTP client configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		Retry:             retry.DefaultConfig(),
		UserAgent:         defaultUserAgent,
		RequestsPerSecond: 2,
		MaxBodySize:       16 * 1024 * 1024,
		Cookie:            "SOCS=CAI",
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			RecoveryTimeout:  30 * time.Second,
		},
	}
}

// New creates a new HTTP client with the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient creates a client on top of an existing *http.Client.
func NewWithHTTPClient(cfg *Config, base *http.Client) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		base:        base,
		config:      cfg,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond, 1),
		breaker:     NewBreaker(cfg.Breaker),
	}
}

// HTTPClient exposes the underlying client for libraries that take one.
func (c *Client) HTTPClient() *http.Client {
	return c.base
}

// Response represents an HTTP response with status code and body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request with retry logic.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Do performs an HTTP request with retry logic and rate limit handling.
// Rate limiting (429/503) and 5xx responses are retried; other non-2xx
// responses fail immediately. A host whose circuit is open fails fast with
// ErrCircuitOpen.
func (c *Client) Do(ctx context.Context, method, urlStr string, headers map[string]string) (*Response, error) {
	var out *Response
	host := hostOf(urlStr)

	err := retry.Do(ctx, c.config.Retry, isRetryableHTTPError, func(ctx context.Context) error {
		if err := c.breaker.Allow(host); err != nil {
			return retry.Permanent(err)
		}
		if err := c.rateLimiter.Wait(ctx, urlStr); err != nil {
			return err
		}
		err := c.attempt(ctx, method, urlStr, headers, &out)
		c.breaker.Record(host, err, isRetryableHTTPError)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNoResponse
	}
	return out, nil
}

func (c *Client) attempt(ctx context.Context, method, urlStr string, headers map[string]string, out **Response) error {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return retry.Permanent(err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if c.config.Cookie != "" {
		req.Header.Set("Cookie", c.config.Cookie)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if isRateLimited(resp.StatusCode, resp.Header) {
		return &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize()))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}
	if isConsentRedirect(resp) {
		return retry.Permanent(ErrConsentRequired)
	}

	*out = &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}
	return nil
}

func (c *Client) maxBodySize() int64 {
	if c.config.MaxBodySize <= 0 {
		return DefaultConfig().MaxBodySize
	}
	return c.config.MaxBodySize
}

// isRetryableHTTPError determines if an HTTP error is retryable.
func isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}

	return true
}

// Close closes idle connections.
func (c *Client) Close() error {
	if c.base != nil {
		c.base.CloseIdleConnections()
	}
	return nil
}
