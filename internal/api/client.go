// Package api is a thin HTTP client for the Opus REST service. It knows
// endpoints and transport concerns only; every method returns the decoded
// JSON untouched and leaves shaping to the normalize package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrTransport wraps failures where no HTTP response was received.
var ErrTransport = errors.New("api: transport failure")

// Config configures the client.
type Config struct {
	// BaseURL of the remote service, e.g. https://api.opus.dev
	BaseURL string

	// APIKey is sent as x-api-key on every request.
	APIKey string

	// Timeout for one attempt (default: 30s).
	Timeout time.Duration

	// MaxRetries for idempotent requests (default: 3). Negative disables.
	MaxRetries int

	// RateLimit in requests per second (default: 10).
	RateLimit float64

	// RateBurst maximum burst size (default: 5).
	RateBurst int

	UserAgent string

	// Transport allows injecting a custom round tripper in tests.
	Transport http.RoundTripper

	Logger *zap.Logger
}

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	defaultRateLimit  = 10.0
	defaultRateBurst  = 5
	defaultUserAgent  = "opus-cli/1.0"
)

// DefaultConfig returns a config with the default limits and no endpoint.
func DefaultConfig() Config {
	return Config{
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		RateLimit:  defaultRateLimit,
		RateBurst:  defaultRateBurst,
		UserAgent:  defaultUserAgent,
	}
}

// Client is a rate-limited HTTP client that retries idempotent requests.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger

	// backoff returns the pause before retry attempt n (0-based).
	backoff func(n int) time.Duration
}

// New creates a client. Zero values in cfg take the defaults.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		log:     log.Named("api"),
		backoff: func(n int) time.Duration {
			return time.Duration(1<<uint(n)) * 100 * time.Millisecond
		},
	}
}

// HTTPError is a non-2xx response from the remote.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// IsNotFound reports whether err is a 404 from the remote.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsRateLimited reports whether err is a 429 from the remote.
func IsRateLimited(err error) bool {
	return statusOf(err) == http.StatusTooManyRequests
}

// IsServerError reports whether err is a 5xx from the remote.
func IsServerError(err error) bool {
	return statusOf(err) >= 500
}

func statusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryable(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	code := statusOf(err)
	return code == http.StatusTooManyRequests || code >= 500
}

// do sends one logical request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		payload = data
	}

	attempts := 1
	if idempotent(method) {
		attempts += c.cfg.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		data, err := c.doOnce(ctx, method, path, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable(err) {
			return nil, err
		}
	}

	if attempts > 1 {
		return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	target := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// object decodes a single JSON object. An empty body or null decodes to an
// empty object.
func (c *Client) object(ctx context.Context, method, path string, body any) (map[string]any, error) {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return decodeObject(data), nil
}

// list decodes a JSON array of objects. Anything else decodes to an empty
// list.
func (c *Client) list(ctx context.Context, path string) ([]map[string]any, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeList(data), nil
}

func decodeObject(data []byte) map[string]any {
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return out
	}
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return out
}

func decodeList(data []byte) []map[string]any {
	out := []map[string]any{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return out
	}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if obj, isObj := item.(map[string]any); isObj {
			out = append(out, obj)
		}
	}
	return out
}
