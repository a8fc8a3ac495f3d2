package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dishboard/console/domain"
)

// TokenSource yields the bearer credential attached to outgoing requests.
// An empty token sends the request unauthenticated; rejecting it is the
// upstream's job.
type TokenSource interface {
	Token() string
}

// APIError is a response the upstream rejected (4xx/5xx) with a message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream rejected request (%d): %s", e.Status, e.Message)
}

// Config controls the upstream client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client executes typed requests against the upstream restaurant API.
// Query results are cached by (endpoint, arguments) and grouped by entity
// tag; mutations invalidate their declared tags on success. Identical
// concurrent queries share a single in-flight request.
type Client struct {
	base    string
	timeout time.Duration
	http    *fasthttp.Client
	tokens  TokenSource
	cache   *Cache
	flight  singleflight.Group
	logger  *zap.Logger
}

// New builds a client for the given base URL (for example
// "http://localhost:5000/api").
func New(cfg Config, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http: &fasthttp.Client{
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
		tokens: tokens,
		cache:  NewCache(),
		logger: logger,
	}
}

// Cache exposes the tag cache for watchers and the janitor.
func (c *Client) Cache() *Cache {
	return c.cache
}

// Ping reports whether the upstream answers at all. Any HTTP status counts
// as reachable; only transport failures do not.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, fasthttp.MethodGet, "/health", nil, nil)
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil
	}
	return err
}

// do performs one HTTP round trip and returns the raw response body.
// Transport failures come back wrapped as ErrCodeUnavailable; rejected
// requests as *APIError carrying the server-provided message.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req.SetRequestURI(target)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if token := c.currentToken(); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "upstream request failed", err)
	}

	status := resp.StatusCode()
	out := append([]byte(nil), resp.Body()...)

	if status >= http.StatusBadRequest {
		return nil, &APIError{
			Status:  status,
			Message: rejectionMessage(out, status),
		}
	}
	return out, nil
}

func (c *Client) currentToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// rejectionMessage pulls the server's message out of an error body, falling
// back to the HTTP status text.
func rejectionMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}

// query serves endpoint results from the cache, collapsing concurrent
// identical calls into one fetch.
func query[T any](ctx context.Context, c *Client, endpoint string, args any, tags []Tag, run func(ctx context.Context) ([]byte, error)) (T, error) {
	var zero T
	key, err := Fingerprint(endpoint, args)
	if err != nil {
		return zero, err
	}

	if raw, ok := c.cache.Fresh(key); ok {
		return decode[T](raw)
	}

	raw, err, _ := c.flight.Do(key, func() (any, error) {
		// A concurrent flight may have refreshed the entry already. The
		// shared result is unwrapped as []byte below, so convert here.
		if cached, ok := c.cache.Fresh(key); ok {
			return []byte(cached), nil
		}
		data, fetchErr := run(ctx)
		if fetchErr != nil {
			c.cache.MarkErrored(key, tags, fetchErr)
			return nil, fetchErr
		}
		c.cache.Put(key, tags, data)
		return data, nil
	})
	if err != nil {
		return zero, err
	}
	return decode[T](raw.([]byte))
}

// mutate executes a write endpoint and, only on success, fans the
// invalidation out to every entry carrying one of the declared tags.
func mutate[T any](ctx context.Context, c *Client, invalidates []Tag, run func(ctx context.Context) ([]byte, error)) (T, error) {
	var zero T
	raw, err := run(ctx)
	if err != nil {
		return zero, err
	}
	c.cache.Invalidate(invalidates...)
	return decode[T](raw)
}

func decode[T any](raw []byte) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, domain.WrapError(domain.ErrCodeInternal, "undecodable upstream response", err)
	}
	return out, nil
}
