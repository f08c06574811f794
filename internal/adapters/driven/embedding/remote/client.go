// Package remote provides the HTTP plumbing shared by remote embedding
// adapters: JSON requests with rate limiting and retry with backoff.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/custodia-labs/semdoc/internal/logger"
)

// Default configuration values.
const (
	DefaultMaxRetries  = 4
	DefaultBaseBackoff = 500 * time.Millisecond
)

// StatusError is a non-2xx response.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Service, e.Status, e.Body)
}

// Config configures a Client.
type Config struct {
	// Service names the API in errors and logs (e.g. "ollama").
	Service string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RatePerSecond throttles requests. Zero means unlimited.
	RatePerSecond float64

	// MaxRetries bounds retries of transient failures.
	MaxRetries uint64

	// BaseBackoff is the first Fibonacci backoff step.
	BaseBackoff time.Duration
}

// Client sends JSON requests to an embedding API.
type Client struct {
	http        *http.Client
	service     string
	limiter     *RateLimiter
	maxRetries  uint64
	baseBackoff time.Duration
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseBackoff == 0 {
		cfg.BaseBackoff = DefaultBaseBackoff
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		service:     cfg.Service,
		limiter:     NewRateLimiter(cfg.RatePerSecond, 0),
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
	}
}

// PostJSON sends body as JSON to url and decodes the response into out.
// Network errors, 429 and 5xx responses are retried with Fibonacci backoff.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	return c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}, out)
}

// Get sends a GET to url and decodes a JSON response into out when out is
// not nil.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string, out any) error {
	return c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}, out)
}

func (c *Client) do(ctx context.Context, build func(context.Context) (*http.Request, error), out any) error {
	b := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.baseBackoff))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := build(ctx)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Debug("%s: attempt %d failed: %v", c.service, attempt, err)
			return retry.RetryableError(fmt.Errorf("send request: %w", err))
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("read response: %w", err))
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			serr := &StatusError{Service: c.service, Status: resp.StatusCode, Body: string(data)}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				c.limiter.RecordRateLimitError(retryAfter(resp.Header.Get("Retry-After")))
				logger.Debug("%s: rate limited on attempt %d", c.service, attempt)
				return retry.RetryableError(serr)
			case resp.StatusCode >= 500:
				logger.Debug("%s: attempt %d got status %d", c.service, attempt, resp.StatusCode)
				return retry.RetryableError(serr)
			default:
				return serr
			}
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, status int) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Status == status
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		return time.Until(at)
	}
	return 0
}
