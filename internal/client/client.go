// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package client is the HTTP client for the conference service.
// Every operation is one request/response round trip: no retry, no caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client configuration constants
const (
	MaxErrorBodyLen = 10 * 1024        // Maximum error body kept for reporting (10KB)
	MaxBodyLen      = 10 * 1024 * 1024 // Maximum success body decoded (10MB)
	UserAgent       = "confdesk/1.0"   // User-Agent header value
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the conference service at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the platform default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests. Requests wait for a token;
// they are never dropped or retried.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		userAgent:  UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one request.
type call struct {
	op     string
	method string
	path   string
	token  string
	body   any
	out    any
	// raw receives the undecoded 2xx body when set.
	raw *[]byte
	// failKind is the Kind used for 4xx responses; KindHTTP when empty.
	failKind Kind
}

// do performs a single request and decodes a 2xx JSON body into call.out.
func (c *Client) do(ctx context.Context, cl call) error {
	fail := func(kind Kind, status int, body string, err error) *Error {
		return &Error{
			Kind:   kind,
			Op:     cl.op,
			Method: cl.method,
			Path:   cl.path,
			Status: status,
			Body:   body,
			Err:    err,
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(KindNetwork, 0, "", fmt.Errorf("waiting for rate limiter: %w", err))
		}
	}

	var reader io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", cl.op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", cl.op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			"op", cl.op,
			"method", cl.method,
			"path", cl.path,
			"request_id", requestID,
			"error", err)
		return fail(KindNetwork, 0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error bodies are not guaranteed to be JSON; keep them as text.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodyLen))
		kind := cl.failKind
		if kind == "" || resp.StatusCode >= http.StatusInternalServerError {
			kind = KindHTTP
		}
		c.logger.Warn("api request rejected",
			"op", cl.op,
			"method", cl.method,
			"path", cl.path,
			"status", resp.StatusCode,
			"request_id", requestID)
		return fail(kind, resp.StatusCode, strings.TrimSpace(string(body)), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyLen))
	if err != nil {
		return fail(KindNetwork, resp.StatusCode, "", fmt.Errorf("reading response: %w", err))
	}

	if cl.raw != nil {
		*cl.raw = data
	}
	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", cl.op, err)
	}
	return nil
}
