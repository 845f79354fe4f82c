package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables limiting
	RateBurst int
	Logger    *log.Logger

	// HTTPClient overrides the transport, Timeout is ignored when set
	HTTPClient *http.Client

	// OnTokenRefresh is called whenever the server rotates the token
	OnTokenRefresh func(token string)
}

// Client is an HTTP client for the pagao API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	onRefresh  func(string)

	mu    sync.RWMutex
	token string
}

// NewClient creates a new pagao API client
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		onRefresh:  opts.OnTokenRefresh,
		token:      opts.Token,
	}
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Token returns the bearer token currently in use
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token used for subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// call builds the deferred request handed to the adapters. The payload is
// encoded lazily so encoding failures surface as a failed call.
func (c *Client) call(method, path string, payload any) Call {
	return func(ctx context.Context) (*http.Response, error) {
		var body io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request: %w", err)
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		requestID := uuid.New().String()
		req.Header.Set(requestIDHeader, requestID)

		token := c.Token()
		if token != "" {
			req.Header.Set("Authorization", bearer(token))
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("Request failed", "method", method, "path", path, "request_id", requestID, "error", err)
			return nil, err
		}
		c.logger.Debug("Request completed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"duration", time.Since(start))

		// Authenticated calls may come back with a rotated token
		if token != "" && isSuccessful(resp.StatusCode) {
			if rotated := resp.Header.Get("Authorization"); rotated != "" && rotated != token {
				c.rotate(rotated)
			}
		}
		return resp, nil
	}
}

func (c *Client) rotate(token string) {
	c.SetToken(token)
	c.logger.Debug("Token refreshed by server")
	if c.onRefresh != nil {
		c.onRefresh(token)
	}
}

func bearer(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}
