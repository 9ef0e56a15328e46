// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package ai provides the OpenRouter-compatible chat completions client.
//
// The client streams responses over SSE and supports multipart message
// content for attachments. Every call takes a context so in-flight
// requests can be abandoned.
package ai

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the completions API.
const (
	// DefaultBaseURL is the base URL for the completions API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout is the default timeout for non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// defaultRequestsPerMinute caps outgoing completion requests when
	// the config does not specify a limit.
	defaultRequestsPerMinute = 20
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared HTTP client for all non-streaming requests.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient is used for streaming requests (no timeout,
	// context-controlled).
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// apiErrorResponse represents an error response from the API.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a client for the chat completions API.
type Client struct {
	apiKey  string
	baseURL string
	limiter *rate.Limiter

	mu       sync.Mutex
	signedIn bool
}

// NewClient creates a client with the given API key. An empty key is
// allowed; requests will fail with ErrNotConfigured until one is set.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(float64(defaultRequestsPerMinute)/60.0), defaultRequestsPerMinute),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *Client) WithBaseURL(url string) *Client {
	if url != "" {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithRequestsPerMinute caps outgoing completion requests.
func (c *Client) WithRequestsPerMinute(n int) *Client {
	if n > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), n)
	}
	return c
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// SignIn marks the client as signed in. The flag is local state only;
// no request is made.
func (c *Client) SignIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signedIn = true
}

// SignOut clears the signed-in flag.
func (c *Client) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signedIn = false
}

// IsSignedIn reports the local signed-in flag.
func (c *Client) IsSignedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signedIn
}

// setHeaders sets the required headers for API requests.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "onyx/0.1.0")
	req.Header.Set("X-Title", "onyx")
}

// handleErrorResponse converts HTTP error responses to Go errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		wrapped := &APIError{
			Code:    apiErr.Error.Code,
			Message: apiErr.Error.Message,
			Status:  statusCode,
		}
		switch statusCode {
		case http.StatusUnauthorized:
			return &wrappedSentinel{sentinel: ErrAuthFailed, inner: wrapped}
		case http.StatusNotFound:
			return &wrappedSentinel{sentinel: ErrModelNotFound, inner: wrapped}
		case http.StatusTooManyRequests:
			return &wrappedSentinel{sentinel: ErrRateLimited, inner: wrapped}
		default:
			return wrapped
		}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return ErrAuthFailed
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{Message: string(body), Status: statusCode}
	}
}

// wrappedSentinel pairs a sentinel error with the API error carrying
// the server message, so errors.Is and errors.As both work.
type wrappedSentinel struct {
	sentinel error
	inner    *APIError
}

func (w *wrappedSentinel) Error() string { return w.inner.Error() }

func (w *wrappedSentinel) Is(target error) bool { return target == w.sentinel }

func (w *wrappedSentinel) As(target any) bool {
	if p, ok := target.(**APIError); ok {
		*p = w.inner
		return true
	}
	return false
}

func (w *wrappedSentinel) Unwrap() error { return w.sentinel }
