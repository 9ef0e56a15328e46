// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package imagegen generates images through a pollinations-style HTTP
// endpoint. A single GET with the prompt in the path returns the image;
// the final URL after redirects is recorded as the image location.
package imagegen

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Image dimensions requested for every generation.
const (
	ImageWidth  = 1024
	ImageHeight = 1024
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 120 * time.Second

// Client generates images against a pollinations-style endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// seedFn produces the random seed per request. Replaceable in tests.
	seedFn func() int
}

// NewClient creates a client for the given endpoint base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		seedFn:     func() int { return rand.Intn(1_000_000) },
	}
}

// Generate requests an image for prompt with the given model and
// returns the resolved image URL. The image bytes are discarded; only
// the URL is kept.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	u := fmt.Sprintf("%s/prompt/%s", c.baseURL, url.PathEscape(prompt))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("model", model)
	q.Set("seed", strconv.Itoa(c.seedFn()))
	q.Set("width", strconv.Itoa(ImageWidth))
	q.Set("height", strconv.Itoa(ImageHeight))
	q.Set("nologo", "true")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image generation failed: HTTP %d", resp.StatusCode)
	}

	// The endpoint may redirect to the stored image; the final URL is
	// the durable location.
	return resp.Request.URL.String(), nil
}
