// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client implements the typed search client: it posts a query to
// a configured search endpoint and returns the paper records verbatim.
// Session adds latest-wins sequencing for interactive callers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paperrank/internal/httputil"
	"github.com/pdiddy/paperrank/pkg/types"
)

const defaultTimeout = 10 * time.Second

// Client queries a paperrank search endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	maxRetries int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sends key as X-API-Key on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxRetries bounds 429 retries (0 = library default).
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New returns a client for the given search endpoint URL.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		userAgent:  "paperrank/0.1",
		maxRetries: 1,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a client from a ClientConfig.
func FromConfig(cfg types.ClientConfig) *Client {
	var opts []Option
	if cfg.Timeout > 0 {
		opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	if cfg.APIKey != "" {
		opts = append(opts, WithAPIKey(cfg.APIKey))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, WithMaxRetries(cfg.MaxRetries))
	}
	return New(cfg.Endpoint, opts...)
}

// Search posts the query and returns the result list exactly as the
// endpoint sent it: no client-side validation, sorting, or dedup.
//
// A blank query returns ErrEmptyQuery before any network activity.
// Non-200 responses become a *StatusError; transport and decode failures
// are wrapped with a connectivity message.
func (c *Client) Search(ctx context.Context, query string) ([]types.PaperResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	body, err := json.Marshal(types.SearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("could not reach search endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var sr types.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("could not parse search response: %w", err)
	}

	return sr.Results, nil
}
