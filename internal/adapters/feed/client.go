// Package feed downloads and decodes the pairwise vote log.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client defaults.
const (
	defaultTimeout  = 30 * time.Second
	defaultMaxBytes = 64 << 20
	statusSnippet   = 256
)

// Client fetches the vote log over HTTP.
type Client struct {
	http     *http.Client
	feedURL  string
	proxy    string
	timeout  time.Duration
	maxBytes int64
	validate bool
	now      func() time.Time
}

// NewClient creates a client for feedURL.
func NewClient(feedURL string, opts ...Option) *Client {
	return newClient(feedURL, opts...)
}

func newClient(feedURL string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{},
		feedURL:  feedURL,
		timeout:  defaultTimeout,
		maxBytes: defaultMaxBytes,
		validate: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the address actually requested.
func (c *Client) URL() string {
	if c.proxy == "" {
		return c.feedURL
	}
	return c.proxy + url.QueryEscape(c.feedURL)
}

// Fetch downloads and decodes one feed document.
func (c *Client) Fetch(ctx context.Context) (Batch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return Batch{}, fmt.Errorf("%w: build request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Batch{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, statusSnippet))
		return Batch{}, fmt.Errorf("%w: %d %s: %s", ErrHTTPStatus, resp.StatusCode,
			http.StatusText(resp.StatusCode), string(snippet))
	}

	b, err := c.decode(resp.Body)
	if err != nil {
		return Batch{}, err
	}
	b.FetchedAt = c.now()
	return b, nil
}
