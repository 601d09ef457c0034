package feed

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for fetching.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithProxy routes requests through a relay. The escaped feed URL is
// appended to prefix. An empty prefix fetches the feed directly.
func WithProxy(prefix string) Option {
	return func(c *Client) {
		c.proxy = prefix
	}
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBytes caps the accepted document size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithSchemaValidation toggles JSON schema validation of the envelope.
func WithSchemaValidation(enabled bool) Option {
	return func(c *Client) {
		c.validate = enabled
	}
}

// WithClock overrides the time source used for FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
