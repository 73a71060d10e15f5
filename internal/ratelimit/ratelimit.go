// Package ratelimit provides an HTTP client that spaces out consecutive
// requests to stay inside a provider's calls-per-minute quota.
package ratelimit

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps an http.Client with a rate limiter. The first request goes
// through immediately; every later request waits until the configured
// interval has elapsed since the previous one. No wait happens after the
// last request of a run.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a rate-limited client. An interval of zero or less
// disables pacing entirely.
func NewClient(c *http.Client, interval time.Duration) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &Client{client: c, limiter: limiter}
}

// Do waits for the limiter, then performs the request. The wait honors the
// request's context.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.client.Do(req)
}
