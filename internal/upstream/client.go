package upstream

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RateLimitedClient wraps an HTTPClient with an outbound rate limit so
// a busy page cannot hammer the third-party APIs.
// rps is the maximum requests per second allowed (can be fractional
// for less than 1 request per second), burst the maximum burst size.
type RateLimitedClient struct {
	client  HTTPClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(client HTTPClient, rps float64, burst int) *RateLimitedClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RateLimitedClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Do waits for rate limiter permission or context cancellation, then
// forwards to the underlying client.
func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return c.client.Do(req)
}

var _ HTTPClient = (*RateLimitedClient)(nil)
