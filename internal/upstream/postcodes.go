package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"weatherlookup/internal/models"
	"weatherlookup/pkg/observe"
)

const (
	PostcodesIOBaseURL = "https://api.postcodes.io/postcodes"
)

// PostcodeClient resolves a free-text postcode against a geocoding
// upstream and returns the raw result for passthrough.
type PostcodeClient interface {
	Name() string
	Lookup(ctx context.Context, postcode string) (*models.UpstreamResult, error)
}

type PostcodesIOClient struct {
	BaseURL    string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewPostcodesIOClient(baseURL string, l *observe.Logger, httpClient HTTPClient) *PostcodesIOClient {
	if baseURL == "" {
		baseURL = PostcodesIOBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PostcodesIOClient{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (c *PostcodesIOClient) Name() string {
	return "postcodes.io"
}

// NormalizePostcode trims and uppercases the postcode for consistency
// before it reaches the upstream.
func NormalizePostcode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (c *PostcodesIOClient) Lookup(ctx context.Context, postcode string) (*models.UpstreamResult, error) {
	formatted := NormalizePostcode(postcode)
	endpoint := fmt.Sprintf("%s/%s", c.BaseURL, url.PathEscape(formatted))

	c.l.Info("making postcodes.io request", map[string]any{
		"postcode": formatted,
	})

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	c.l.Info("received postcodes.io response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &models.UpstreamResult{StatusCode: resp.StatusCode, Body: body}, nil
}
