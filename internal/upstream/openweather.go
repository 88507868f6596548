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
	OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/forecast"
)

// ForecastClient fetches a multi-day forecast for a coordinate pair
// and returns the raw result for passthrough. Latitude and longitude
// travel as strings: the proxy forwards whatever the caller sent.
type ForecastClient interface {
	Name() string
	HasAPIKey() bool
	Fetch(ctx context.Context, lat, lon string) (*models.UpstreamResult, error)
}

type OpenWeatherClient struct {
	BaseURL    string
	APIKey     string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewOpenWeatherClient(baseURL, apiKey string, l *observe.Logger, httpClient HTTPClient) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenWeatherClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		httpClient: httpClient,
		l:          l,
	}
}

func (c *OpenWeatherClient) Name() string {
	return "openweathermap"
}

// HasAPIKey reports whether a key is configured. The weather proxy
// turns a missing key into a 500, it is a deployment error.
func (c *OpenWeatherClient) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c *OpenWeatherClient) Fetch(ctx context.Context, lat, lon string) (*models.UpstreamResult, error) {
	endpoint := fmt.Sprintf("%s?lat=%s&lon=%s&units=metric&appid=%s",
		c.BaseURL, url.QueryEscape(lat), url.QueryEscape(lon), url.QueryEscape(c.APIKey))

	c.l.Info("making openweathermap request", map[string]any{
		"lat": lat,
		"lon": lon,
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

	c.l.Info("received openweathermap response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &models.UpstreamResult{StatusCode: resp.StatusCode, Body: body}, nil
}
