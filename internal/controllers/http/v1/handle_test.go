package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlookup/internal/models"
	"weatherlookup/internal/services/search"
	"weatherlookup/internal/storage"
	"weatherlookup/pkg/observe"
)

type stubPostcodeClient struct {
	result    *models.UpstreamResult
	err       error
	lastQuery string
}

func (s *stubPostcodeClient) Name() string {
	return "stub-postcodes"
}

func (s *stubPostcodeClient) Lookup(ctx context.Context, postcode string) (*models.UpstreamResult, error) {
	s.lastQuery = postcode
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubForecastClient struct {
	result  *models.UpstreamResult
	err     error
	hasKey  bool
	lastLat string
	lastLon string
}

func (s *stubForecastClient) Name() string {
	return "stub-weather"
}

func (s *stubForecastClient) HasAPIKey() bool {
	return s.hasKey
}

func (s *stubForecastClient) Fetch(ctx context.Context, lat, lon string) (*models.UpstreamResult, error) {
	s.lastLat = lat
	s.lastLon = lon
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestApp(postcodes *stubPostcodeClient, weather *stubForecastClient) *fiber.App {
	logger := observe.NewZapLogger("test-app")
	service := search.NewService(postcodes, weather, storage.NewMemoryStore(), logger)

	app := fiber.New()
	NewRouter(app, postcodes, weather, service, logger)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, body
}

func errorBody(t *testing.T, body []byte) string {
	t.Helper()

	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Error
}

func TestHandlePostcodeLookup_MissingQuery(t *testing.T) {
	app := newTestApp(&stubPostcodeClient{}, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/postcode")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing postcode", errorBody(t, body))
}

func TestHandlePostcodeLookup_PassesBodyThrough(t *testing.T) {
	upstreamBody := `{"status":200,"result":{"postcode":"SW1A 1AA","latitude":51.501009,"longitude":-0.141588}}`
	postcodes := &stubPostcodeClient{
		result: &models.UpstreamResult{StatusCode: http.StatusOK, Body: []byte(upstreamBody)},
	}
	app := newTestApp(postcodes, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/postcode?query=sw1a+1aa")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, upstreamBody, string(body))
	assert.Equal(t, "sw1a 1aa", postcodes.lastQuery)
}

func TestHandlePostcodeLookup_UpstreamStatusRelayed(t *testing.T) {
	postcodes := &stubPostcodeClient{
		result: &models.UpstreamResult{
			StatusCode: http.StatusNotFound,
			Body:       []byte(`{"status":404,"error":"Postcode not found"}`),
		},
	}
	app := newTestApp(postcodes, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/postcode?query=ZZ99+9ZZ")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Postcode not found", errorBody(t, body))
}

func TestHandlePostcodeLookup_UpstreamErrorFallbackMessage(t *testing.T) {
	postcodes := &stubPostcodeClient{
		result: &models.UpstreamResult{StatusCode: http.StatusBadGateway, Body: []byte(`<html>`)},
	}
	app := newTestApp(postcodes, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/postcode?query=SW1A+1AA")

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Invalid postcode", errorBody(t, body))
}

func TestHandleWeatherProxy_MissingQuery(t *testing.T) {
	app := newTestApp(&stubPostcodeClient{}, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/weather")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing location", errorBody(t, body))
}

func TestHandleWeatherProxy_MissingAPIKey(t *testing.T) {
	app := newTestApp(&stubPostcodeClient{}, &stubForecastClient{hasKey: false})

	target := "/api/weather?query=" + url.QueryEscape("lat=51.5014&lon=-0.1419")
	resp, body := doRequest(t, app, "GET", target)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Missing API key in environment", errorBody(t, body))
}

func TestHandleWeatherProxy_ForwardsNestedCoordinates(t *testing.T) {
	weather := &stubForecastClient{
		hasKey: true,
		result: &models.UpstreamResult{StatusCode: http.StatusOK, Body: []byte(`{"list":[]}`)},
	}
	app := newTestApp(&stubPostcodeClient{}, weather)

	target := "/api/weather?query=" + url.QueryEscape("lat=51.5014&lon=-0.1419")
	resp, body := doRequest(t, app, "GET", target)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"list":[]}`, string(body))
	assert.Equal(t, "51.5014", weather.lastLat)
	assert.Equal(t, "-0.1419", weather.lastLon)
}

func TestHandleWeatherProxy_UpstreamStatusRelayed(t *testing.T) {
	weather := &stubForecastClient{
		hasKey: true,
		result: &models.UpstreamResult{
			StatusCode: http.StatusUnauthorized,
			Body:       []byte(`{"cod":401,"message":"Invalid API key"}`),
		},
	}
	app := newTestApp(&stubPostcodeClient{}, weather)

	target := "/api/weather?query=" + url.QueryEscape("lat=51.5&lon=-0.14")
	resp, body := doRequest(t, app, "GET", target)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid API key", errorBody(t, body))
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	app := newTestApp(&stubPostcodeClient{}, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/search")

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing postcode", errorBody(t, body))
}

func TestHandleSearch_NoResult(t *testing.T) {
	postcodes := &stubPostcodeClient{
		result: &models.UpstreamResult{StatusCode: http.StatusOK, Body: []byte(`{"status":200}`)},
	}
	weather := &stubForecastClient{hasKey: true}
	app := newTestApp(postcodes, weather)

	resp, body := doRequest(t, app, "GET", "/api/search?query=SW1A+1AA")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result search.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, search.OutcomeNoResult, result.Outcome)
	assert.Empty(t, weather.lastLat, "weather upstream must not be called")
}

func TestHandleSearch_UpstreamErrorRelayed(t *testing.T) {
	postcodes := &stubPostcodeClient{
		result: &models.UpstreamResult{
			StatusCode: http.StatusNotFound,
			Body:       []byte(`{"status":404,"error":"Postcode not found"}`),
		},
	}
	app := newTestApp(postcodes, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/search?query=ZZ99+9ZZ")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Postcode not found", errorBody(t, body))
}

func TestHandleLocationSearch_ValidatesParameters(t *testing.T) {
	app := newTestApp(&stubPostcodeClient{}, &stubForecastClient{hasKey: true})

	resp, body := doRequest(t, app, "GET", "/api/search/location")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required parameter: lat", errorBody(t, body))

	resp, body = doRequest(t, app, "GET", "/api/search/location?lat=51.5")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required parameter: lon", errorBody(t, body))

	resp, body = doRequest(t, app, "GET", "/api/search/location?lat=abc&lon=-0.14")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid latitude format", errorBody(t, body))

	resp, body = doRequest(t, app, "GET", "/api/search/location?lat=95&lon=-0.14")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Latitude must be between -90 and 90", errorBody(t, body))

	resp, body = doRequest(t, app, "GET", "/api/search/location?lat=51.5&lon=200")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Longitude must be between -180 and 180", errorBody(t, body))
}

func TestHistoryEndpoints(t *testing.T) {
	postcodes := &stubPostcodeClient{
		result: &models.UpstreamResult{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"status":200,"result":{"postcode":"SW1A 1AA","latitude":51.5014,"longitude":-0.1419}}`),
		},
	}
	weather := &stubForecastClient{
		hasKey: true,
		result: &models.UpstreamResult{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"list":[{"dt":1753444800,"main":{"temp":20},"wind":{"speed":3},"weather":[{"main":"Clear","description":"clear sky"}]}],"city":{"name":"London","country":"GB"}}`),
		},
	}
	app := newTestApp(postcodes, weather)

	// A successful text search records history
	resp, _ := doRequest(t, app, "GET", "/api/search?query=SW1A+1AA")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, "GET", "/api/history")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var history HistoryResponse
	require.NoError(t, json.Unmarshal(body, &history))
	assert.Equal(t, []string{"SW1A 1AA"}, history.History)

	// Clearing empties it
	resp, _ = doRequest(t, app, "DELETE", "/api/history")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, body = doRequest(t, app, "GET", "/api/history")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &history))
	assert.Empty(t, history.History)
}
