package http

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"weatherlookup/internal/models"
	"weatherlookup/internal/services/search"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing postcode"`
}

// HistoryResponse represents the recent-search history
type HistoryResponse struct {
	History []string `json:"history" example:"SW1A 1AA,EC1A 1BB"`
}

// HandlePostcodeLookup godoc
// @Summary Resolve a postcode
// @Description Normalizes the postcode and relays the geocoding upstream's JSON response unchanged
// @Tags Proxy
// @Produce json
// @Param query query string true "Free-text postcode" example(SW1A 1AA)
// @Success 200 {object} object "Upstream geocoding body, passed through"
// @Failure 400 {object} ErrorResponse "Missing postcode"
// @Failure 500 {object} ErrorResponse "Unexpected failure"
// @Router /api/postcode [get]
func (r *routes) handlePostcodeLookup(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing postcode",
		})
	}

	result, err := r.postcodes.Lookup(c.Context(), query)
	if err != nil {
		r.l.Error(err, map[string]any{"query": query})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: errorMessage(err),
		})
	}

	if !result.OK() {
		return c.Status(result.StatusCode).JSON(ErrorResponse{
			Error: models.UpstreamErrorMessage(result.Body, "Invalid postcode"),
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(result.Body)
}

// HandleWeatherProxy godoc
// @Summary Fetch a forecast for a coordinate pair
// @Description Relays the forecast upstream's JSON response unchanged. The query parameter encodes lat and lon as nested query parameters.
// @Tags Proxy
// @Produce json
// @Param query query string true "URL-encoded lat/lon pair" example(lat=51.5014&lon=-0.1419)
// @Success 200 {object} object "Upstream forecast body, passed through"
// @Failure 400 {object} ErrorResponse "Missing location"
// @Failure 500 {object} ErrorResponse "Missing API key or unexpected failure"
// @Router /api/weather [get]
func (r *routes) handleWeatherProxy(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing location",
		})
	}

	if !r.weather.HasAPIKey() {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Missing API key in environment",
		})
	}

	// The outer parameter nests lat and lon; whatever it holds is
	// forwarded, the proxy does not validate coordinates.
	params, err := url.ParseQuery(query)
	if err != nil {
		params = url.Values{}
	}

	result, err := r.weather.Fetch(c.Context(), params.Get("lat"), params.Get("lon"))
	if err != nil {
		r.l.Error(err, map[string]any{"query": query})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: errorMessage(err),
		})
	}

	if !result.OK() {
		return c.Status(result.StatusCode).JSON(ErrorResponse{
			Error: models.UpstreamErrorMessage(result.Body, "Invalid location"),
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(result.Body)
}

// HandleSearch godoc
// @Summary Search weather by postcode
// @Description Resolves the postcode, fetches the forecast, updates the recent-search history and returns current conditions plus a 5-day outlook
// @Tags Search
// @Produce json
// @Param query query string true "Free-text postcode" example(SW1A 1AA)
// @Success 200 {object} search.Result
// @Failure 400 {object} ErrorResponse "Missing postcode"
// @Failure 500 {object} ErrorResponse "Unexpected failure"
// @Router /api/search [get]
func (r *routes) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing postcode",
		})
	}

	result, err := r.service.SearchByPostcode(c.Context(), query)
	if err != nil {
		return r.searchError(c, err, map[string]any{"query": query})
	}

	return c.JSON(result)
}

// HandleLocationSearch godoc
// @Summary Search weather by device coordinates
// @Description The geolocation path: fetches the forecast directly. Does not update the recent-search history.
// @Tags Search
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(51.5014)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(-0.1419)
// @Success 200 {object} search.Result
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 500 {object} ErrorResponse "Unexpected failure"
// @Router /api/search/location [get]
func (r *routes) handleLocationSearch(c *fiber.Ctx) error {
	lat := c.Query("lat")
	lon := c.Query("lon")

	if lat == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lat",
		})
	}

	if lon == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: lon",
		})
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid latitude format",
		})
	}

	if latFloat < -90 || latFloat > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Latitude must be between -90 and 90",
		})
	}

	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid longitude format",
		})
	}

	if lonFloat < -180 || lonFloat > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Longitude must be between -180 and 180",
		})
	}

	result, err := r.service.SearchByCoordinates(c.Context(), latFloat, lonFloat)
	if err != nil {
		return r.searchError(c, err, map[string]any{"lat": latFloat, "lon": lonFloat})
	}

	return c.JSON(result)
}

func (r *routes) handleLastOutcome(c *fiber.Ctx) error {
	return c.JSON(r.service.LastOutcome())
}

// HandleGetHistory godoc
// @Summary Recent searches
// @Tags History
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /api/history [get]
func (r *routes) handleGetHistory(c *fiber.Ctx) error {
	return c.JSON(HistoryResponse{History: r.service.History()})
}

// HandleClearHistory godoc
// @Summary Clear the recent-search history
// @Tags History
// @Success 204 "History cleared"
// @Failure 500 {object} ErrorResponse "Store failure"
// @Router /api/history [delete]
func (r *routes) handleClearHistory(c *fiber.Ctx) error {
	if err := r.service.ClearHistory(); err != nil {
		r.l.Error(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: errorMessage(err),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (r *routes) searchError(c *fiber.Ctx, err error, fields map[string]any) error {
	if errors.Is(err, search.ErrEmptyQuery) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing postcode",
		})
	}

	var upstreamErr *search.UpstreamError
	if errors.As(err, &upstreamErr) {
		return c.Status(upstreamErr.Status).JSON(ErrorResponse{
			Error: upstreamErr.Message,
		})
	}

	r.l.Error(err, fields)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errorMessage(err),
	})
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "Unexpected server error"
	}
	return err.Error()
}
