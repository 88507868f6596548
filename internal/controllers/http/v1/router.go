package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weatherlookup/internal/services/search"
	"weatherlookup/internal/upstream"
	"weatherlookup/pkg/observe"
)

type routes struct {
	postcodes upstream.PostcodeClient
	weather   upstream.ForecastClient
	service   *search.Service
	l         *observe.Logger
}

func NewRouter(
	app *fiber.App,
	postcodes upstream.PostcodeClient,
	weather upstream.ForecastClient,
	searchService *search.Service,
	l *observe.Logger,
) {
	r := &routes{
		postcodes: postcodes,
		weather:   weather,
		service:   searchService,
		l:         l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// Upstream proxy endpoints used directly by the page
	app.Get("/api/postcode", r.handlePostcodeLookup)
	app.Get("/api/weather", r.handleWeatherProxy)

	// Orchestrated search
	app.Get("/api/search", r.handleSearch)
	app.Get("/api/search/location", r.handleLocationSearch)
	app.Get("/api/search/last", r.handleLastOutcome)

	// Recent search history
	app.Get("/api/history", r.handleGetHistory)
	app.Delete("/api/history", r.handleClearHistory)

	// Presentational shell
	app.Static("/", "./web")
}
