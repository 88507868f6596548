package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weatherlookup/config"
	v1 "weatherlookup/internal/controllers/http/v1"
	"weatherlookup/internal/services/search"
	"weatherlookup/internal/storage"
	"weatherlookup/internal/upstream"
	"weatherlookup/pkg/httpserver"
	"weatherlookup/pkg/observe"
)

// @title Postcode Weather Lookup
// @version 1.0.0
// @description Resolve a UK postcode to coordinates and fetch a 5-day weather outlook, with a bounded recent-search history.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Proxy
// @tag.description Raw upstream passthrough endpoints
// @tag.name Search
// @tag.description Orchestrated postcode and coordinate searches
// @tag.name History
// @tag.description Recent-search history
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on environment")
	}

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	sentryHook := observe.NewSentryHook(cnf.App.Env, cnf.App.Name, 0, cnf.IsDevelopment(), cnf.Sentry.DSN)

	l := observe.NewZapLogger(cnf.App.Name, os.Stdout, sentryHook)
	sentryHook.SetLogger(l)

	store, err := storage.NewSQLite(cnf.History.DBPath)
	if err != nil {
		l.Fatal("cannot open history store", map[string]any{"err": err, "path": cnf.History.DBPath})
	}

	httpClient := upstream.NewRateLimitedClient(nil, cnf.Upstream.RequestsPerSec, cnf.Upstream.Burst)

	postcodes := upstream.NewPostcodesIOClient(cnf.Upstream.PostcodeBaseURL, l, httpClient)
	weather := upstream.NewOpenWeatherClient(cnf.Upstream.WeatherBaseURL, cnf.Upstream.WeatherAPIKey, l, httpClient)

	if !weather.HasAPIKey() {
		l.Warning("no OpenWeatherMap API key configured, weather requests will fail")
	}

	searchService := search.NewService(postcodes, weather, store, l)

	app := httpserver.InitFiberServer(cnf.App.Name)

	v1.NewRouter(
		app,
		postcodes,
		weather,
		searchService,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{"port": cnf.Server.Port})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = store.Close()
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
