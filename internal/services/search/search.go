// Package search sequences a weather lookup: resolve a postcode to a
// coordinate, fetch the forecast, derive the display data and record
// the query in the recent-search history.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weatherlookup/internal/forecast"
	"weatherlookup/internal/models"
	"weatherlookup/internal/storage"
	"weatherlookup/internal/upstream"
	"weatherlookup/pkg/observe"
)

// Outcome is the terminal state of one search attempt.
type Outcome string

const (
	OutcomeResult   Outcome = "result"
	OutcomeNoResult Outcome = "no_result"
	OutcomeError    Outcome = "error"
)

const (
	fallbackPostcodeMessage = "Invalid postcode"
	fallbackLocationMessage = "Invalid location"
)

var ErrEmptyQuery = errors.New("empty search query")

// UpstreamError is a non-success status reported by a third-party API,
// relayed with its own status code and message. Never retried.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Result is a successful or no-result search attempt.
type Result struct {
	RequestID  string                   `json:"request_id"`
	Outcome    Outcome                  `json:"outcome"`
	Query      string                   `json:"query,omitempty"`
	Coordinate *models.Coordinate       `json:"coordinate,omitempty"`
	Forecast   *models.ForecastResponse `json:"forecast,omitempty"`
	Current    *CurrentConditions       `json:"current,omitempty"`
	Outlook    []forecast.DailyEntry    `json:"outlook,omitempty"`
}

// CurrentConditions is the headline reading, taken from the first
// forecast entry the provider returns.
type CurrentConditions struct {
	Description string        `json:"description"`
	Temp        float64       `json:"temp"`
	Humidity    int           `json:"humidity"`
	WindSpeed   float64       `json:"wind_speed"`
	Icon        forecast.Icon `json:"icon"`
}

// Snapshot is the last published search outcome, kept for the poll
// endpoint and for debugging overlapping submissions.
type Snapshot struct {
	RequestID string  `json:"request_id"`
	Outcome   Outcome `json:"outcome"`
	Query     string  `json:"query,omitempty"`
	Error     string  `json:"error,omitempty"`
}

type Service struct {
	postcodes upstream.PostcodeClient
	weather   upstream.ForecastClient
	store     storage.HistoryStore
	l         *observe.Logger

	// gen implements the latest-wins policy for overlapping
	// submissions: a search publishes its outcome and touches history
	// only while no newer search has started.
	gen atomic.Uint64

	mu      sync.Mutex
	history []string
	last    Snapshot
}

// NewService loads the persisted history once at startup. A store
// read failure logs a warning and starts with an empty history rather
// than refusing to serve weather.
func NewService(
	postcodes upstream.PostcodeClient,
	weather upstream.ForecastClient,
	store storage.HistoryStore,
	l *observe.Logger,
) *Service {
	s := &Service{
		postcodes: postcodes,
		weather:   weather,
		store:     store,
		l:         l,
	}

	history, err := store.Load()
	if err != nil {
		l.Warning("failed to load search history", map[string]any{"err": err})
	} else {
		s.history = history
	}

	return s
}

// SearchByPostcode runs the text path: resolve the postcode, fetch
// the forecast, push the query onto the history. A geocoder body
// without a usable result ends as OutcomeNoResult and the weather
// upstream is never called.
func (s *Service) SearchByPostcode(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	gen := s.gen.Add(1)
	requestID := uuid.NewString()

	s.l.Info("starting postcode search", map[string]any{
		"requestID": requestID,
		"query":     query,
	})

	lookup, err := s.resolvePostcode(ctx, query)
	if err != nil {
		s.publish(gen, Snapshot{RequestID: requestID, Outcome: OutcomeError, Query: query, Error: err.Error()})
		return nil, err
	}

	coord, ok := lookup.Coordinate()
	if !ok {
		s.l.Info("postcode did not resolve", map[string]any{
			"requestID": requestID,
			"query":     query,
		})
		s.publish(gen, Snapshot{RequestID: requestID, Outcome: OutcomeNoResult, Query: query})
		return &Result{RequestID: requestID, Outcome: OutcomeNoResult, Query: query}, nil
	}

	fc, err := s.fetchForecast(ctx, coord.Latitude, coord.Longitude)
	if err != nil {
		s.publish(gen, Snapshot{RequestID: requestID, Outcome: OutcomeError, Query: query, Error: err.Error()})
		return nil, err
	}

	result := buildResult(requestID, query, coord, fc)

	if s.publish(gen, Snapshot{RequestID: requestID, Outcome: OutcomeResult, Query: query}) {
		s.pushHistory(query)
	}

	s.l.Info("postcode search completed", map[string]any{
		"requestID": requestID,
		"query":     query,
		"location":  fc.City.Name,
		"days":      len(result.Outlook),
	})

	return result, nil
}

// SearchByCoordinates runs the device-location path: forecast only,
// the history is deliberately left untouched.
func (s *Service) SearchByCoordinates(ctx context.Context, lat, lon float64) (*Result, error) {
	gen := s.gen.Add(1)
	requestID := uuid.NewString()

	s.l.Info("starting coordinate search", map[string]any{
		"requestID": requestID,
		"lat":       lat,
		"lon":       lon,
	})

	fc, err := s.fetchForecast(ctx, lat, lon)
	if err != nil {
		s.publish(gen, Snapshot{RequestID: requestID, Outcome: OutcomeError, Error: err.Error()})
		return nil, err
	}

	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	result := buildResult(requestID, "", coord, fc)

	s.publish(gen, Snapshot{RequestID: requestID, Outcome: OutcomeResult})

	return result, nil
}

func (s *Service) resolvePostcode(ctx context.Context, query string) (*models.PostcodeLookup, error) {
	res, err := s.postcodes.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &UpstreamError{
			Status:  res.StatusCode,
			Message: models.UpstreamErrorMessage(res.Body, fallbackPostcodeMessage),
		}
	}

	var lookup models.PostcodeLookup
	if err := json.Unmarshal(res.Body, &lookup); err != nil {
		return nil, fmt.Errorf("failed to parse geocoder response: %w", err)
	}
	return &lookup, nil
}

func (s *Service) fetchForecast(ctx context.Context, lat, lon float64) (*models.ForecastResponse, error) {
	res, err := s.weather.Fetch(ctx, formatCoord(lat), formatCoord(lon))
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &UpstreamError{
			Status:  res.StatusCode,
			Message: models.UpstreamErrorMessage(res.Body, fallbackLocationMessage),
		}
	}

	var fc models.ForecastResponse
	if err := json.Unmarshal(res.Body, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	return &fc, nil
}

// publish records the outcome unless a newer search has started; a
// stale search must not overwrite the newer state or reorder history.
func (s *Service) publish(gen uint64, snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != gen {
		s.l.Debug("dropping stale search outcome", map[string]any{
			"requestID": snap.RequestID,
			"outcome":   snap.Outcome,
		})
		return false
	}

	s.last = snap
	return true
}

func (s *Service) pushHistory(query string) {
	s.mu.Lock()
	s.history = storage.Push(s.history, query)
	snapshot := make([]string, len(s.history))
	copy(snapshot, s.history)
	s.mu.Unlock()

	if err := s.store.Save(snapshot); err != nil {
		s.l.Warning("failed to persist search history", map[string]any{"err": err})
	}
}

// History returns the recent searches, most recent first.
func (s *Service) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory empties the history in memory and in the store.
func (s *Service) ClearHistory() error {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()

	return s.store.Clear()
}

func (s *Service) LastOutcome() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func buildResult(requestID, query string, coord models.Coordinate, fc *models.ForecastResponse) *Result {
	result := &Result{
		RequestID:  requestID,
		Outcome:    OutcomeResult,
		Query:      query,
		Coordinate: &coord,
		Forecast:   fc,
		Outlook:    forecast.Outlook(fc.List),
	}

	if len(fc.List) > 0 {
		e := fc.List[0]
		current := &CurrentConditions{
			Temp:      e.Main.Temp,
			Humidity:  e.Main.Humidity,
			WindSpeed: e.Wind.Speed,
			Icon:      forecast.IconFor(e.ConditionMain(), e.Main.Temp),
		}
		if len(e.Weather) > 0 {
			current.Description = e.Weather[0].Description
		}
		result.Current = current
	}

	return result
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
