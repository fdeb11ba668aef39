// Package controller sequences validation, the backend client, the
// preference store, and derivation into the dashboard's search flow. It owns
// the single "current search" slot and the auto-refresh ticker.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cloudslate/weatherdeck/internal/domain"
	"github.com/cloudslate/weatherdeck/internal/observability"
	"github.com/cloudslate/weatherdeck/internal/store"
)

// State names the phases of the current-search slot.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Snapshot is the controller's externally visible state: which city the slot
// belongs to, the weather data on success, and the classified error plus
// stable user-facing message on failure.
type Snapshot struct {
	State       State
	City        string
	Data        *domain.WeatherSnapshot
	Err         *domain.WeatherError
	Message     string
	LastUpdated time.Time
}

// WeatherService is the slice of the backend client the controller needs.
type WeatherService interface {
	GetWeather(ctx context.Context, city string, days int) (domain.WeatherSnapshot, error)
	GetWeatherByCoordinates(ctx context.Context, lat, lon float64, days int) (domain.WeatherSnapshot, error)
	SearchCities(ctx context.Context, query string) []domain.CityMatch
	HealthCheck(ctx context.Context) domain.HealthStatus
}

// Locator resolves the user's coordinates. Implementations return an error
// when the capability is denied or unavailable; the error always arrives (the
// fallback chain must never hang on a pending location).
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// FixedLocator reports a configured coordinate pair.
type FixedLocator struct {
	Lat, Lon float64
}

func (f FixedLocator) Locate(context.Context) (float64, float64, error) {
	return f.Lat, f.Lon, nil
}

// Controller is the search state machine. Overlapping searches are resolved
// by sequence number: only the most recently issued request may write the
// slot, so a slow stale response can never overwrite newer state.
type Controller struct {
	api          WeatherService
	prefs        *store.Store
	locator      Locator
	logger       *slog.Logger
	metrics      *observability.Metrics
	clock        clockwork.Clock
	forecastDays int
	defaultCity  string

	mu          sync.Mutex
	seq         uint64
	state       Snapshot
	lastQuery   string
	refreshStop chan struct{}

	ready atomic.Bool
}

// New creates a Controller. prefs and locator may be nil (no persistence, no
// geolocation); days and defaultCity fall back to 3 and "London".
func New(api WeatherService, prefs *store.Store, locator Locator, days int, defaultCity string, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	if days <= 0 {
		days = 3
	}
	if defaultCity == "" {
		defaultCity = "London"
	}
	return &Controller{
		api:          api,
		prefs:        prefs,
		locator:      locator,
		logger:       logger,
		metrics:      metrics,
		clock:        clockwork.NewRealClock(),
		forecastDays: days,
		defaultCity:  defaultCity,
		state:        Snapshot{State: StateIdle},
	}
}

// SetClock swaps the time source. Tests inject a fake clock before arming
// auto-refresh; pass nil to reset to real time.
func (c *Controller) SetClock(clk clockwork.Clock) {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	c.mu.Lock()
	c.clock = clk
	c.mu.Unlock()
}

// Snapshot returns a copy of the current slot state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Search runs one user search: validate, fetch, resolve. Validation failures
// move the slot straight to the error state without touching the network or
// the loading state. The returned snapshot is the slot state after this
// search resolved (or after a newer one superseded it).
func (c *Controller) Search(ctx context.Context, query string) Snapshot {
	if werr := domain.ValidateCity(query); werr != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = Snapshot{
			State:   StateError,
			City:    strings.TrimSpace(query),
			Err:     werr,
			Message: messageFor(werr, query),
		}
		c.metrics.Searches.WithLabelValues(werr.Tag).Inc()
		return c.state
	}

	city := strings.TrimSpace(query)
	seq := c.begin(city)

	snap, err := c.api.GetWeather(ctx, city, c.forecastDays)
	return c.resolve(seq, city, snap, err)
}

// Refresh re-issues the current city's search, falling back to the last
// attempted query when the slot has never succeeded.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	c.mu.Lock()
	city := c.state.City
	if city == "" {
		city = c.lastQuery
	}
	c.mu.Unlock()

	if city == "" {
		return c.Snapshot()
	}
	return c.Search(ctx, city)
}

// Start issues the initial request: the saved last city, then the locator,
// then the default city. Exactly one request is always attempted, so the UI
// never starts without data on the way.
func (c *Controller) Start(ctx context.Context) Snapshot {
	if c.prefs != nil {
		if city := c.prefs.Preferences().LastCity; city != "" {
			return c.Search(ctx, city)
		}
	}

	if c.locator != nil {
		lat, lon, err := c.locator.Locate(ctx)
		if err == nil {
			if snap, ok := c.searchByCoordinates(ctx, lat, lon); ok {
				return snap
			}
		} else {
			c.logger.Info("location unavailable, using default city", "error", err)
		}
	}

	return c.Search(ctx, c.defaultCity)
}

// searchByCoordinates fetches by coordinates; on failure it reports ok=false
// so Start falls through to the default city instead of surfacing an error.
func (c *Controller) searchByCoordinates(ctx context.Context, lat, lon float64) (Snapshot, bool) {
	seq := c.begin("")

	snap, err := c.api.GetWeatherByCoordinates(ctx, lat, lon, c.forecastDays)
	if err != nil {
		c.logger.Warn("coordinate lookup failed", "lat", lat, "lon", lon, "error", err)
		c.metrics.ControllerLoading.Set(0)
		return Snapshot{}, false
	}
	return c.resolve(seq, snap.Location.Name, snap, nil), true
}

// begin claims the slot for a new request and returns its sequence number.
func (c *Controller) begin(city string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if city != "" {
		c.lastQuery = city
	}
	c.state = Snapshot{State: StateLoading, City: city}
	c.metrics.ControllerLoading.Set(1)
	return c.seq
}

// resolve applies a request outcome to the slot. Outcomes whose sequence is
// no longer the newest are discarded unseen.
func (c *Controller) resolve(seq uint64, city string, snap domain.WeatherSnapshot, err error) Snapshot {
	c.mu.Lock()

	if seq != c.seq {
		c.metrics.Searches.WithLabelValues("stale").Inc()
		c.logger.Debug("discarding stale response", "city", city)
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.metrics.ControllerLoading.Set(0)

	if err != nil {
		werr, ok := domain.AsWeatherError(err)
		if !ok {
			werr = domain.NewWeatherError(domain.TagUnknownError, err.Error(), 0)
		}
		c.state = Snapshot{
			State:   StateError,
			City:    city,
			Err:     werr,
			Message: messageFor(werr, city),
		}
		c.metrics.Searches.WithLabelValues(werr.Tag).Inc()
		c.logger.Warn("search failed", "city", city, "tag", werr.Tag, "status", werr.StatusCode)
		state := c.state
		c.mu.Unlock()
		return state
	}

	resolved := snap.Location.Name
	if resolved == "" {
		resolved = city
	}
	c.state = Snapshot{
		State:       StateSuccess,
		City:        resolved,
		Data:        &snap,
		LastUpdated: c.clock.Now(),
	}
	c.lastQuery = resolved
	c.metrics.Searches.WithLabelValues("success").Inc()
	c.ready.Store(true)
	state := c.state
	c.mu.Unlock()

	// Persist outside the slot lock; the store serializes its own writes.
	if c.prefs != nil {
		if err := c.prefs.RecordSearch(resolved); err != nil {
			c.logger.Warn("record search failed", "error", err)
		}
		if err := c.prefs.SetLastCity(resolved); err != nil {
			c.logger.Warn("save last city failed", "error", err)
		}
	}

	c.logger.Info("weather updated", "city", resolved)
	return state
}

// Suggest returns autocomplete candidates. Advisory only; never fails.
func (c *Controller) Suggest(ctx context.Context, query string) []domain.CityMatch {
	return c.api.SearchCities(ctx, query)
}

// CheckHealth reports backend health for the status badge.
func (c *Controller) CheckHealth(ctx context.Context) domain.HealthStatus {
	return c.api.HealthCheck(ctx)
}

// CheckReadiness returns nil once the controller holds at least one snapshot.
func (c *Controller) CheckReadiness(context.Context) error {
	if !c.ready.Load() {
		return errors.New("no weather data fetched yet")
	}
	return nil
}

// SetAutoRefresh arms or disarms the refresh ticker and persists the
// preference. An existing ticker is always torn down first, so an interval
// change never leaves two tickers running.
func (c *Controller) SetAutoRefresh(enabled bool, interval time.Duration) {
	if c.prefs != nil {
		if err := c.prefs.SetAutoRefresh(enabled, interval); err != nil {
			c.logger.Warn("save auto-refresh preference failed", "error", err)
		}
	}

	c.mu.Lock()
	if c.refreshStop != nil {
		close(c.refreshStop)
		c.refreshStop = nil
	}
	if !enabled || interval <= 0 {
		c.metrics.AutoRefreshEnabled.Set(0)
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.refreshStop = stop
	clk := c.clock
	c.metrics.AutoRefreshEnabled.Set(1)
	c.mu.Unlock()

	c.logger.Info("auto-refresh armed", "interval", interval)
	go c.refreshLoop(clk, stop, interval)
}

func (c *Controller) refreshLoop(clk clockwork.Clock, stop <-chan struct{}, interval time.Duration) {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			c.Refresh(context.Background())
		}
	}
}

// Close tears down the auto-refresh ticker. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refreshStop != nil {
		close(c.refreshStop)
		c.refreshStop = nil
	}
	c.metrics.AutoRefreshEnabled.Set(0)
}
