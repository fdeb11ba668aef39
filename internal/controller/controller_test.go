package controller_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudslate/weatherdeck/internal/controller"
	"github.com/cloudslate/weatherdeck/internal/domain"
	"github.com/cloudslate/weatherdeck/internal/observability"
	"github.com/cloudslate/weatherdeck/internal/store"
)

// --- mocks ---

type mockService struct {
	mu        sync.Mutex
	calls     []string
	errs      map[string]error
	gates     map[string]chan struct{} // blocks resolution until closed
	started   map[string]chan struct{} // closed when the call is issued
	coordErr  error
	coordCity string
	health    domain.HealthStatus
	matches   []domain.CityMatch
}

func newMockService() *mockService {
	return &mockService{
		errs:    map[string]error{},
		gates:   map[string]chan struct{}{},
		started: map[string]chan struct{}{},
		health:  domain.HealthStatus{Status: "healthy"},
	}
}

func snapshotFor(city string) domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		Location: domain.Location{Name: city},
		Current:  domain.CurrentConditions{TempC: 20, TempF: 68},
	}
}

func (m *mockService) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockService) callCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockService) GetWeather(_ context.Context, city string, _ int) (domain.WeatherSnapshot, error) {
	m.record("weather:" + city)
	m.mu.Lock()
	gate, started := m.gates[city], m.started[city]
	err := m.errs[city]
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return snapshotFor(city), nil
}

func (m *mockService) GetWeatherByCoordinates(_ context.Context, _, _ float64, _ int) (domain.WeatherSnapshot, error) {
	m.record("coordinates")
	if m.coordErr != nil {
		return domain.WeatherSnapshot{}, m.coordErr
	}
	city := m.coordCity
	if city == "" {
		city = "Geo City"
	}
	return snapshotFor(city), nil
}

func (m *mockService) SearchCities(_ context.Context, query string) []domain.CityMatch {
	m.record("search:" + query)
	return m.matches
}

func (m *mockService) HealthCheck(context.Context) domain.HealthStatus {
	m.record("health")
	return m.health
}

// --- helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.NewMemoryPort(), testLogger())
	require.NoError(t, s.Load())
	return s
}

func newController(t *testing.T, api controller.WeatherService, prefs *store.Store, loc controller.Locator) *controller.Controller {
	t.Helper()
	c := controller.New(api, prefs, loc, 3, "London", testLogger(), observability.NewMetricsForTesting())
	t.Cleanup(c.Close)
	return c
}

// --- tests ---

func TestSearch_Success(t *testing.T) {
	api := newMockService()
	prefs := testStore(t)
	c := newController(t, api, prefs, nil)

	snap := c.Search(context.Background(), "  Tokyo ")

	assert.Equal(t, controller.StateSuccess, snap.State)
	assert.Equal(t, "Tokyo", snap.City)
	require.NotNil(t, snap.Data)
	assert.Equal(t, 20.0, snap.Data.Current.TempC)

	// Resolution feeds the store: history and last city.
	p := prefs.Preferences()
	assert.Equal(t, []string{"Tokyo"}, p.History)
	assert.Equal(t, "Tokyo", p.LastCity)
}

func TestSearch_InvalidInputSkipsNetwork(t *testing.T) {
	api := newMockService()
	c := newController(t, api, nil, nil)

	snap := c.Search(context.Background(), "a")

	assert.Equal(t, controller.StateError, snap.State)
	require.NotNil(t, snap.Err)
	assert.True(t, snap.Err.IsInvalidInput())
	assert.NotEmpty(t, snap.Message)
	assert.Empty(t, api.calls, "validation failure must never reach the network")
}

func TestSearch_ErrorMessagesAreStable(t *testing.T) {
	api := newMockService()
	api.errs["Atlantis"] = domain.NewWeatherError(domain.TagCityNotFound, "backend wording here", 404)
	api.errs["Gotham"] = domain.NewWeatherError(domain.TagNetworkError, "dial tcp: timeout", 0)
	api.errs["Metropolis"] = domain.NewWeatherError(domain.TagAPIError, "quota exceeded upstream", 503)

	c := newController(t, api, nil, nil)

	snap := c.Search(context.Background(), "Atlantis")
	assert.Equal(t, `City "Atlantis" not found. Please check the spelling.`, snap.Message)

	snap = c.Search(context.Background(), "Gotham")
	assert.Equal(t, "Network connection failed. Check your internet connection.", snap.Message)

	// Backend wording never leaks for api_error.
	snap = c.Search(context.Background(), "Metropolis")
	assert.Equal(t, "Weather service is temporarily unavailable.", snap.Message)
	assert.Equal(t, 503, snap.Err.StatusCode)
}

func TestSearch_UnclassifiedErrorBecomesUnknown(t *testing.T) {
	api := newMockService()
	api.errs["Springfield"] = context.DeadlineExceeded

	c := newController(t, api, nil, nil)
	snap := c.Search(context.Background(), "Springfield")

	require.NotNil(t, snap.Err)
	assert.Equal(t, domain.TagUnknownError, snap.Err.Tag)
	assert.Equal(t, snap.Err.Message, snap.Message)
}

func TestSearch_StaleResponseDiscarded(t *testing.T) {
	api := newMockService()
	api.gates["Paris"] = make(chan struct{})
	api.started["Paris"] = make(chan struct{})

	c := newController(t, api, testStore(t), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var parisResult controller.Snapshot
	go func() {
		defer wg.Done()
		parisResult = c.Search(context.Background(), "Paris")
	}()

	// Tokyo is issued strictly after Paris went out, and resolves first.
	<-api.started["Paris"]
	tokyo := c.Search(context.Background(), "Tokyo")
	assert.Equal(t, controller.StateSuccess, tokyo.State)
	assert.Equal(t, "Tokyo", tokyo.City)

	close(api.gates["Paris"])
	wg.Wait()

	// The late Paris response must not overwrite the newer Tokyo state.
	assert.Equal(t, "Tokyo", parisResult.City)
	final := c.Snapshot()
	assert.Equal(t, controller.StateSuccess, final.State)
	assert.Equal(t, "Tokyo", final.City)
}

func TestRefresh_ReissuesCurrentCity(t *testing.T) {
	api := newMockService()
	c := newController(t, api, testStore(t), nil)

	c.Search(context.Background(), "Oslo")
	c.Refresh(context.Background())

	assert.Equal(t, 2, api.callCount("weather:Oslo"))
}

func TestRefresh_FallsBackToLastAttemptedQuery(t *testing.T) {
	api := newMockService()
	api.errs["Atlantis"] = domain.NewWeatherError(domain.TagCityNotFound, "not found", 404)
	c := newController(t, api, nil, nil)

	c.Search(context.Background(), "Atlantis")
	c.Refresh(context.Background())

	assert.Equal(t, 2, api.callCount("weather:Atlantis"))
}

func TestRefresh_NoQueryYetIsANoOp(t *testing.T) {
	api := newMockService()
	c := newController(t, api, nil, nil)

	snap := c.Refresh(context.Background())
	assert.Equal(t, controller.StateIdle, snap.State)
	assert.Empty(t, api.calls)
}

func TestStart_UsesSavedCity(t *testing.T) {
	api := newMockService()
	prefs := testStore(t)
	require.NoError(t, prefs.SetLastCity("Lisbon"))

	c := newController(t, api, prefs, controller.FixedLocator{Lat: 1, Lon: 2})
	snap := c.Start(context.Background())

	assert.Equal(t, "Lisbon", snap.City)
	assert.Equal(t, 0, api.callCount("coordinates"))
}

func TestStart_FallsBackToLocator(t *testing.T) {
	api := newMockService()
	api.coordCity = "Berlin"

	c := newController(t, api, testStore(t), controller.FixedLocator{Lat: 52.52, Lon: 13.405})
	snap := c.Start(context.Background())

	assert.Equal(t, controller.StateSuccess, snap.State)
	assert.Equal(t, "Berlin", snap.City)
	assert.Equal(t, 1, api.callCount("coordinates"))
}

type deniedLocator struct{}

func (deniedLocator) Locate(context.Context) (float64, float64, error) {
	return 0, 0, context.Canceled
}

func TestStart_LocatorDeniedFallsBackToDefaultCity(t *testing.T) {
	api := newMockService()
	c := newController(t, api, testStore(t), deniedLocator{})

	snap := c.Start(context.Background())
	assert.Equal(t, "London", snap.City)
}

func TestStart_CoordinateFailureFallsBackToDefaultCity(t *testing.T) {
	api := newMockService()
	api.coordErr = domain.NewWeatherError(domain.TagNetworkError, "down", 0)

	c := newController(t, api, testStore(t), controller.FixedLocator{Lat: 1, Lon: 2})
	snap := c.Start(context.Background())

	assert.Equal(t, controller.StateSuccess, snap.State)
	assert.Equal(t, "London", snap.City)
}

func TestStart_NoStoreNoLocatorUsesDefaultCity(t *testing.T) {
	api := newMockService()
	c := newController(t, api, nil, nil)

	snap := c.Start(context.Background())
	assert.Equal(t, "London", snap.City)
	assert.Equal(t, 1, api.callCount("weather:London"))
}

func TestCheckReadiness(t *testing.T) {
	api := newMockService()
	c := newController(t, api, nil, nil)

	require.Error(t, c.CheckReadiness(context.Background()))
	c.Search(context.Background(), "London")
	require.NoError(t, c.CheckReadiness(context.Background()))
}

func TestSuggestAndHealthDelegate(t *testing.T) {
	api := newMockService()
	api.matches = []domain.CityMatch{{Name: "London"}}
	api.health = domain.HealthStatus{Status: "degraded"}

	c := newController(t, api, nil, nil)

	assert.Len(t, c.Suggest(context.Background(), "Lon"), 1)
	assert.Equal(t, "degraded", c.CheckHealth(context.Background()).Status)
}

func TestAutoRefresh_FiresOnInterval(t *testing.T) {
	api := newMockService()
	c := newController(t, api, testStore(t), nil)

	fc := clockwork.NewFakeClock()
	c.SetClock(fc)

	c.Search(context.Background(), "Oslo")
	require.Equal(t, 1, api.callCount("weather:Oslo"))

	c.SetAutoRefresh(true, time.Minute)
	fc.BlockUntil(1) // refresh ticker armed

	fc.Advance(time.Minute)
	require.Eventually(t, func() bool {
		return api.callCount("weather:Oslo") == 2
	}, time.Second, 5*time.Millisecond)

	fc.Advance(time.Minute)
	require.Eventually(t, func() bool {
		return api.callCount("weather:Oslo") == 3
	}, time.Second, 5*time.Millisecond)
}

func TestAutoRefresh_DisableTearsDownTicker(t *testing.T) {
	api := newMockService()
	c := newController(t, api, testStore(t), nil)

	fc := clockwork.NewFakeClock()
	c.SetClock(fc)

	c.Search(context.Background(), "Oslo")
	c.SetAutoRefresh(true, time.Minute)
	fc.BlockUntil(1)

	c.SetAutoRefresh(false, 0)

	fc.Advance(5 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, api.callCount("weather:Oslo"), "disabled ticker must not fire")
}

func TestAutoRefresh_IntervalChangeRearms(t *testing.T) {
	api := newMockService()
	c := newController(t, api, testStore(t), nil)

	fc := clockwork.NewFakeClock()
	c.SetClock(fc)

	c.Search(context.Background(), "Oslo")
	c.SetAutoRefresh(true, time.Hour)
	fc.BlockUntil(1)

	// Old ticker is torn down before the new one is armed.
	c.SetAutoRefresh(true, time.Minute)
	fc.BlockUntil(1)

	fc.Advance(time.Minute)
	require.Eventually(t, func() bool {
		return api.callCount("weather:Oslo") == 2
	}, time.Second, 5*time.Millisecond)
}

func TestAutoRefresh_PersistsPreference(t *testing.T) {
	api := newMockService()
	prefs := testStore(t)
	c := newController(t, api, prefs, nil)

	c.SetAutoRefresh(true, 2*time.Minute)

	p := prefs.Preferences()
	assert.True(t, p.AutoRefresh)
	assert.Equal(t, 2*time.Minute, p.AutoRefreshInterval)
}
