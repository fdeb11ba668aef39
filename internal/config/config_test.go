package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.ForecastDays)
	assert.Equal(t, "London", cfg.DefaultCity)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.StorePath)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, 256, cfg.SearchCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.AutoRefreshInterval)
	assert.False(t, cfg.HasCoordinates)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://weather.example.com")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("FORECAST_DAYS", "7")
	t.Setenv("DEFAULT_CITY", "Oslo")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("STORE_PATH", "/tmp/prefs.db")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("SEARCH_CACHE_SIZE", "64")
	t.Setenv("AUTO_REFRESH_INTERVAL", "1m")
	t.Setenv("LAT", "51.5072")
	t.Setenv("LON", "-0.1276")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://weather.example.com", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 7, cfg.ForecastDays)
	assert.Equal(t, "Oslo", cfg.DefaultCity)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/tmp/prefs.db", cfg.StorePath)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.Equal(t, 64, cfg.SearchCacheSize)
	assert.Equal(t, time.Minute, cfg.AutoRefreshInterval)
	assert.True(t, cfg.HasCoordinates)
	assert.Equal(t, 51.5072, cfg.Lat)
	assert.Equal(t, -0.1276, cfg.Lon)
}

func TestLoad_InvalidHTTPTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
}

func TestLoad_NegativeRefreshInterval(t *testing.T) {
	t.Setenv("AUTO_REFRESH_INTERVAL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTO_REFRESH_INTERVAL")
}

func TestLoad_ForecastDaysOutOfRange(t *testing.T) {
	t.Setenv("FORECAST_DAYS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORECAST_DAYS")

	t.Setenv("FORECAST_DAYS", "11")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_RPS")
}

func TestLoad_LatWithoutLon(t *testing.T) {
	t.Setenv("LAT", "51.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LON")
}
