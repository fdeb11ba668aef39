package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all daemon settings, populated from environment variables.
type Config struct {
	BackendURL      string
	HTTPTimeout     time.Duration
	ForecastDays    int
	DefaultCity     string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Preference persistence. Empty StorePath keeps preferences in memory.
	StorePath string

	// Outbound request budget toward the backend.
	RateLimitRPS   float64
	RateLimitBurst int

	// City-search autocomplete cache.
	SearchCacheSize int

	AutoRefreshInterval time.Duration

	// Optional fixed coordinates used when no last city is saved.
	Lat, Lon       float64
	HasCoordinates bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	httpTimeout, err := parseDuration("HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("AUTO_REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	forecastDays, err := parseInt("FORECAST_DAYS", 3)
	if err != nil {
		return nil, err
	}
	if forecastDays < 1 || forecastDays > 10 {
		return nil, errors.New("FORECAST_DAYS must be between 1 and 10")
	}

	cacheSize, err := parseInt("SEARCH_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	if cacheSize < 1 {
		return nil, errors.New("SEARCH_CACHE_SIZE must be positive")
	}

	burst, err := parseInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	if burst < 1 {
		return nil, errors.New("RATE_LIMIT_BURST must be positive")
	}

	rps, err := parseFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	if rps <= 0 {
		return nil, errors.New("RATE_LIMIT_RPS must be positive")
	}

	cfg := &Config{
		BackendURL:          envOrDefault("BACKEND_URL", "http://localhost:8000"),
		HTTPTimeout:         httpTimeout,
		ForecastDays:        forecastDays,
		DefaultCity:         envOrDefault("DEFAULT_CITY", "London"),
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		StorePath:           os.Getenv("STORE_PATH"),
		RateLimitRPS:        rps,
		RateLimitBurst:      burst,
		SearchCacheSize:     cacheSize,
		AutoRefreshInterval: refreshInterval,
	}

	if cfg.BackendURL == "" {
		return nil, errors.New("BACKEND_URL is required")
	}

	latStr, lonStr := os.Getenv("LAT"), os.Getenv("LON")
	if latStr != "" || lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			return nil, errors.New("LAT and LON must both be valid floats")
		}
		cfg.Lat, cfg.Lon = lat, lon
		cfg.HasCoordinates = true
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}
