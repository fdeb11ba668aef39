package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperature_SelectsUnit(t *testing.T) {
	assert.Equal(t, 20, Temperature(20.0, 68.0, UnitCelsius))
	assert.Equal(t, 68, Temperature(20.0, 68.0, UnitFahrenheit))

	// Rounds, never converts.
	assert.Equal(t, 21, Temperature(20.5, 68.9, UnitCelsius))
	assert.Equal(t, 69, Temperature(20.5, 68.9, UnitFahrenheit))
}

func TestWindSpeed_PairsWithTemperatureUnit(t *testing.T) {
	assert.Equal(t, 24, WindSpeed(15.0, 24.1, UnitCelsius), "celsius pairs with kph")
	assert.Equal(t, 15, WindSpeed(15.0, 24.1, UnitFahrenheit), "fahrenheit pairs with mph")
}

func TestVisibility_PairsWithTemperatureUnit(t *testing.T) {
	assert.Equal(t, 10, Visibility(10.0, 6.2, UnitCelsius))
	assert.Equal(t, 6, Visibility(10.0, 6.2, UnitFahrenheit))
}

func TestBackgroundTheme(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		isDay    bool
		darkMode bool
		want     ThemeKey
	}{
		{"dark mode overrides everything", 1000, true, true, ThemeDark},
		{"sunny day", 1000, true, false, ThemeSunnyDay},
		{"clear night", 1000, false, false, ThemeClearNight},
		{"partly cloudy", 1003, true, false, ThemePartlyCloudy},
		{"overcast", 1009, true, false, ThemeCloudy},
		{"light rain", 1183, true, false, ThemeRainy},
		{"heavy rain", 1195, false, false, ThemeRainy},
		{"snow", 1225, true, false, ThemeSnowy},
		{"thunder", 1276, true, false, ThemeStorm},
		{"unknown code falls back", 9999, true, false, ThemeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BackgroundTheme(tt.code, tt.isDay, tt.darkMode))
		})
	}
}

func day(avgC float64) ForecastDay {
	return ForecastDay{Day: DayStats{AvgtempC: avgC}}
}

func TestTrendFor(t *testing.T) {
	prev := day(10)

	assert.Equal(t, TrendRising, TrendFor(day(15), &prev))
	assert.Equal(t, TrendFalling, TrendFor(day(5), &prev))
	assert.Equal(t, TrendStable, TrendFor(day(10), &prev))

	// First day has no predecessor: stable by convention.
	assert.Equal(t, TrendStable, TrendFor(day(15), nil))
}

func TestTrends_Sequence(t *testing.T) {
	f := Forecast{ForecastDay: []ForecastDay{day(10), day(15), day(15), day(12)}}
	assert.Equal(t, []Trend{TrendStable, TrendRising, TrendStable, TrendFalling}, Trends(f))
}

func TestUVLevel_Buckets(t *testing.T) {
	assert.Equal(t, "Low", UVLevel(0))
	assert.Equal(t, "Low", UVLevel(2))
	assert.Equal(t, "Moderate", UVLevel(3.5))
	assert.Equal(t, "Moderate", UVLevel(5))
	assert.Equal(t, "High", UVLevel(6))
	assert.Equal(t, "Very High", UVLevel(9.9))
	assert.Equal(t, "Extreme", UVLevel(11))
}

func TestComfortFor(t *testing.T) {
	c := ComfortFor(CurrentConditions{TempC: 22, Humidity: 65, UV: 6})
	assert.InDelta(t, 28.5, c.HeatIndexC, 1e-9)
	assert.Equal(t, "High", c.UVLevel)
}
