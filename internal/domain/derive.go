package domain

import "math"

// Unit is the user-selected temperature unit. It also selects the paired
// wind/visibility units (see package doc).
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// Temperature picks the requested unit's value and rounds to the nearest
// integer. Both fields are always present on the payload, so this is a
// selection, not a conversion.
func Temperature(c, f float64, unit Unit) int {
	if unit == UnitFahrenheit {
		return int(math.Round(f))
	}
	return int(math.Round(c))
}

// WindSpeed pairs km/h with celsius and mph with fahrenheit.
func WindSpeed(mph, kph float64, unit Unit) int {
	if unit == UnitFahrenheit {
		return int(math.Round(mph))
	}
	return int(math.Round(kph))
}

// Visibility pairs km with celsius and miles with fahrenheit.
func Visibility(km, miles float64, unit Unit) int {
	if unit == UnitFahrenheit {
		return int(math.Round(miles))
	}
	return int(math.Round(km))
}

// ThemeKey is a discrete background-selection token. It carries no styling;
// the presentation layer maps it to whatever treatment it likes.
type ThemeKey string

const (
	ThemeDark         ThemeKey = "dark"
	ThemeSunnyDay     ThemeKey = "sunny-day"
	ThemeClearNight   ThemeKey = "clear-night"
	ThemePartlyCloudy ThemeKey = "partly-cloudy"
	ThemeCloudy       ThemeKey = "cloudy"
	ThemeRainy        ThemeKey = "rainy"
	ThemeSnowy        ThemeKey = "snowy"
	ThemeStorm        ThemeKey = "storm"
	ThemeDefault      ThemeKey = "default"
)

// BackgroundTheme selects the background token for the given condition.
// Dark mode overrides everything; otherwise condition codes map to theme
// buckets with a default fallback for unrecognized codes.
func BackgroundTheme(conditionCode int, isDay, darkMode bool) ThemeKey {
	if darkMode {
		return ThemeDark
	}
	switch conditionCode {
	case 1000:
		if isDay {
			return ThemeSunnyDay
		}
		return ThemeClearNight
	case 1003:
		return ThemePartlyCloudy
	case 1006, 1009, 1030, 1135, 1147:
		return ThemeCloudy
	case 1063, 1150, 1153, 1168, 1171, 1180, 1183, 1186, 1189, 1192, 1195, 1240, 1243, 1246:
		return ThemeRainy
	case 1066, 1069, 1072, 1114, 1117, 1210, 1213, 1216, 1219, 1222, 1225, 1237, 1249, 1252, 1255, 1258, 1261, 1264:
		return ThemeSnowy
	case 1087, 1273, 1276, 1279, 1282:
		return ThemeStorm
	default:
		return ThemeDefault
	}
}

// Trend is the day-over-day temperature direction.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// TrendFor compares a forecast day's average celsius temperature against its
// predecessor. Stable requires exact equality. The first day of a sequence
// has no predecessor and reports stable by convention.
func TrendFor(day ForecastDay, prev *ForecastDay) Trend {
	if prev == nil {
		return TrendStable
	}
	switch {
	case day.Day.AvgtempC > prev.Day.AvgtempC:
		return TrendRising
	case day.Day.AvgtempC < prev.Day.AvgtempC:
		return TrendFalling
	default:
		return TrendStable
	}
}

// Trends computes the trend for every day in a forecast, in order.
func Trends(f Forecast) []Trend {
	out := make([]Trend, len(f.ForecastDay))
	for i, day := range f.ForecastDay {
		var prev *ForecastDay
		if i > 0 {
			prev = &f.ForecastDay[i-1]
		}
		out[i] = TrendFor(day, prev)
	}
	return out
}

// Comfort bundles display-oriented comfort readings.
type Comfort struct {
	HeatIndexC float64
	UVLevel    string
}

// UVLevel buckets a UV index into the exposure categories shown on the
// dashboard tooltip.
func UVLevel(uv float64) string {
	switch {
	case uv <= 2:
		return "Low"
	case uv <= 5:
		return "Moderate"
	case uv <= 7:
		return "High"
	case uv <= 10:
		return "Very High"
	default:
		return "Extreme"
	}
}

// ComfortFor derives comfort readings from current conditions. The heat
// index is the dashboard's temp_c + humidity/10 approximation.
func ComfortFor(cur CurrentConditions) Comfort {
	return Comfort{
		HeatIndexC: cur.TempC + float64(cur.Humidity)*0.1,
		UVLevel:    UVLevel(cur.UV),
	}
}
