// Package domain models the weather dashboard backend payloads and the pure
// client-side logic that consumes them: error classification, city-input
// validation, and view-model derivation.
//
// # Wire Shape
//
// The dashboard backend proxies WeatherAPI.com and returns its field names
// unchanged (temp_c/temp_f, wind_mph/wind_kph, avgtemp_c, ...). Every
// measurement arrives in both metric and imperial form, so unit selection on
// this side is a field pick, never arithmetic.
//
// # Unit Pairing
//
// The dashboard pairs metric temperature with metric wind and visibility:
// celsius readers get km/h and km, fahrenheit readers get mph and miles.
// The pairing is a fixed display convention, not user configurable.
//
// # Condition Codes
//
// Background theme buckets are keyed on WeatherAPI.com condition codes:
//
//	1000            sunny by day, clear by night
//	1003            partly cloudy
//	1006, 1009      cloudy / overcast
//	1063-1246       drizzle through heavy rain and showers
//	1066-1258       snow, sleet, blizzard variants
//	1087, 1273-1282 thunder
//
// Codes outside the table fall back to the default theme. Dark mode overrides
// the table entirely.
//
// # Comfort Readings
//
// The heat index shown on the dashboard is temp_c + humidity/10. It is a
// display approximation carried over from the product, not a calibrated
// meteorological heat index. UV buckets follow the WHO exposure categories
// (Low <=2, Moderate <=5, High <=7, Very High <=10, Extreme above).
//
// # Error Taxonomy
//
// Every failure that crosses the client wrapper boundary is a [WeatherError]
// with exactly one tag from the closed set. Callers branch on the tag (via the
// predicate methods), never on message text. Status code 0 marks failures
// where no HTTP response was received.
package domain
