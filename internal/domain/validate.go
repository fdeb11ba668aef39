package domain

import (
	"regexp"
	"strings"
)

// cityRe accepts letters, whitespace, hyphens, apostrophes, and periods.
// Accented characters are deliberately not accepted; the backend resolves
// cities by their ASCII names.
var cityRe = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)

// ValidateCity checks a free-text city query before any network call. It
// returns nil for acceptable input, or a WeatherError tagged as invalid input.
// Pure and synchronous; safe to call on every keystroke.
func ValidateCity(raw string) *WeatherError {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 2 {
		return NewWeatherError(TagInvalidInput,
			"Please enter a valid city name with at least 2 characters.", 0)
	}
	if !cityRe.MatchString(trimmed) {
		return NewWeatherError(TagInvalidInput,
			"City names may only contain letters, spaces, hyphens, apostrophes, and periods.", 0)
	}
	return nil
}
