package domain

import (
	"errors"
	"fmt"
)

// Classification tags. The set is closed: every failure surfaced by the
// client wrapper or the validator carries exactly one of these. TagInvalidInput
// keeps the backend's wire spelling ("invalid_parameter").
const (
	TagCityNotFound = "city_not_found"
	TagNetworkError = "network_error"
	TagAPIError     = "api_error"
	TagInvalidInput = "invalid_parameter"
	TagUnknownError = "unknown_error"
)

// WeatherError is the normalized failure value that replaces raw transport
// and decoding errors at the client wrapper boundary. StatusCode is the HTTP
// status of the backend response, or 0 when no response was received.
type WeatherError struct {
	Tag        string
	Message    string
	StatusCode int
}

// NewWeatherError builds a classified error.
func NewWeatherError(tag, message string, statusCode int) *WeatherError {
	return &WeatherError{Tag: tag, Message: message, StatusCode: statusCode}
}

func (e *WeatherError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.Tag, e.StatusCode, e.Message)
}

func (e *WeatherError) IsCityNotFound() bool { return e.Tag == TagCityNotFound }
func (e *WeatherError) IsNetworkError() bool { return e.Tag == TagNetworkError }
func (e *WeatherError) IsAPIError() bool     { return e.Tag == TagAPIError }
func (e *WeatherError) IsInvalidInput() bool { return e.Tag == TagInvalidInput }

// AsWeatherError unwraps err into a WeatherError if one is present. Lower
// layers use it to pass already-classified errors through unchanged.
func AsWeatherError(err error) (*WeatherError, bool) {
	var we *WeatherError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// ClassifyTag maps a wire error tag from a structured backend error body to
// the closed taxonomy. Recognized tags map 1:1; anything else (server_error,
// database_error, future additions) is an API error.
func ClassifyTag(wire string) string {
	switch wire {
	case TagCityNotFound, TagNetworkError, TagAPIError, TagInvalidInput:
		return wire
	default:
		return TagAPIError
	}
}
