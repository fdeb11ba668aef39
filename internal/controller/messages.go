package controller

import (
	"fmt"

	"github.com/cloudslate/weatherdeck/internal/domain"
)

// messageFor maps a classified error to stable user-facing text. The backend
// message is shown only for invalid input and the unknown fallback; network
// and API failures get fixed wording so backend internals never leak into the
// UI.
func messageFor(err *domain.WeatherError, query string) string {
	switch {
	case err.IsCityNotFound():
		return fmt.Sprintf("City %q not found. Please check the spelling.", query)
	case err.IsNetworkError():
		return "Network connection failed. Check your internet connection."
	case err.IsAPIError():
		return "Weather service is temporarily unavailable."
	default:
		// invalid_parameter and unknown_error carry their own message.
		return err.Message
	}
}
