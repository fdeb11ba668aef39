package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cloudslate/weatherdeck/internal/domain"
	"github.com/cloudslate/weatherdeck/internal/observability"
)

// Client talks to the weather dashboard backend and normalizes every failure
// into a domain.WeatherError. No raw transport or decoding error escapes it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a backend client. backendURL is the service root; the
// "/api" prefix is appended here. All outbound calls share one rate limiter
// so autocomplete bursts cannot starve weather fetches of quota.
func NewClient(backendURL string, timeout time.Duration, rps float64, burst int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: backendURL + "/api",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
		logger:  logger,
	}
}

// GetWeather fetches combined current conditions and forecast for a city.
// This is the primary path used by the search controller.
func (c *Client) GetWeather(ctx context.Context, city string, days int) (domain.WeatherSnapshot, error) {
	body := map[string]any{"city": city, "days": days}

	var snap domain.WeatherSnapshot
	if err := c.do(ctx, "get_weather", http.MethodPost, c.baseURL+"/weather", body, &snap); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return snap, nil
}

// GetWeatherByCoordinates is the geolocation variant of GetWeather.
func (c *Client) GetWeatherByCoordinates(ctx context.Context, lat, lon float64, days int) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"lat":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":  {strconv.FormatFloat(lon, 'f', -1, 64)},
		"days": {strconv.Itoa(days)},
	}

	var snap domain.WeatherSnapshot
	u := c.baseURL + "/weather/coordinates?" + params.Encode()
	if err := c.do(ctx, "get_weather_by_coordinates", http.MethodGet, u, nil, &snap); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return snap, nil
}

// GetCurrentWeather fetches current conditions only (legacy path).
func (c *Client) GetCurrentWeather(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	var snap domain.WeatherSnapshot
	u := c.baseURL + "/weather/current/" + url.PathEscape(city)
	if err := c.do(ctx, "get_current_weather", http.MethodGet, u, nil, &snap); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return snap, nil
}

// GetForecast fetches the forecast-only payload (legacy path).
func (c *Client) GetForecast(ctx context.Context, city string, days int) (domain.WeatherSnapshot, error) {
	var snap domain.WeatherSnapshot
	u := fmt.Sprintf("%s/weather/forecast/%s?days=%d", c.baseURL, url.PathEscape(city), days)
	if err := c.do(ctx, "get_forecast", http.MethodGet, u, nil, &snap); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return snap, nil
}

// SearchCities returns autocomplete candidates for a partial city name.
// Queries shorter than two trimmed characters return nil without a network
// call, and any failure degrades to nil. Autocomplete is advisory; it never
// surfaces an error.
func (c *Client) SearchCities(ctx context.Context, query string) []domain.CityMatch {
	q := trimmedQuery(query)
	if q == "" {
		return nil
	}

	params := url.Values{"q": {q}}
	var matches []domain.CityMatch
	if err := c.do(ctx, "search_cities", http.MethodGet, c.baseURL+"/cities/search?"+params.Encode(), nil, &matches); err != nil {
		c.logger.Warn("city search failed", "query", q, "error", err)
		return nil
	}
	return matches
}

// SearchHistory returns recent backend-recorded searches, empty on any failure.
func (c *Client) SearchHistory(ctx context.Context, limit int) []domain.PastSearch {
	var out []domain.PastSearch
	u := fmt.Sprintf("%s/history/searches?limit=%d", c.baseURL, limit)
	if err := c.do(ctx, "search_history", http.MethodGet, u, nil, &out); err != nil {
		c.logger.Warn("search history fetch failed", "error", err)
		return nil
	}
	return out
}

// PopularCities returns the most-searched cities, empty on any failure.
func (c *Client) PopularCities(ctx context.Context, limit int) []domain.PopularCity {
	var out []domain.PopularCity
	u := fmt.Sprintf("%s/history/popular?limit=%d", c.baseURL, limit)
	if err := c.do(ctx, "popular_cities", http.MethodGet, u, nil, &out); err != nil {
		c.logger.Warn("popular cities fetch failed", "error", err)
		return nil
	}
	return out
}

// HealthCheck reports backend health for the status badge. Any failure
// synthesizes an unhealthy status; this method never returns an error.
func (c *Client) HealthCheck(ctx context.Context) domain.HealthStatus {
	var hs domain.HealthStatus
	if err := c.do(ctx, "health", http.MethodGet, c.baseURL+"/health", nil, &hs); err != nil {
		c.logger.Warn("health check failed", "error", err)
		return domain.HealthStatus{Status: "unhealthy"}
	}
	if hs.Status == "" {
		hs.Status = "unhealthy"
	}
	return hs
}

// trimmedQuery normalizes an autocomplete query, returning "" for anything
// shorter than two characters after trimming.
func trimmedQuery(q string) string {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return ""
	}
	return q
}

// errorBody is the structured error shape the backend attaches to non-2xx
// responses: {"error": <tag>, "message": <text>}. FastAPI nests it under
// "detail", so both spellings are accepted.
type errorBody struct {
	Err     string `json:"error"`
	Message string `json:"message"`
	Detail  *struct {
		Err     string `json:"error"`
		Message string `json:"message"`
	} `json:"detail"`
}

func (b errorBody) tagAndMessage() (string, string) {
	if b.Detail != nil {
		return b.Detail.Err, b.Detail.Message
	}
	return b.Err, b.Message
}

// do issues one request and decodes the JSON response into out. Every failure
// mode comes back as a *domain.WeatherError:
//
//   - structured error body  -> mapped tag, backend message, HTTP status
//   - no response received   -> network_error, status 0
//   - anything else          -> unknown_error, status 0
func (c *Client) do(ctx context.Context, op, method, fullURL string, body, out any) *domain.WeatherError {
	start := time.Now()
	werr := c.roundTrip(ctx, method, fullURL, body, out)
	c.metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := "success"
	if werr != nil {
		outcome = werr.Tag
	}
	c.metrics.APIRequests.WithLabelValues(op, outcome).Inc()
	return werr
}

func (c *Client) roundTrip(ctx context.Context, method, fullURL string, body, out any) *domain.WeatherError {
	if err := c.limiter.Wait(ctx); err != nil {
		// Cancelled or deadline-exceeded before the request left the process.
		return domain.NewWeatherError(domain.TagNetworkError, "request cancelled while waiting for rate limit", 0)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domain.NewWeatherError(domain.TagUnknownError, "encode request: "+err.Error(), 0)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return domain.NewWeatherError(domain.TagUnknownError, "create request: "+err.Error(), 0)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout, DNS failure, connection refused: no response was received.
		return domain.NewWeatherError(domain.TagNetworkError, "Network connection failed", 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.classifyResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewWeatherError(domain.TagUnknownError, "decode response: "+err.Error(), 0)
	}
	return nil
}

// classifyResponse maps a non-2xx response to the taxonomy. A structured
// error body wins; a body of any other shape classifies as api_error with the
// response status carried through.
func (c *Client) classifyResponse(resp *http.Response) *domain.WeatherError {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if tag, msg := body.tagAndMessage(); tag != "" {
			if msg == "" {
				msg = "An error occurred"
			}
			return domain.NewWeatherError(domain.ClassifyTag(tag), msg, resp.StatusCode)
		}
	}
	return domain.NewWeatherError(domain.TagAPIError,
		fmt.Sprintf("backend returned status %d", resp.StatusCode), resp.StatusCode)
}
