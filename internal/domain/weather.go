package domain

// Condition is a weather condition descriptor: human text, icon reference,
// and the numeric WeatherAPI.com condition code.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// Location identifies the place a snapshot was resolved for. Returned by the
// backend as-is; never constructed or mutated on this side.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TzID      string  `json:"tz_id"`
	Localtime string  `json:"localtime"`
}

// CurrentConditions holds the latest observation for a location. All
// measurements carry both metric and imperial values.
type CurrentConditions struct {
	LastUpdated string    `json:"last_updated"`
	TempC       float64   `json:"temp_c"`
	TempF       float64   `json:"temp_f"`
	IsDay       int       `json:"is_day"` // 1 = day, 0 = night
	Condition   Condition `json:"condition"`
	WindMPH     float64   `json:"wind_mph"`
	WindKPH     float64   `json:"wind_kph"`
	WindDegree  int       `json:"wind_degree"`
	WindDir     string    `json:"wind_dir"`
	PressureMB  float64   `json:"pressure_mb"`
	PressureIn  float64   `json:"pressure_in"`
	PrecipMM    float64   `json:"precip_mm"`
	PrecipIn    float64   `json:"precip_in"`
	Humidity    int       `json:"humidity"`
	Cloud       int       `json:"cloud"`
	FeelslikeC  float64   `json:"feelslike_c"`
	FeelslikeF  float64   `json:"feelslike_f"`
	VisKM       float64   `json:"vis_km"`
	VisMiles    float64   `json:"vis_miles"`
	UV          float64   `json:"uv"`
	GustMPH     float64   `json:"gust_mph"`
	GustKPH     float64   `json:"gust_kph"`
}

// HourSlot is one hourly entry inside a forecast day.
type HourSlot struct {
	Time       string    `json:"time"`
	TempC      float64   `json:"temp_c"`
	TempF      float64   `json:"temp_f"`
	Condition  Condition `json:"condition"`
	WindMPH    float64   `json:"wind_mph"`
	WindKPH    float64   `json:"wind_kph"`
	WindDegree int       `json:"wind_degree"`
	WindDir    string    `json:"wind_dir"`
	PressureMB float64   `json:"pressure_mb"`
	PrecipMM   float64   `json:"precip_mm"`
	Humidity   int       `json:"humidity"`
	Cloud      int       `json:"cloud"`
	FeelslikeC float64   `json:"feelslike_c"`
	FeelslikeF float64   `json:"feelslike_f"`
	DewpointC  float64   `json:"dewpoint_c"`
	HeatindexC float64   `json:"heatindex_c"`
	UV         float64   `json:"uv"`
	VisKM      float64   `json:"vis_km"`
}

// DayStats aggregates a single forecast day.
type DayStats struct {
	MaxtempC      float64   `json:"maxtemp_c"`
	MaxtempF      float64   `json:"maxtemp_f"`
	MintempC      float64   `json:"mintemp_c"`
	MintempF      float64   `json:"mintemp_f"`
	AvgtempC      float64   `json:"avgtemp_c"`
	AvgtempF      float64   `json:"avgtemp_f"`
	MaxwindMPH    float64   `json:"maxwind_mph"`
	MaxwindKPH    float64   `json:"maxwind_kph"`
	TotalprecipMM float64   `json:"totalprecip_mm"`
	TotalprecipIn float64   `json:"totalprecip_in"`
	AvgvisKM      float64   `json:"avgvis_km"`
	AvgvisMiles   float64   `json:"avgvis_miles"`
	AvgHumidity   float64   `json:"avghumidity"`
	WillItRain    int       `json:"daily_will_it_rain"`
	ChanceOfRain  int       `json:"daily_chance_of_rain"`
	WillItSnow    int       `json:"daily_will_it_snow"`
	ChanceOfSnow  int       `json:"daily_chance_of_snow"`
	Condition     Condition `json:"condition"`
	UV            float64   `json:"uv"`
}

// ForecastDay is a calendar date with day aggregates and up to 24 hour slots.
// Slice order is chronological.
type ForecastDay struct {
	Date string     `json:"date"`
	Day  DayStats   `json:"day"`
	Hour []HourSlot `json:"hour"`
}

// Forecast wraps the ordered forecast day sequence.
type Forecast struct {
	ForecastDay []ForecastDay `json:"forecastday"`
}

// WeatherSnapshot is one immutable fetch result: location, current
// conditions, and an optional forecast. Each successful request produces a
// fresh snapshot that replaces the previous one in application state.
type WeatherSnapshot struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast *Forecast         `json:"forecast,omitempty"`
}

// CityMatch is one autocomplete candidate from city search.
type CityMatch struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// HealthStatus describes backend health as reported by GET /health.
type HealthStatus struct {
	Status     string `json:"status"` // healthy, degraded, or unhealthy
	WeatherAPI string `json:"weather_api,omitempty"`
	Database   string `json:"database,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// PastSearch is one entry from the backend search history.
type PastSearch struct {
	CityName  string  `json:"city_name"`
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"search_timestamp"`
}

// PopularCity is one entry from the popular-cities ranking.
type PopularCity struct {
	CityName    string `json:"city_name"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	SearchCount int    `json:"search_count"`
}
