package http

import (
	"time"

	"github.com/cloudslate/weatherdeck/internal/controller"
	"github.com/cloudslate/weatherdeck/internal/domain"
	"github.com/cloudslate/weatherdeck/internal/store"
)

// stateResponse is the rendered controller slot: raw state plus the derived
// presentation values (unit-selected readings, theme, trends, comfort) so the
// UI never does unit math itself.
type stateResponse struct {
	State       string       `json:"state"`
	City        string       `json:"city,omitempty"`
	Message     string       `json:"message,omitempty"`
	ErrorTag    string       `json:"error_tag,omitempty"`
	LastUpdated string       `json:"last_updated,omitempty"`
	Weather     *weatherView `json:"weather,omitempty"`
}

type weatherView struct {
	Location    domain.Location  `json:"location"`
	Temperature int              `json:"temperature"`
	FeelsLike   int              `json:"feels_like"`
	WindSpeed   int              `json:"wind_speed"`
	Visibility  int              `json:"visibility"`
	Unit        string           `json:"unit"`
	Condition   domain.Condition `json:"condition"`
	Humidity    int              `json:"humidity"`
	Theme       string           `json:"theme"`
	HeatIndexC  float64          `json:"heat_index_c"`
	UVLevel     string           `json:"uv_level"`
	Days        []dayView        `json:"days,omitempty"`
}

type dayView struct {
	Date         string           `json:"date"`
	MaxTemp      int              `json:"max_temp"`
	MinTemp      int              `json:"min_temp"`
	Condition    domain.Condition `json:"condition"`
	Trend        string           `json:"trend"`
	ChanceOfRain int              `json:"chance_of_rain"`
	ChanceOfSnow int              `json:"chance_of_snow"`
}

type preferencesResponse struct {
	Unit                string   `json:"unit"`
	DarkMode            bool     `json:"dark_mode"`
	LastCity            string   `json:"last_city,omitempty"`
	Favorites           []string `json:"favorites"`
	History             []string `json:"history"`
	AutoRefresh         bool     `json:"auto_refresh"`
	AutoRefreshInterval string   `json:"auto_refresh_interval"`
	Notifications       bool     `json:"notifications"`
}

func (s *Server) renderState(snap controller.Snapshot) stateResponse {
	resp := stateResponse{
		State:   string(snap.State),
		City:    snap.City,
		Message: snap.Message,
	}
	if snap.Err != nil {
		resp.ErrorTag = snap.Err.Tag
	}
	if !snap.LastUpdated.IsZero() {
		resp.LastUpdated = snap.LastUpdated.Format(time.RFC3339)
	}
	if snap.Data != nil {
		unit := domain.UnitCelsius
		darkMode := false
		if s.prefs != nil {
			p := s.prefs.Preferences()
			unit, darkMode = p.Unit, p.DarkMode
		}
		resp.Weather = renderWeather(snap.Data, unit, darkMode)
	}
	return resp
}

func renderWeather(snap *domain.WeatherSnapshot, unit domain.Unit, darkMode bool) *weatherView {
	cur := snap.Current
	comfort := domain.ComfortFor(cur)

	view := &weatherView{
		Location:    snap.Location,
		Temperature: domain.Temperature(cur.TempC, cur.TempF, unit),
		FeelsLike:   domain.Temperature(cur.FeelslikeC, cur.FeelslikeF, unit),
		WindSpeed:   domain.WindSpeed(cur.WindMPH, cur.WindKPH, unit),
		Visibility:  domain.Visibility(cur.VisKM, cur.VisMiles, unit),
		Unit:        string(unit),
		Condition:   cur.Condition,
		Humidity:    cur.Humidity,
		Theme:       string(domain.BackgroundTheme(cur.Condition.Code, cur.IsDay == 1, darkMode)),
		HeatIndexC:  comfort.HeatIndexC,
		UVLevel:     comfort.UVLevel,
	}

	if snap.Forecast != nil {
		trends := domain.Trends(*snap.Forecast)
		for i, day := range snap.Forecast.ForecastDay {
			view.Days = append(view.Days, dayView{
				Date:         day.Date,
				MaxTemp:      domain.Temperature(day.Day.MaxtempC, day.Day.MaxtempF, unit),
				MinTemp:      domain.Temperature(day.Day.MintempC, day.Day.MintempF, unit),
				Condition:    day.Day.Condition,
				Trend:        string(trends[i]),
				ChanceOfRain: day.Day.ChanceOfRain,
				ChanceOfSnow: day.Day.ChanceOfSnow,
			})
		}
	}
	return view
}

func renderPreferences(p store.Preferences) preferencesResponse {
	favorites, history := p.Favorites, p.History
	if favorites == nil {
		favorites = []string{}
	}
	if history == nil {
		history = []string{}
	}
	return preferencesResponse{
		Unit:                string(p.Unit),
		DarkMode:            p.DarkMode,
		LastCity:            p.LastCity,
		Favorites:           favorites,
		History:             history,
		AutoRefresh:         p.AutoRefresh,
		AutoRefreshInterval: p.AutoRefreshInterval.String(),
		Notifications:       p.Notifications,
	}
}
