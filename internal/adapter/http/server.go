// Package http exposes the dashboard over HTTP: operational endpoints
// (health, readiness, metrics) plus the JSON API the UI talks to.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloudslate/weatherdeck/internal/controller"
	"github.com/cloudslate/weatherdeck/internal/domain"
	"github.com/cloudslate/weatherdeck/internal/store"
)

// Dashboard is the slice of the controller the HTTP layer needs.
type Dashboard interface {
	Snapshot() controller.Snapshot
	Search(ctx context.Context, query string) controller.Snapshot
	Refresh(ctx context.Context) controller.Snapshot
	Suggest(ctx context.Context, query string) []domain.CityMatch
	CheckHealth(ctx context.Context) domain.HealthStatus
	CheckReadiness(ctx context.Context) error
	SetAutoRefresh(enabled bool, interval time.Duration)
}

// Server exposes the dashboard API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	prefs      *store.Store
	logger     *slog.Logger
}

// NewServer wires all routes. prefs may be nil, in which case the preference
// and favorite routes answer 404.
func NewServer(addr string, dash Dashboard, prefs *store.Store, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		prefs:  prefs,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/backend/health", s.handleBackendHealth)

	if prefs != nil {
		mux.HandleFunc("GET /api/preferences", s.handleGetPreferences)
		mux.HandleFunc("PUT /api/preferences/unit", s.handleSetUnit)
		mux.HandleFunc("POST /api/preferences/dark-mode/toggle", s.handleToggleDarkMode)
		mux.HandleFunc("PUT /api/preferences/auto-refresh", s.handleSetAutoRefresh)
		mux.HandleFunc("PUT /api/preferences/notifications", s.handleSetNotifications)
		mux.HandleFunc("POST /api/favorites", s.handleAddFavorite)
		mux.HandleFunc("DELETE /api/favorites/{city}", s.handleRemoveFavorite)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.dash.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.renderState(s.dash.Snapshot()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, s.renderState(s.dash.Search(r.Context(), req.City)))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.renderState(s.dash.Refresh(r.Context())))
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	matches := s.dash.Suggest(r.Context(), r.URL.Query().Get("q"))
	if matches == nil {
		matches = []domain.CityMatch{}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleBackendHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.CheckHealth(r.Context()))
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) handleSetUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Unit string `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	unit := domain.Unit(req.Unit)
	if unit != domain.UnitCelsius && unit != domain.UnitFahrenheit {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit must be celsius or fahrenheit"})
		return
	}
	if err := s.prefs.SetUnit(unit); err != nil {
		s.saveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) handleToggleDarkMode(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.prefs.ToggleDarkMode(); err != nil {
		s.saveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) handleSetAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled  bool   `json:"enabled"`
		Interval string `json:"interval"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	interval := s.prefs.Preferences().AutoRefreshInterval
	if req.Interval != "" {
		d, err := time.ParseDuration(req.Interval)
		if err != nil || d <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid interval"})
			return
		}
		interval = d
	}
	// The controller persists the preference as part of arming the ticker.
	s.dash.SetAutoRefresh(req.Enabled, interval)
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) handleSetNotifications(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.prefs.SetNotifications(req.Enabled); err != nil {
		s.saveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.City == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city is required"})
		return
	}
	if err := s.prefs.AddFavorite(req.City); err != nil {
		s.saveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	if err := s.prefs.RemoveFavorite(city); err != nil {
		s.saveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderPreferences(s.prefs.Preferences()))
}

func (s *Server) saveError(w http.ResponseWriter, err error) {
	s.logger.Error("preference save failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save preferences"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
