package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/cloudslate/weatherdeck/internal/adapter/http"
	"github.com/cloudslate/weatherdeck/internal/adapter/weatherapi"
	"github.com/cloudslate/weatherdeck/internal/config"
	"github.com/cloudslate/weatherdeck/internal/controller"
	"github.com/cloudslate/weatherdeck/internal/observability"
	"github.com/cloudslate/weatherdeck/internal/store"
)

func main() {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Preference persistence (sqlite when STORE_PATH is set, else in-memory).
	var port store.Port
	var closePort func() error
	if cfg.StorePath != "" {
		sqlitePort, err := store.OpenSQLite(cfg.StorePath)
		if err != nil {
			logger.Error("failed to open preference store", "path", cfg.StorePath, "error", err)
			os.Exit(1)
		}
		port, closePort = sqlitePort, sqlitePort.Close
		logger.Info("preference store opened", "path", cfg.StorePath)
	} else {
		port = store.NewMemoryPort()
		logger.Info("preference store is in-memory, settings will not survive restart")
	}

	prefs := store.New(port, logger)
	if err := prefs.Load(); err != nil {
		logger.Error("failed to load preferences", "error", err)
		os.Exit(1)
	}

	client := weatherapi.NewClient(cfg.BackendURL, cfg.HTTPTimeout, cfg.RateLimitRPS, cfg.RateLimitBurst, metrics, logger)
	api := weatherapi.NewCachedClient(client, cfg.SearchCacheSize)

	var locator controller.Locator
	if cfg.HasCoordinates {
		locator = controller.FixedLocator{Lat: cfg.Lat, Lon: cfg.Lon}
	}

	ctrl := controller.New(api, prefs, locator, cfg.ForecastDays, cfg.DefaultCity, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, prefs, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Issue the initial fetch and arm auto-refresh from the saved preference.
	go func() {
		snap := ctrl.Start(ctx)
		logger.Info("initial fetch resolved", "state", snap.State, "city", snap.City)

		if p := prefs.Preferences(); p.AutoRefresh {
			ctrl.SetAutoRefresh(true, p.AutoRefreshInterval)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	ctrl.Close()
	if closePort != nil {
		if err := closePort(); err != nil {
			logger.Error("preference store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
