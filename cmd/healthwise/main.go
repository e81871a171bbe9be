package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfwise/shelfwise/internal/activity"
	"github.com/shelfwise/shelfwise/internal/app"
	"github.com/shelfwise/shelfwise/internal/goals"
	"github.com/shelfwise/shelfwise/internal/measurements"
	"github.com/shelfwise/shelfwise/internal/weather"
)

const serviceName = "healthwise"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, serviceName)

	core, err := app.NewCore(ctx, cfg, logger, serviceName)
	if err != nil {
		logger.Error("initialise core", slog.Any("error", err))
		os.Exit(1)
	}
	defer core.Close()

	if cfg.OpenWeatherAPIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY not set, weather lookups will report unavailable")
	}

	activityService := activity.NewService(activity.NewRepository(core.Pool))
	goalsService := goals.NewService(goals.NewRepository(core.Pool))
	measurementsService := measurements.NewService(measurements.NewRepository(core.Pool))
	weatherClient := weather.NewClient(cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, nil)

	router := core.Router(app.RouterParams{
		ActivityHandler:     activity.NewHandler(logger, activityService),
		GoalsHandler:        goals.NewHandler(logger, goalsService),
		MeasurementsHandler: measurements.NewHandler(logger, measurementsService),
		WeatherHandler:      weather.NewHandler(logger, weatherClient),
	})

	if err := app.Serve(ctx, cfg, logger, router, core.Background()...); err != nil {
		logger.Error("http server", slog.Any("error", err))
	}
}
