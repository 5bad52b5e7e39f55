package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/meteo-fusion/internal/api/http"
	"github.com/i474232898/meteo-fusion/internal/config"
	"github.com/i474232898/meteo-fusion/internal/logging"
	"github.com/i474232898/meteo-fusion/internal/scheduler"
	"github.com/i474232898/meteo-fusion/internal/store"
	"github.com/i474232898/meteo-fusion/internal/weather"
	"github.com/i474232898/meteo-fusion/internal/weather/providers"
)

const appName = "meteo-fusion"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg, appName)
	slog.SetDefault(log)

	// Shared HTTP client for outbound provider calls; per-call deadlines come
	// from the service.
	httpClient := &http.Client{
		Timeout: cfg.Provider.Timeout,
	}

	var cacheStore weather.Store
	switch cfg.Cache.Backend {
	case "memory":
		cacheStore = store.NewMemoryStore(cfg.Cache.MaxEntries, 0)
	default:
		cacheStore = store.NewFileStore(cfg.Cache.Dir)
	}

	primary := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoOptions{
		BaseURL:    cfg.Provider.OpenMeteoURL,
		UserAgent:  cfg.Provider.UserAgent,
		MaxRetries: cfg.Provider.MaxRetries,
		PastDays:   cfg.Forecast.PastDays,
		Days:       cfg.Forecast.Days,
	})
	secondary := providers.NewMetNoProvider(httpClient, providers.MetNoOptions{
		BaseURL:    cfg.Provider.MetNoURL,
		UserAgent:  cfg.Provider.UserAgent,
		MaxRetries: cfg.Provider.MaxRetries,
	})

	// Core service orchestrating providers and store.
	service := weather.NewService(cacheStore, primary, secondary, weather.ServiceConfig{
		CacheTTL:     cfg.Cache.TTL,
		CacheMinSize: cfg.Cache.MinSize,
		FetchTimeout: cfg.Provider.Timeout,
		FetchGap:     cfg.Provider.FetchGap,
		Location:     cfg.Location,
		Coalesce:     cfg.Cache.Coalesce,
	})

	// Background cache warmer for configured points.
	sched := scheduler.New(cfg.Warmer.Points, cfg.Warmer.Interval, 2*cfg.Provider.Timeout+cfg.Provider.FetchGap, service)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}?${queryParams}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET"}))
	app.Use(compress.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info("listening", "port", cfg.Server.Port, "cache", cfg.Cache.Backend, "timezone", cfg.Timezone)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
