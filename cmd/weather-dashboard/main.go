package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/weatherdash/weather-dashboard/internal/api/http"
	"github.com/weatherdash/weather-dashboard/internal/config"
	"github.com/weatherdash/weather-dashboard/internal/dashboard"
	"github.com/weatherdash/weather-dashboard/internal/forecast"
	"github.com/weatherdash/weather-dashboard/internal/geolocate"
	"github.com/weatherdash/weather-dashboard/internal/scheduler"
	"github.com/weatherdash/weather-dashboard/internal/store"
)

func main() {
	// Load configuration (godotenv is handled inside Load).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !cfg.APIKeyConfigured() {
		log.Println("INFO: weather API key not configured; serving demo data")
	}

	// Shared HTTP client for outbound weather calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Fetcher chain: Visual Crossing client behind a rate limiter.
	var fetcher forecast.Fetcher = forecast.NewClient(httpClient, cfg.WeatherBaseURL, cfg.WeatherAPIKey)
	fetcher = forecast.NewRateLimitedFetcher(fetcher, cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Geocoding locator, cached with the collaborator's timing contract.
	var locator geolocate.Locator
	if cfg.GoogleAPIKey != "" {
		locator = geolocate.NewCached(geolocate.NewGeocoderLocator(cfg.GoogleAPIKey, cfg.HomeAddress))
	}

	memStore := store.NewMemoryStore()
	session := dashboard.NewSession(fetcher, locator, memStore)

	// Auto-refresh keeps the displayed record fresh.
	sched := scheduler.New(session, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
			"demo":    !cfg.APIKeyConfigured(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, fetcher, session)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Attempt the startup geolocation lookup without surfacing failures.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
		defer cancel()
		if _, err := session.UseCurrentLocation(ctx, false); err != nil {
			log.Printf("INFO: startup location lookup skipped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
