package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/weatherdash/weather-dashboard/internal/forecast"
)

type AppConfig struct {
	// WeatherAPIKey is the Visual Crossing credential. A missing or
	// placeholder key is not an error; the fetcher degrades to demo data.
	WeatherAPIKey  string
	WeatherBaseURL string

	// GoogleAPIKey and HomeAddress configure the geocoding locator.
	GoogleAPIKey string
	HomeAddress  string

	// HTTPTimeout bounds each outbound weather request.
	HTTPTimeout time.Duration

	// RefreshInterval controls how often the dashboard auto-refreshes.
	RefreshInterval time.Duration

	// Outbound rate limiting against the upstream free tier.
	RateLimitRPS   float64
	RateLimitBurst int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", forecast.DefaultBaseURL)
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.HomeAddress = os.Getenv("HOME_ADDRESS")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.RateLimitRPS = getenvFloat("RATE_LIMIT_RPS", 1.0)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 3)
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// APIKeyConfigured reports whether live weather data can be fetched.
func (c *AppConfig) APIKeyConfigured() bool {
	return forecast.CredentialConfigured(c.WeatherAPIKey)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
