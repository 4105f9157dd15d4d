package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"weather-report-service/internal/weather"
)

type AppConfig struct {
	// DBPath is the SQLite database file holding the sample history.
	DBPath string

	// OpenMeteoBaseURL is the upstream forecast endpoint.
	OpenMeteoBaseURL string

	// HTTPTimeout bounds each outbound fetch.
	HTTPTimeout time.Duration

	// FetchInterval controls how often the scheduler re-ingests each
	// configured coordinate.
	FetchInterval time.Duration

	// Coordinates the background scheduler keeps fresh. May be empty;
	// on-demand ingestion via the API works either way.
	Coordinates []weather.Coordinate

	// Outbound rate limit for the upstream API.
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

	cfg.DBPath = getenvDefault("WEATHER_DB_PATH", "./weather_data.db")
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.Port = getenvDefault("PORT", "8080")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Hourly upstream data; refreshing more often than hourly gains nothing.
	intervalStr := getenvDefault("FETCH_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	cfg.RateLimitRPS = getenvFloat("OPENMETEO_RATE_LIMIT", 1)
	cfg.RateLimitBurst = getenvInt("OPENMETEO_RATE_BURST", 3)

	coords, err := parseCoordinates(os.Getenv("WEATHER_COORDINATES"))
	if err != nil {
		return nil, err
	}
	cfg.Coordinates = coords

	return cfg, nil
}

// parseCoordinates reads a comma-separated list of "lat:lon" pairs, e.g.
// "52.52:13.41,48.85:2.35". An empty value means no scheduled coordinates.
func parseCoordinates(raw string) ([]weather.Coordinate, error) {
	if raw == "" {
		return nil, nil
	}

	var coords []weather.Coordinate
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.Split(strings.TrimSpace(pair), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid WEATHER_COORDINATES entry %q: want lat:lon", pair)
		}
		lat, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in WEATHER_COORDINATES entry %q", pair)
		}
		lon, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in WEATHER_COORDINATES entry %q", pair)
		}
		coords = append(coords, weather.Coordinate{Latitude: lat, Longitude: lon})
	}

	return coords, nil
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
