package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/syaikhipin/llm-farm/internal/agridata"
)

// AppConfig holds everything the service reads from the environment.
type AppConfig struct {
	GroqAPIKey        string
	OpenWeatherAPIKey string
	GeocoderAPIKey    string

	// Model used for crop recommendations.
	Model string

	// CacheTTL is how long a cached source value stays fresh.
	CacheTTL time.Duration

	// SweepInterval controls the periodic stale-entry sweep and prewarm job.
	SweepInterval time.Duration

	HTTPTimeout time.Duration
	Port        string

	// ExtraRegions are caller-defined regions added to the built-in catalog.
	// Entries without coordinates are geocoded when GeocoderAPIKey is set.
	ExtraRegions []agridata.RegionProfile
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.Model = getenvDefault("GROQ_MODEL", "mixtral-8x7b-32768")

	ttl, err := getenvDuration("CACHE_TTL", "24h")
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	sweep, err := getenvDuration("SWEEP_INTERVAL", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	cfg.SweepInterval = sweep

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	regions, err := parseExtraRegions(os.Getenv("EXTRA_REGIONS"))
	if err != nil {
		return nil, err
	}
	cfg.ExtraRegions = regions

	return cfg, nil
}

// parseExtraRegions parses semicolon-separated region entries of the form
// id|name|soilType|lat,lon where the coordinate part is optional.
func parseExtraRegions(raw string) ([]agridata.RegionProfile, error) {
	if raw == "" {
		return nil, nil
	}

	var regions []agridata.RegionProfile
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, "|")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid EXTRA_REGIONS entry %q; want id|name|soilType[|lat,lon]", entry)
		}

		region := agridata.RegionProfile{
			ID:       strings.TrimSpace(parts[0]),
			Name:     strings.TrimSpace(parts[1]),
			SoilType: strings.TrimSpace(parts[2]),
		}

		if len(parts) >= 4 && strings.TrimSpace(parts[3]) != "" {
			coords := strings.Split(parts[3], ",")
			if len(coords) != 2 {
				return nil, fmt.Errorf("invalid coordinates in EXTRA_REGIONS entry %q", entry)
			}
			lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid latitude in EXTRA_REGIONS entry %q: %w", entry, err)
			}
			lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid longitude in EXTRA_REGIONS entry %q: %w", entry, err)
			}
			region.Coordinates = agridata.Coordinates{Lat: lat, Lon: lon}
		}

		regions = append(regions, region)
	}

	return regions, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
