package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nischala755/navix-ai/internal/database"
)

// Config holds all runtime configuration. It is loaded once at startup,
// before the first map surface is created, and treated as immutable after
// that: the tile token in particular is never mutated process-wide.
type Config struct {
	// ServerAddr is the embedded server bind address ("127.0.0.1:0" picks
	// a random port for the desktop shell)
	ServerAddr string

	// OptimizerBaseURL is the navix-ai backend root
	OptimizerBaseURL string

	// MapTileURL is the tile layer template handed to the frontend map
	MapTileURL string
	// MapAccessToken is appended to tile requests when the provider
	// requires one; empty for the default OSM tiles
	MapAccessToken string

	// DatabasePath is the local SQLite database location
	DatabasePath string

	// PollInterval is the delay between job status fetches
	PollInterval time.Duration
	// SettleDelay is the pause between job completion and switching to
	// the route list
	SettleDelay time.Duration
}

// Load reads configuration from the environment, with .env support for
// development. Missing values fall back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPath := os.Getenv("NAVIX_DB_PATH")
	if dbPath == "" {
		var err error
		dbPath, err = database.GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	cfg := &Config{
		ServerAddr:       getEnv("NAVIX_SERVER_ADDR", "127.0.0.1:0"),
		OptimizerBaseURL: getEnv("NAVIX_API_URL", "http://127.0.0.1:8000"),
		MapTileURL:       getEnv("NAVIX_MAP_TILE_URL", "https://tile.openstreetmap.org/{z}/{x}/{y}.png"),
		MapAccessToken:   os.Getenv("NAVIX_MAP_ACCESS_TOKEN"),
		DatabasePath:     dbPath,
		PollInterval:     getDurationMS("NAVIX_POLL_INTERVAL_MS", 1000*time.Millisecond),
		SettleDelay:      getDurationMS("NAVIX_SETTLE_DELAY_MS", 1500*time.Millisecond),
	}

	log.Printf("Config loaded: api=%s db=%s", cfg.OptimizerBaseURL, cfg.DatabasePath)
	return cfg, nil
}

// TileURL returns the tile template with the provider token applied, if any
func (c *Config) TileURL() string {
	if c.MapAccessToken == "" {
		return c.MapTileURL
	}
	sep := "?"
	if strings.Contains(c.MapTileURL, "?") {
		sep = "&"
	}
	return c.MapTileURL + sep + "access_token=" + c.MapAccessToken
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationMS(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		log.Printf("[ERROR] Invalid %s=%q, using default %v", key, raw, defaultValue)
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}
