package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Anchoring
	MinMatchLength int
	Locator        string
	DiffThreshold  float64
	DiffDistance   int
	TextCacheSize  int
	Strategy       string
	// Drafts - empty RedisURL disables draft storage
	RedisURL string
	DraftTTL time.Duration
	// Export
	ExportTitle string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured but never overrides variables already set.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		MinMatchLength: getenvInt("ANCHOR_MIN_MATCH_LENGTH", 3),
		Locator:        getenv("ANCHOR_LOCATOR", "substring"),
		DiffThreshold:  getenvFloat("ANCHOR_DIFF_THRESHOLD", 0.4),
		DiffDistance:   getenvInt("ANCHOR_DIFF_DISTANCE", 1000),
		TextCacheSize:  getenvInt("ANCHOR_TEXT_CACHE_SIZE", 128),
		Strategy:       getenv("ANCHOR_STRATEGY", "mark"),
		RedisURL:       getenv("REDIS_URL", ""),
		DraftTTL:       time.Duration(getenvInt("ANCHOR_DRAFT_TTL_SECONDS", 604800)) * time.Second,
		ExportTitle:    getenv("ANCHOR_EXPORT_TITLE", "Document"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
