package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	MaxPosition        int
	NextPuzzleDelayMS  int
	PuzzleAPIURL       string
	PuzzleAPITimeoutMS int
	PuzzleAPIRetries   int
	LeaderboardLimit   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "puzzleladder.db"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		MaxPosition:        envIntOr("MAX_POSITION", 10),
		NextPuzzleDelayMS:  envIntOr("NEXT_PUZZLE_DELAY_MS", 1500),
		PuzzleAPIURL:       envOr("PUZZLE_API_URL", ""),
		PuzzleAPITimeoutMS: envIntOr("PUZZLE_API_TIMEOUT_MS", 5000),
		PuzzleAPIRetries:   envIntOr("PUZZLE_API_RETRIES", 2),
		LeaderboardLimit:   envIntOr("LEADERBOARD_LIMIT", 10),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MaxPosition < 1 {
		return fmt.Errorf("MAX_POSITION must be at least 1, got %d", c.MaxPosition)
	}
	if c.NextPuzzleDelayMS < 0 {
		return fmt.Errorf("NEXT_PUZZLE_DELAY_MS cannot be negative, got %d", c.NextPuzzleDelayMS)
	}
	if c.PuzzleAPITimeoutMS < 1 {
		return fmt.Errorf("PUZZLE_API_TIMEOUT_MS must be at least 1, got %d", c.PuzzleAPITimeoutMS)
	}
	if c.PuzzleAPIRetries < 0 {
		return fmt.Errorf("PUZZLE_API_RETRIES cannot be negative, got %d", c.PuzzleAPIRetries)
	}
	if c.LeaderboardLimit < 1 {
		return fmt.Errorf("LEADERBOARD_LIMIT must be at least 1, got %d", c.LeaderboardLimit)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
