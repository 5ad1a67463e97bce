// Package config centralises environment configuration for the server and
// CLI. It should be imported only by cmd/repopulse and test code; other
// layers receive an already-built Config via dependency injection.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the application needs.
// Keep it flat and simple, preferring primitive types over nested structs.
type Config struct {
	// Network
	Port string

	// Data stores
	DBPath string

	// External services
	GitHubToken string
	CronSecret  string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// Only GITHUB_TOKEN is mandatory; everything else has a sane default.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist, safe in production.
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("REPOPULSE_DB", defaultDBPath()),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		CronSecret:   os.Getenv("CRON_SECRET"),
		ReadTimeout:  getDuration("READ_TIMEOUT_SEC", 10),
		WriteTimeout: getDuration("WRITE_TIMEOUT_SEC", 180),
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "repopulse.db"
	}
	return home + "/.repopulse/repopulse.db"
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
