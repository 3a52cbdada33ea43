// Package config loads client configuration from the environment, with a
// .env file as the optional local override.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds everything the client reads from the environment
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string // "text" or "json"
	LogFile     string // the TUI owns the terminal, so logs go to a file
}

// Load reads the .env file if present and resolves the configuration with
// defaults suitable for local development.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug("loaded configuration from .env")
	}

	return Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8000"),
		HTTPTimeout: getDuration("HTTP_TIMEOUT", 15*time.Second),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogFile:     getEnv("LOG_FILE", "transitland.log"),
	}
}

// SetupLogging configures logrus from the loaded config.
func (c Config) SetupLogging(out *os.File) {
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if out != nil {
		log.SetOutput(out)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
		log.WithField("key", key).Warn("invalid duration, using default")
	}
	return fallback
}
