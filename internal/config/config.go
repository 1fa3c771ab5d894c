package config

import (
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr       string
	DatabaseURL    string
	AllowedOrigins []string
	SweepInterval  time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:       strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AllowedOrigins: parseOrigins(os.Getenv("ALLOWED_ORIGINS")),
		SweepInterval:  parseInterval(strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_HOURS"))),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "finalplanner.db"
	}

	return cfg, nil
}

// parseOrigins splits a comma-separated origin list; empty or "*" allows
// every origin.
func parseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// parseInterval reads an hour count; zero means the sweep is disabled.
func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
