// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes engine settings such
// as snapshot file locations, logging, platform trust, and retention policy.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the engine and its tooling.
type Config struct {
	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Storage
	RelationshipsPath string // JSON snapshot of relationship records
	ChatHistoryPath   string // JSON snapshot of chat histories

	// Policy
	TrustedPlatforms []string      // platforms whose new users seed at close_friend
	HistoryLimit     int           // retained messages per user (>= 1)
	InactiveAfter    time.Duration // age threshold for the cleanup sweep
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		RelationshipsPath: getenv("RELATIONSHIPS_PATH", "data/relationships.json"),
		ChatHistoryPath:   getenv("CHAT_HISTORY_PATH", "data/chat_histories.json"),

		TrustedPlatforms: splitCSV(getenv("TRUSTED_PLATFORMS", "webui,cli,local")),
		HistoryLimit:     getint("HISTORY_LIMIT", 50),
		InactiveAfter:    getdur("INACTIVE_AFTER", 90*24*time.Hour),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.RelationshipsPath) == "" {
		return cfg, errors.New("RELATIONSHIPS_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.ChatHistoryPath) == "" {
		return cfg, errors.New("CHAT_HISTORY_PATH must not be empty")
	}
	if cfg.HistoryLimit < 1 {
		return cfg, errors.New("HISTORY_LIMIT must be >= 1")
	}
	if cfg.InactiveAfter <= 0 {
		return cfg, errors.New("INACTIVE_AFTER must be a positive duration")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
