package cache

import (
	"os"
	"strconv"
	"time"
)

// Environment settings for cache configuration.
const (
	EnvMaxEntries         = "BUDGETOPS_CACHE_MAX_ENTRIES"
	EnvDefaultTTL         = "BUDGETOPS_CACHE_DEFAULT_TTL"
	EnvDefaultStaleWindow = "BUDGETOPS_CACHE_STALE_WINDOW"
)

// ConfigFromEnv builds a Config from environment settings, falling back
// silently to the documented defaults on missing or unparseable values.
// Durations accept time.ParseDuration syntax ("30s", "5m") or a bare number
// of seconds.
func ConfigFromEnv() Config {
	return Config{
		MaxEntries:         envInt(EnvMaxEntries, DefaultMaxEntries),
		DefaultTTL:         envDuration(EnvDefaultTTL, DefaultTTL),
		DefaultStaleWindow: envDuration(EnvDefaultStaleWindow, DefaultStaleWindow),
	}
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
