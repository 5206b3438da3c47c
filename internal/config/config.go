package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Index backends.
const (
	BackendTable = "table"
	BackendTrie  = "trie"
	BackendMMDB  = "mmdb"
)

// Stats backends.
const (
	StatsFile  = "file"
	StatsRedis = "redis"
)

// Config holds the serving process settings.
type Config struct {
	Port     string
	GRPCPort string
	LogLevel slog.Level

	BlocklistPath  string
	WatchBlocklist bool
	IndexBackend   string
	MMDBPath       string
	PolicyPath     string

	StatsBackend       string
	StatsPath          string
	RedisURL           string
	StatsFlushInterval time.Duration

	RedirectURL string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		GRPCPort:      os.Getenv("GRPC_PORT"),
		LogLevel:      ParseLogLevel(os.Getenv("LOG_LEVEL")),
		BlocklistPath: getenv("BLOCKLIST_PATH", "list.txt"),
		IndexBackend:  getenv("INDEX_BACKEND", BackendTable),
		MMDBPath:      os.Getenv("MMDB_PATH"),
		PolicyPath:    os.Getenv("POLICY_PATH"),
		StatsBackend:  getenv("STATS_BACKEND", StatsFile),
		StatsPath:     getenv("STATS_PATH", "redblock-stats.json"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),
		RedirectURL:   getenv("REDIRECT_URL", "https://dispherical.com/tools/redblock"),
	}

	watch, err := strconv.ParseBool(getenv("WATCH_BLOCKLIST", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid WATCH_BLOCKLIST=%q: %w", os.Getenv("WATCH_BLOCKLIST"), err)
	}
	cfg.WatchBlocklist = watch

	intervalStr := getenv("STATS_FLUSH_INTERVAL", "5s")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid STATS_FLUSH_INTERVAL=%q: %w", intervalStr, err)
	}
	if d < time.Second {
		return Config{}, fmt.Errorf("STATS_FLUSH_INTERVAL too small (%s), must be >=1s", d)
	}
	if d > time.Hour {
		return Config{}, fmt.Errorf("STATS_FLUSH_INTERVAL too large (%s), must be <=1h", d)
	}
	cfg.StatsFlushInterval = d

	switch cfg.IndexBackend {
	case BackendTable, BackendTrie:
	case BackendMMDB:
		if cfg.MMDBPath == "" {
			return Config{}, fmt.Errorf("MMDB_PATH is required when INDEX_BACKEND=%s", BackendMMDB)
		}
	default:
		return Config{}, fmt.Errorf("unknown INDEX_BACKEND %q", cfg.IndexBackend)
	}

	switch cfg.StatsBackend {
	case StatsFile, StatsRedis:
	default:
		return Config{}, fmt.Errorf("unknown STATS_BACKEND %q", cfg.StatsBackend)
	}

	return cfg, nil
}

// ParseLogLevel converts a string log level to slog.Level.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
