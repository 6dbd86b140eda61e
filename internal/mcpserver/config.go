package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/erraggy/filemerge/internal/eol"
	"github.com/erraggy/filemerge/merger"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Engine defaults for the merge tool.
	LineSeparator string
	Concurrency   int
	Sync          bool

	// MaxJobs bounds the number of jobs a single call may run or check.
	MaxJobs int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from FILEMERGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		LineSeparator: envSeparator("FILEMERGE_LINE_SEPARATOR", merger.DefaultLineSeparator),
		Concurrency:   envInt("FILEMERGE_CONCURRENCY", 1),
		Sync:          envBool("FILEMERGE_SYNC", true),
		MaxJobs:       envInt("FILEMERGE_MAX_JOBS", 100),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envSeparator(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	sep, err := eol.ParseSeparator(v)
	if err != nil {
		slog.Warn("invalid separator env var, using default", "key", key, "value", v, "default", eol.Describe(fallback))
		return fallback
	}
	return sep
}
