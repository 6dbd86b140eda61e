package cliutil

import (
	"io"
	"log/slog"
)

// LogLevel maps the -v and -q command line flags to a slog level.
// Verbose wins over quiet.
func LogLevel(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewLogger returns a text logger writing to w at the given level.
// Timestamps are omitted so output stays stable across runs.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
