// Package logging provides structured logger construction for the action.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// ParseLevel converts a textual log level into a slog.Level. Unrecognized
// values default to info
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New constructs a slog.Logger with a tint handler at the given level. Color
// is left to the handler's own terminal detection; Actions log viewers render
// ANSI sequences fine
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level: level,
	})

	return slog.New(handler)
}
