// Package logging configures the process-wide slog logger.
//
// Usage:
//
//	logging.Setup("info", "json")  // structured JSON on stdout
//	logging.Setup("debug", "text") // colored tint output on stderr
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger. Unknown levels fall back to info and unknown
// formats to text.
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, os.Stderr, ParseLevel(level), format)))
}

// NewHandler builds the handler for format: JSON lines on jsonOut, or tint on textOut.
func NewHandler(jsonOut, textOut io.Writer, level slog.Level, format string) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(textOut, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
