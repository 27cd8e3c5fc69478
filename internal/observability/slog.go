// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// InitSlog builds a logger at the named level. When stderr is a terminal it
// uses a human-readable text format; otherwise it uses JSON.
func InitSlog(level string, dev bool) *slog.Logger {
	return NewLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level, dev)
}

// NewLogger builds a logger writing to w, as text or JSON.
func NewLogger(w io.Writer, text bool, level string, dev bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: dev,
		Level:     ParseLevel(level),
	}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
