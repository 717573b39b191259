// Package logging holds the *slog.Logger used by the report packages.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

// logger holds the package-level logger. A nil value means discard.
var logger atomic.Pointer[slog.Logger]

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// SetLogger configures the package-level logger.
// Pass nil to disable logging.
//
// Example sending warnings about degraded cells to stderr:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
//
// SetLogger is safe for concurrent use.
func SetLogger(sl *slog.Logger) {
	if sl == nil {
		logger.Store(newDiscardLogger())
	} else {
		logger.Store(sl)
	}
}

// Logger returns the package-level logger, or a discard logger when none
// has been set.
func Logger() *slog.Logger {
	l := logger.Load()
	if l == nil {
		l = newDiscardLogger()
		logger.Store(l)
	}
	return l
}

// ParseLevel maps a configuration string to a slog level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// New builds a logger writing to w at the given level. Format "json"
// selects the JSON handler, anything else the text handler.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
