package memarena

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with memarena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely; it is the library default.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSize adds a size field (bytes) to the logger.
func (l *Logger) WithSize(size uintptr) *Logger {
	return &Logger{
		Logger: l.Logger.With("size", uint64(size)),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogAlloc logs an allocation. Allocation is hot-path, so this logs at
// debug level only.
func (l *Logger) LogAlloc(size uintptr) {
	l.Debug("value allocated",
		"size", uint64(size),
	)
}

// LogCheckFailure logs a tripped liveness check. Check failures signal a
// caller bug, so this logs at warn level.
func (l *Logger) LogCheckFailure() {
	l.Warn("liveness check failed",
		"error", ErrDropped,
	)
}

// LogClose logs an arena teardown.
func (l *Logger) LogClose(finalized int64) {
	l.Info("arena closed",
		"finalized", finalized,
	)
}
