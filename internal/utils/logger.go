package utils

import (
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	*slog.Logger
}

func NewLogger(level string) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo builds a JSON logger writing to w. The terminal client uses it
// to keep log lines out of the rendered UI.
func NewLoggerTo(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return NewLoggerTo(io.Discard, "error")
}

func ParseLevel(level string) slog.Level {
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

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}
