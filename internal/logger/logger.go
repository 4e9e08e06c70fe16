package logger

import (
	"log/slog"
	"os"
)

// Logging levels accepted by the config
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger is the logging contract the rest of the service depends on
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}

// NewLogger creates a text logger with the specified level
func NewLogger(level string) Logger {
	handler := slog.NewTextHandler(os.Stdout, handlerOptions(level))
	return &slogLogger{logger: slog.New(handler)}
}

// NewJSONLogger creates a JSON logger with the specified level
func NewJSONLogger(level string) Logger {
	handler := slog.NewJSONHandler(os.Stdout, handlerOptions(level))
	return &slogLogger{logger: slog.New(handler)}
}

// NewNoOpLogger creates a logger that discards all log messages
func NewNoOpLogger() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}

func handlerOptions(level string) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:       parseLevelString(level),
		AddSource:   true,
		ReplaceAttr: trimSourcePath,
	}
}
