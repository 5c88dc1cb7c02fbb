package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var (
	// default logger instance
	defaultLogger *slog.Logger
)

func init() {
	defaultLogger = slog.New(newHandler(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_FILE"), os.Getenv("LOG_LEVEL")))
}

// JSON on stdout at info in production, text on stderr at debug elsewhere.
// level overrides the default; logFile adds a JSON copy of every record.
func newHandler(env, logFile, level string) slog.Handler {
	production := env == "production"

	minLevel := slog.LevelDebug
	if production {
		minLevel = slog.LevelInfo
	}

	if level != "" {
		if err := minLevel.UnmarshalText([]byte(level)); err != nil {
			fmt.Fprintf(os.Stderr, "logger: ignoring LOG_LEVEL %q: %v\n", level, err)
		}
	}

	opts := &slog.HandlerOptions{Level: minLevel}

	var console slog.Handler
	if production {
		console = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	if logFile == "" {
		return console
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot open LOG_FILE %q: %v\n", logFile, err)
		return console
	}

	return slogmulti.Fanout(console, slog.NewJSONHandler(f, opts))
}

// creates a logger with additional context fields
func With(args ...any) *slog.Logger {
	return defaultLogger.With(args...)
}

// creates a logger with context
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}

	// extract any logger from context if present
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}

	return defaultLogger
}

// adds logger to context
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// helper type for context key
type loggerKey struct{}

// convenience functions for common log levels

// logs a debug message
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// logs an info message
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// logs a warning message
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// logs an error message
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// logs an error with context
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	defaultLogger.Error(msg, args...)
}

// logs a fatal error and exits
func Fatal(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}
