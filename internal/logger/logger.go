package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *slog.Logger
)

// Options configure the global logger.
type Options struct {
	Level string
	JSON  bool
	// File enables a rotated copy of the log next to stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init initializes the global logger writing to stdout.
func Init(level string, json bool) {
	Setup(Options{Level: level, JSON: json})
}

// Setup initializes the global logger.
func Setup(o Options) {
	var out io.Writer = os.Stdout
	if o.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    orDefault(o.MaxSizeMB, 50),
			MaxBackups: orDefault(o.MaxBackups, 5),
			MaxAge:     orDefault(o.MaxAgeDays, 14),
		})
	}
	defaultLogger = slog.New(newHandler(out, o))
	slog.SetDefault(defaultLogger)
}

func newHandler(out io.Writer, o Options) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(o.Level),
	}
	if o.JSON {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func parseLevel(level string) slog.Level {
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

// Get returns the default logger
func Get() *slog.Logger {
	if defaultLogger == nil {
		Init("info", false)
	}
	return defaultLogger
}

type ctxKey struct{}

// WithRequestID stores a request id for WithContext.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// WithContext returns a logger tagged with the request id, if any
func WithContext(ctx context.Context) *slog.Logger {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return Get().With("request_id", id)
	}
	return Get()
}

// Info logs at info level
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs at error level
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Fatal logs at error level and exits
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)
	os.Exit(1)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}
