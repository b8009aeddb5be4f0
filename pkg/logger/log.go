package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const requestIDKey = "request_id"

type contextKey struct{}

var requestIDCtxKey = &contextKey{}

// Logger is the structured logger handed to every component at startup.
type Logger struct {
	l *slog.Logger
}

// New returns a JSON logger writing to w at the given level (debug, info, warn, error).
func New(w io.Writer, level string) *Logger {
	return &Logger{l: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: false,
	}))}
}

// NewStdout returns a JSON logger writing to stdout.
func NewStdout(level string) *Logger {
	return New(os.Stdout, level)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return New(io.Discard, "error")
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
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

// With returns a logger that always includes the given key-value pairs.
func (lg *Logger) With(args ...any) *Logger {
	return &Logger{l: lg.l.With(args...)}
}

// WithRequestID returns a new context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// Error logs with error level. args are alternating key-value pairs (e.g. "error", err).
func (lg *Logger) Error(ctx context.Context, message string, args ...any) {
	lg.log(ctx, slog.LevelError, message, args)
}

// Warn logs with warn level. args are alternating key-value pairs.
func (lg *Logger) Warn(ctx context.Context, message string, args ...any) {
	lg.log(ctx, slog.LevelWarn, message, args)
}

// Info logs with info level. args are alternating key-value pairs.
func (lg *Logger) Info(ctx context.Context, message string, args ...any) {
	lg.log(ctx, slog.LevelInfo, message, args)
}

// Debug logs with debug level. args are alternating key-value pairs.
func (lg *Logger) Debug(ctx context.Context, message string, args ...any) {
	lg.log(ctx, slog.LevelDebug, message, args)
}

func (lg *Logger) log(ctx context.Context, level slog.Level, message string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !lg.l.Enabled(ctx, level) {
		return
	}
	if id := RequestID(ctx); id != "" {
		args = append(args, requestIDKey, id)
	}
	lg.l.Log(ctx, level, message, args...)
}
