package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLogger_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, "debug")

	ctx := WithRequestID(context.Background(), "req-42")
	lg.Error(ctx, "Update task failed", "id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Update task failed", line["msg"])
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "abc", line["id"])
	assert.Equal(t, "req-42", line["request_id"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, "warn")

	lg.Info(context.Background(), "dropped")
	lg.Debug(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	lg.Warn(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, "info").With("component", "service")

	lg.Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), `"component":"service"`)
	assert.NotContains(t, buf.String(), "request_id")
}
