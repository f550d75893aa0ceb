package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestSetup_Formats(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("info", "json", &buf).Info("hello", "k", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "json output: %s", buf.String())

	buf.Reset()
	Setup("info", "text", &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "k=v")

	// A buffer is not a terminal, so auto picks json.
	buf.Reset()
	Setup("info", "auto", &buf).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestSetup_LevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := Setup("warn", "text", &buf)
	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestFromContext_RequestID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup("info", "text", &buf)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	WithFields(ctx, "path", "/assets/data/campus.min.json").Info("served")

	assert.Contains(t, buf.String(), "request_id=req-42")
	assert.Contains(t, buf.String(), "path=/assets/data/campus.min.json")
}
