package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/opsnotify/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("defaults to json at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText)).Info("hello")
		assert.Contains(t, buf.String(), "level=INFO msg=hello")
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test"))).Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("context extractors survive With", func(t *testing.T) {
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				v, ok := ctx.Value(key{}).(string)
				return slog.String("id", v), ok
			}),
		).With(slog.String("component", "hub"))

		log.InfoContext(context.WithValue(context.Background(), key{}, "42"), "context msg")
		entry := decode(t, buf)
		assert.Equal(t, "42", entry["id"])
		assert.Equal(t, "hub", entry["component"])
	})

	t.Run("empty attr from extractor is dropped", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(func(context.Context) (slog.Attr, bool) { return slog.Attr{}, true }),
		).InfoContext(context.Background(), "msg")
		assert.Len(t, decode(t, buf), 3)
	})
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decode(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() { logger.WithFormat("xml") })
}

func TestWithEnvironment(t *testing.T) {
	t.Run("development uses text and debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithEnvironment("dev", "opsnotify"), logger.WithOutput(buf)).Debug("msg")
		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "service=opsnotify")
		assert.Contains(t, out, "env=development")
	})

	t.Run("staging uses json and info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("stage", "opsnotify"), logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("shown")
		entry := decode(t, buf)
		assert.Equal(t, "opsnotify", entry["service"])
		assert.Equal(t, "staging", entry["env"])
	})
}

func TestWithConfig(t *testing.T) {
	t.Run("overrides environment preset", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithEnvironment("production", ""),
			logger.WithConfig(logger.Config{Level: "debug", Format: "TEXT"}),
		)
		log.Debug("verbose")
		assert.Contains(t, buf.String(), "level=DEBUG msg=verbose")
	})

	t.Run("invalid values keep preset", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithConfig(logger.Config{Level: "loud", Format: "xml"}),
		)
		log.Debug("hidden")
		assert.Empty(t, buf.String())
		log.Warn("shown")
		assert.Equal(t, "WARN", decode(t, buf)["level"])
	})

	t.Run("tees into rotated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "opsnotify.log")
		buf := &bytes.Buffer{}
		logger.New(
			logger.WithOutput(buf),
			logger.WithConfig(logger.Config{FilePath: path, FileMaxSizeMB: 1}),
		).Info("to both")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to both")
		assert.Contains(t, buf.String(), "to both")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     logger.Config
		wantErr bool
	}{
		{"empty", logger.Config{}, false},
		{"names", logger.Config{Level: "WARN", Format: "json"}, false},
		{"offset level", logger.Config{Level: "info+2"}, false},
		{"unknown level", logger.Config{Level: "loud"}, true},
		{"unknown format", logger.Config{Format: "logfmt"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDiscard(t *testing.T) {
	assert.False(t, logger.Discard().Enabled(context.Background(), slog.LevelError))
}
