package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/govmatch/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warning message")
	assert.NotContains(t, output, "debug message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithSource(ctx, "snapshot")
	ctx = logging.WithRecord(ctx, "0xabc")
	ctx = logging.WithProposal(ctx, "p-1")

	logging.FromContext(ctx).Info().Msg("matched")

	testLogger.AssertContains(t, `"source":"snapshot"`)
	testLogger.AssertContains(t, `"record_id":"0xabc"`)
	testLogger.AssertContains(t, `"proposal_id":"p-1"`)
	testLogger.AssertContains(t, "matched")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled on purpose
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestWithFields(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"records": 12,
		"score":   71.5,
		"dry_run": true,
	})
	ctx = logging.WithError(ctx, assert.AnError)
	logging.Ctx(ctx).Warn().Msg("fields")

	testLogger.AssertContains(t, `"records":12`)
	testLogger.AssertContains(t, `"score":71.5`)
	testLogger.AssertContains(t, `"dry_run":true`)
	testLogger.AssertContains(t, `"error":`)
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("file output rotates through lumberjack", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "govmatch.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"run": "test"},
		})
		logger.Info().Msg("written to file")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "written to file")
		assert.Contains(t, string(content), `"run":"test"`)
	})

	t.Run("auto format writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "auto.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "info", Format: "auto", Output: path})
		logger.Info().Str("bucket", "matched").Msg("auto format")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"message":"auto format"`)
		assert.Contains(t, string(content), `"bucket":"matched"`)
		assert.NotContains(t, string(content), "\x1b[")
	})

	t.Run("level filtering", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "error", Format: "json", Output: "discard"})
		assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "chatty", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestConfigureFromEnv(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_OUTPUT", path)
	t.Setenv("LOG_FIELDS", "app=govmatch, env = test")

	logging.ConfigureFromEnv()
	logging.Info().Msg("hidden")
	logging.Warn().Msg("shown")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(content)
	assert.True(t, strings.Contains(out, "shown"))
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, `"app":"govmatch"`)
	assert.Contains(t, out, `"env":"test"`)
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)
	logging.Info().Str("bucket", "unmatched").Msg("captured")
	captured.AssertContains(t, `"bucket":"unmatched"`)
	assert.Len(t, captured.Lines(), 1)
}
