package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for input, expected := range testCases {
		assert.Equal(t, expected, ParseLevel(input), input)
	}
}

func TestNewWithWriter_JSONCarriesRunID(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	logger := NewWithWriter(cfg, &buf)

	ctx := ContextWithRunID(context.Background(), "run-42")
	WithContext(ctx, logger).Info("scenario finished", slog.Int("days", 365))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "scenario finished", record["msg"])
	assert.Equal(t, "run-42", record["run_id"])
	assert.Equal(t, float64(365), record["days"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = "warn"
	logger := NewWithWriter(cfg, &buf)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_FileOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.FilePath = filepath.Join(t.TempDir(), "nested", "invopt.log")

	logger, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	cfg.FilePath = ""
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestRunIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, RunIDFromContext(context.Background()))
	assert.NotNil(t, WithContext(context.Background(), nil))
}
