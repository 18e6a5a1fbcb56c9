package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSON(t *testing.T) {
	// Given: a logger writing to a buffer
	var buf bytes.Buffer
	logger := Setup(Config{Level: "info", Writer: &buf})

	// When: logging an event
	logger.Info("index_started", slog.Int("total", 42))

	// Then: output is a JSON record with the attribute
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "index_started", record["msg"])
	assert.EqualValues(t, 42, record["total"])
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "warn", Writer: &buf})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromString(tt.input))
		})
	}
}
