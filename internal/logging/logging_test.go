package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNewLoggerWithConfig_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "debug", Console: true, JSON: true, Out: &buf})

	LogValidation(WithStrategy(logger, "Iron Condor", "NIFTY"), false, 2, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validation", entry["event"])
	assert.Equal(t, "Iron Condor", entry["strategy"])
	assert.Equal(t, "NIFTY", entry["index"])
	assert.Equal(t, false, entry["valid"])
	assert.Equal(t, float64(2), entry["errors"])
}

func TestNewLoggerWithConfig_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: "error", Console: true, JSON: true, Out: &buf})

	LogTransform(logger, "to_backend", "s", 2, nil)
	assert.Zero(t, buf.Len())
}

func TestNewLoggerWithConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "strategyctl.log")
	logger := NewLoggerWithConfig(LogConfig{Level: "info", File: true, FilePath: path, MaxSize: 1})
	logger.Info().Msg("written")

	assert.FileExists(t, path)
}
