package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/lherron/archmerge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.Config{LogLevel: "info", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("merged", zap.String("source", "billing"))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "merged", entry["msg"])
	assert.Equal(t, "billing", entry["source"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.Config{LogLevel: "debug", LogFormat: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("copied element")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "copied element")
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("dropped relationship")
	assert.Contains(t, buf.String(), "dropped relationship")
}

func TestNewWithWriter_Invalid(t *testing.T) {
	_, err := NewWithWriter(&config.Config{LogLevel: "loud", LogFormat: "json"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = NewWithWriter(&config.Config{LogLevel: "info", LogFormat: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log format")
}
