package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/config"
)

func TestInteractiveLoggerWritesJSONLines(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "weektodo.log")
	logger, closer, err := NewLogger(config.LogConfig{Level: "info", File: file}, true)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("path", "/api/tasks").Msg("request done")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "request done", line["message"])
	assert.Equal(t, "/api/tasks", line["path"])
	assert.Contains(t, line, "timestamp")
	assert.NotContains(t, string(data), "hidden")
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	_, _, err := NewLogger(config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
