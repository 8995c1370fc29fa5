package logrus

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewWithWriter(buf, "debug")

	logger.Info("Strategy succeeded", map[string]interface{}{
		"strategy": "graphql_v5",
		"items":    3,
	})

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Strategy succeeded", entries[0]["msg"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "graphql_v5", entries[0]["strategy"])
	assert.Equal(t, 3.0, entries[0]["items"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewWithWriter(buf, "warn")

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", nil)
	logger.Error("shown", map[string]interface{}{"error": "boom"})

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warning", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, logrus.InfoLevel, parseLevel(""))
}

func TestLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger := New(Options{Level: "info", Format: "json", File: path})

	logger.Info("to file", map[string]interface{}{"k": "v"})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	assert.NoError(t, New(Options{Format: "text"}).Close())
}
