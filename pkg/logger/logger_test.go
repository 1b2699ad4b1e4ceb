package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.log")
	l := New(Options{FilePath: path, Production: true})
	l.Named("stream").Info("stream open")
	l.Debug("hidden from file")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "stream open", entry["msg"])
	assert.Equal(t, "stream", entry["logger"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewConsoleOnly(t *testing.T) {
	l := New(Options{})
	assert.True(t, l.Core().Enabled(-1))
}
