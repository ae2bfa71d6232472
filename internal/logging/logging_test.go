package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	require.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", zap.String("table", "THEORY"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "shown", entry["msg"])
	require.Equal(t, "THEORY", entry["table"])
}

func TestOpenWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sheetdesk.log")
	log, closeFn, err := Open(path, "info")
	require.NoError(t, err)
	log.Info("started")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"msg":"started"`)

	nop, closeNop, err := Open("", "info")
	require.NoError(t, err)
	nop.Info("ignored")
	require.NoError(t, closeNop())
}
