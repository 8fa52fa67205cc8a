package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	l := NewIsolatedLogger(path)

	l.Info("RETRIEVER", "index built", map[string]interface{}{"key": "42", "chunks": 7})
	l.Error("LLM", "chat failed", map[string]interface{}{"error": "timeout"})
	l.Debug("PROMPT", "assembled", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 3)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "index built", lines[0]["message"])
	assert.Equal(t, "RETRIEVER", lines[0]["module"])
	assert.Equal(t, "timeout", lines[1]["error_ref"])
	assert.Equal(t, "DEBUG", lines[2]["level"])
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	l.Warn("X", "ignored", nil)
	assert.NoError(t, l.Sync())
}
