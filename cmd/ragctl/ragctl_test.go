package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestChunkCmd_PrintsSentences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.txt")
	require.NoError(t, os.WriteFile(path, []byte("今天天氣很好。我們去公園吧！"), 0o644))

	out, err := execute(t, "chunk", path)

	require.NoError(t, err)
	assert.Contains(t, out, "今天天氣很好。")
	assert.Contains(t, out, "我們去公園吧！")
	assert.Contains(t, out, "2 chunks")
}

func TestChunkCmd_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	out, err := execute(t, "chunk", path)

	require.NoError(t, err)
	assert.Contains(t, out, "no text extracted")
}

func TestIndexBuildCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "index", "build", "12")
	assert.Error(t, err)
}

func TestIndexCmd_Subcommands(t *testing.T) {
	var names []string
	for _, c := range indexCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"build", "inspect", "invalidate", "list"}, names)
}
