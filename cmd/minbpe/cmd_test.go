package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewCLI(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "minbpe "+version+"\n", out)
}

func TestEnv(t *testing.T) {
	t.Setenv("MINBPE_DEBUG", "1")
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "MINBPE_DEBUG=true")
	assert.Contains(t, out, "TIKTOKEN_CACHE_DIR=")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "MINBPE_DEBUG="))
	assert.True(t, strings.HasPrefix(lines[1], "TIKTOKEN_CACHE_DIR="))

	for range 5 {
		again, err := run(t, "env")
		require.NoError(t, err)
		assert.Equal(t, out, again)
	}
}

func TestTrain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaabdaaabac"), 0o600))

	out, err := run(t, "train", path, "--vocab-size", "259", "--show", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "merges: 3, vocab size: 259, tokens: 5 (11 bytes)")
	assert.Contains(t, out, `"aa"`)
	assert.Contains(t, out, `"aaa"`)
	assert.NotContains(t, out, `"aaab"`)
	assert.Contains(t, out, "(97, 97)")
}

func TestTrain_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := run(t, "train", path, "--vocab-size", "10")
	assert.Error(t, err)

	_, err = run(t, "train", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = run(t, "train")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"15339", "1917,0", "[1, 2]"})
	require.NoError(t, err)
	assert.Equal(t, []int32{15339, 1917, 0, 1, 2}, ids)

	_, err = parseIDs([]string{"abc"})
	assert.Error(t, err)
}

func TestFormatIDs(t *testing.T) {
	assert.Equal(t, "[1, 2, 3]", formatIDs([]int32{1, 2, 3}))
	assert.Equal(t, "[]", formatIDs(nil))
}

func TestDecode_InvalidIDs(t *testing.T) {
	out, err := run(t, "decode", "not-a-number")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid token id"), out)
}
