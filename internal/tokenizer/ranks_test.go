package tokenizer

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // G505: mirrors the cache key
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRanks(t *testing.T) {
	ranks, err := ParseRanks(strings.NewReader("YQ== 0\nYg== 1\n\nYWI= 2\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "ab": 2}, ranks)
}

func TestParseRanks_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing rank", input: "YQ==\n"},
		{name: "extra field", input: "YQ== 0 1\n"},
		{name: "bad base64", input: "!!! 0\n"},
		{name: "bad rank", input: "YQ== x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRanks(strings.NewReader(tt.input))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestFormatRanks_Roundtrip(t *testing.T) {
	ranks := byteRanks()
	ranks["ab"] = 256
	ranks[" the"] = 257

	var buf bytes.Buffer
	require.NoError(t, FormatRanks(&buf, ranks))
	assert.True(t, strings.HasPrefix(buf.String(), "AA== 0\n"))

	parsed, err := ParseRanks(&buf)
	require.NoError(t, err)
	assert.Equal(t, ranks, parsed)
}

func TestLoadRanks(t *testing.T) {
	ranks := byteRanks()
	ranks["ab"] = 256

	path := filepath.Join(t.TempDir(), "test.tiktoken")
	var buf bytes.Buffer
	require.NoError(t, FormatRanks(&buf, ranks))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	loaded, err := LoadRanks(path)
	require.NoError(t, err)
	assert.Equal(t, ranks, loaded)

	_, err = LoadRanks(filepath.Join(t.TempDir(), "missing.tiktoken"))
	assert.Error(t, err)
}

func TestRankLoader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.tiktoken")
	require.NoError(t, os.WriteFile(path, []byte("YQ== 0\n"), 0o600))

	loader := NewRankLoader("")
	ranks, err := loader.LoadTiktokenBpe(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0}, ranks)

	// Loaded tables are kept, so a changed file is not re-read.
	require.NoError(t, os.WriteFile(path, []byte("Yg== 0\n"), 0o600))
	ranks, err = loader.LoadTiktokenBpe(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0}, ranks)
}

func TestRankLoader_Download(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/test.tiktoken" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("YQ== 0\nYWI= 1\n"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	url := server.URL + "/test.tiktoken"

	ranks, err := NewRankLoader(cacheDir).LoadTiktokenBpe(url)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "ab": 1}, ranks)
	assert.Equal(t, int32(1), requests.Load())

	sum := sha1.Sum([]byte(url)) //nolint:gosec // G401: cache key only
	assert.FileExists(t, filepath.Join(cacheDir, hex.EncodeToString(sum[:])))

	// A fresh loader reads the cache instead of the server.
	ranks, err = NewRankLoader(cacheDir).LoadTiktokenBpe(url)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "ab": 1}, ranks)
	assert.Equal(t, int32(1), requests.Load())

	_, err = NewRankLoader(cacheDir).LoadTiktokenBpe(server.URL + "/missing.tiktoken")
	assert.Error(t, err)
}

func TestForeignRanks_UnknownEncoding(t *testing.T) {
	_, err := ForeignRanks("invalid_encoding_xyz")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
