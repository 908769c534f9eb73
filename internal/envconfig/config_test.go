package envconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebug(t *testing.T) {
	cases := map[string]bool{
		"":        false,
		"false":   false,
		"0":       false,
		"1":       true,
		"true":    true,
		"'true'":  true,
		" 1 ":     true,
		"verbose": true,
	}

	for value, expect := range cases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("MINBPE_DEBUG", value)
			assert.Equal(t, expect, Debug())
		})
	}
}

func TestLogLevel(t *testing.T) {
	t.Setenv("MINBPE_DEBUG", "1")
	require.Equal(t, slog.LevelDebug, LogLevel())
	t.Setenv("MINBPE_DEBUG", "")
	require.Equal(t, slog.LevelInfo, LogLevel())
}

func TestCacheDir(t *testing.T) {
	t.Setenv("TIKTOKEN_CACHE_DIR", "")
	t.Setenv("DATA_GYM_CACHE_DIR", "")
	assert.Equal(t, filepath.Join(os.TempDir(), "data-gym-cache"), CacheDir())

	t.Setenv("DATA_GYM_CACHE_DIR", "/tmp/gym")
	assert.Equal(t, "/tmp/gym", CacheDir())

	t.Setenv("TIKTOKEN_CACHE_DIR", "\"/tmp/tiktoken\"")
	assert.Equal(t, "/tmp/tiktoken", CacheDir())
}

func TestAsMap(t *testing.T) {
	t.Setenv("MINBPE_DEBUG", "1")
	vars := AsMap()
	assert.Equal(t, true, vars["MINBPE_DEBUG"].Value)
	assert.Contains(t, vars, "TIKTOKEN_CACHE_DIR")
}
