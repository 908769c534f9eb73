// Package envconfig reads minbpe settings from the environment.
package envconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

// Debug reports whether MINBPE_DEBUG is set. Any value that does not parse
// as a boolean counts as true.
func Debug() bool {
	v := clean("MINBPE_DEBUG")
	if v == "" {
		return false
	}
	d, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return d
}

// LogLevel returns the level implied by MINBPE_DEBUG.
func LogLevel() slog.Level {
	if Debug() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// CacheDir returns the directory used to cache downloaded rank files. It
// honors TIKTOKEN_CACHE_DIR and DATA_GYM_CACHE_DIR so the cache is shared
// with tiktoken.
func CacheDir() string {
	for _, key := range []string{"TIKTOKEN_CACHE_DIR", "DATA_GYM_CACHE_DIR"} {
		if dir := clean(key); dir != "" {
			return dir
		}
	}
	return filepath.Join(os.TempDir(), "data-gym-cache")
}

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"MINBPE_DEBUG":       {"MINBPE_DEBUG", Debug(), "Show additional debug information (e.g. MINBPE_DEBUG=1)"},
		"TIKTOKEN_CACHE_DIR": {"TIKTOKEN_CACHE_DIR", CacheDir(), "Location for cached tiktoken rank files"},
	}
}
