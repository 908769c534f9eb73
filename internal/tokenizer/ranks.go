package tokenizer

import (
	"bufio"
	"bytes"
	"cmp"
	"crypto/sha1" //nolint:gosec // G505: cache key only, matches tiktoken's cache layout
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/born-ml/minbpe/internal/envconfig"
)

// DefaultRankLoader is the loader shared by ForeignRanks and TikToken.
var DefaultRankLoader = NewRankLoader(envconfig.CacheDir())

// RankLoader loads tiktoken rank tables from local files or URLs and keeps
// every table it has loaded. It implements tiktoken.BpeLoader.
//
// Downloaded files are cached under CacheDir using tiktoken's naming (the
// hex SHA-1 of the URL). Returned tables are shared and must not be modified.
type RankLoader struct {
	Client   *http.Client
	CacheDir string

	mu     sync.Mutex
	tables map[string]map[string]int
}

// NewRankLoader creates a loader caching downloads in cacheDir. An empty
// cacheDir disables the on-disk cache.
func NewRankLoader(cacheDir string) *RankLoader {
	return &RankLoader{
		Client:   &http.Client{Timeout: 2 * time.Minute},
		CacheDir: cacheDir,
		tables:   make(map[string]map[string]int),
	}
}

// LoadTiktokenBpe returns the rank table stored at file, a path or an
// http(s) URL.
func (l *RankLoader) LoadTiktokenBpe(file string) (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ranks, ok := l.tables[file]; ok {
		return ranks, nil
	}

	data, err := l.read(file)
	if err != nil {
		return nil, err
	}

	ranks, err := ParseRanks(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	l.tables[file] = ranks
	return ranks, nil
}

func (l *RankLoader) read(file string) ([]byte, error) {
	if !strings.HasPrefix(file, "http://") && !strings.HasPrefix(file, "https://") {
		//nolint:gosec // G304: Path comes from trusted caller
		return os.ReadFile(file)
	}

	var cachePath string
	if l.CacheDir != "" {
		sum := sha1.Sum([]byte(file)) //nolint:gosec // G401: cache key only
		cachePath = filepath.Join(l.CacheDir, hex.EncodeToString(sum[:]))
		//nolint:gosec // G304: Path is derived from the cache directory
		if data, err := os.ReadFile(cachePath); err == nil {
			return data, nil
		}
	}

	data, err := l.download(file)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := writeCache(cachePath, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (l *RankLoader) download(url string) ([]byte, error) {
	resp, err := l.Client.Get(url) //nolint:noctx // BpeLoader has no context parameter
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return data, nil
}

func writeCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadRanks reads a tiktoken rank file from disk.
func LoadRanks(path string) (map[string]int, error) {
	//nolint:gosec // G304: Path comes from trusted caller
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rank file: %w", err)
	}
	defer f.Close()

	ranks, err := ParseRanks(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ranks, nil
}

// ParseRanks parses the tiktoken rank format: one "base64(token) rank" pair
// per line. Blank lines are ignored.
func ParseRanks(r io.Reader) (map[string]int, error) {
	ranks := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want 2 fields, got %d", line, len(fields))
		}

		token, err := base64.StdEncoding.DecodeString(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rank, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ranks[string(token)] = rank
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ranks, nil
}

// FormatRanks writes ranks in the tiktoken rank format, ordered by rank.
func FormatRanks(w io.Writer, ranks map[string]int) error {
	tokens := make([]string, 0, len(ranks))
	for token := range ranks {
		tokens = append(tokens, token)
	}
	slices.SortFunc(tokens, func(a, b string) int {
		return cmp.Compare(ranks[a], ranks[b])
	})

	bw := bufio.NewWriter(w)
	for _, token := range tokens {
		fmt.Fprintf(bw, "%s %d\n", base64.StdEncoding.EncodeToString([]byte(token)), ranks[token])
	}
	return bw.Flush()
}
