package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// encodingCL100kBase is the encoding name for GPT-4 and GPT-3.5-turbo.
	encodingCL100kBase = "cl100k_base"
	// encodingP50kBase is the encoding name for GPT-3.
	encodingP50kBase = "p50k_base"
	// encodingR50kBase is the encoding name for older GPT-3 models.
	encodingR50kBase = "r50k_base"
	// encodingO200kBase is the encoding name for GPT-4o.
	encodingO200kBase = "o200k_base"
)

const blobBaseURL = "https://openaipublic.blob.core.windows.net/encodings/"

// rankFiles maps encoding names to the location of their rank tables.
var rankFiles = map[string]string{
	encodingCL100kBase: blobBaseURL + "cl100k_base.tiktoken",
	encodingP50kBase:   blobBaseURL + "p50k_base.tiktoken",
	encodingR50kBase:   blobBaseURL + "r50k_base.tiktoken",
	encodingO200kBase:  blobBaseURL + "o200k_base.tiktoken",
}

// EncodingPatterns maps encoding names to their pre-tokenizer patterns, so
// a recovered tokenizer splits text the way the foreign one does.
var EncodingPatterns = map[string]string{
	encodingCL100kBase: PatternGPT4,
	encodingP50kBase:   PatternGPT2,
	encodingR50kBase:   PatternGPT2,
	encodingO200kBase:  PatternO200k,
}

var installLoader sync.Once

// useRankLoader routes tiktoken's rank downloads through DefaultRankLoader so
// both sides of a comparison read the same cached file.
func useRankLoader() {
	installLoader.Do(func() {
		tiktoken.SetBpeLoader(DefaultRankLoader)
	})
}

// TikToken wraps the pkoukk/tiktoken-go library for OpenAI tokenizers. It is
// the reference implementation recovered vocabularies are checked against.
//
// Supported encodings:
//   - cl100k_base: GPT-4, GPT-3.5-turbo, text-embedding-ada-002
//   - p50k_base: GPT-3, Codex
//   - r50k_base: GPT-3, davinci-002, babbage-002
//   - o200k_base: GPT-4o
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
	size     int
}

// NewTikToken creates a new TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	useRankLoader()

	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	ranks, err := ForeignRanks(encodingName)
	if err != nil {
		return nil, err
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
		size:     len(ranks),
	}, nil
}

// Encode converts text to token IDs. Special tokens are encoded as text.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	// Convert []int to []int32.
	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}

	return result, nil
}

// Decode converts token IDs back to text.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	// Convert []int32 to []int.
	intTokens := make([]int, len(tokens))
	for i, tok := range tokens {
		intTokens[i] = int(tok)
	}

	text := t.encoding.Decode(intTokens)
	return text, nil
}

// VocabSize returns the number of mergeable tokens, excluding special tokens.
func (t *TikToken) VocabSize() int {
	return t.size
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}

// ForeignRanks returns the rank table of a tiktoken encoding, downloading it
// through DefaultRankLoader on first use.
func ForeignRanks(encodingName string) (map[string]int, error) {
	file, ok := rankFiles[encodingName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfiguration, encodingName)
	}

	ranks, err := DefaultRankLoader.LoadTiktokenBpe(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranks for %q: %w", encodingName, err)
	}
	return ranks, nil
}

// RecoverEncoding recovers a native tokenizer equivalent to a tiktoken
// encoding, using the encoding's pre-tokenizer pattern.
func RecoverEncoding(encodingName string, opts ...Option) (*BPETokenizer, error) {
	pattern, ok := EncodingPatterns[encodingName]
	if !ok {
		return nil, fmt.Errorf("%w: no pre-tokenizer pattern for encoding %q", ErrInvalidConfiguration, encodingName)
	}

	ranks, err := ForeignRanks(encodingName)
	if err != nil {
		return nil, err
	}
	return RecoverTokenizer(ranks, append([]Option{WithPattern(pattern)}, opts...)...)
}
