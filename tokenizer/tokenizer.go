// Package tokenizer provides byte-level BPE tokenization.
//
// This package wraps the internal tokenizer implementation and provides
// a clean public API for training, encoding, decoding and recovering the
// merge forest of foreign (tiktoken) vocabularies.
//
// Example usage:
//
//	import "github.com/born-ml/minbpe/tokenizer"
//
//	// Train on a corpus
//	tok, err := tokenizer.Train(corpus, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encode text
//	tokens, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Decode tokens
//	text, err := tok.Decode(tokens)
//	if err != nil {
//	    log.Fatal(err)
//	}
package tokenizer

import (
	"context"
	"log/slog"

	"github.com/born-ml/minbpe/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// BPETokenizer is a byte-level BPE tokenizer.
type BPETokenizer = tokenizer.BPETokenizer

// Trainer builds merge tables with the greedy BPE schedule.
type Trainer = tokenizer.Trainer

// Vocabulary maps token IDs to byte sequences.
type Vocabulary = tokenizer.Vocabulary

// MergeTable is an insertion-ordered mapping from pairs to merged IDs.
type MergeTable = tokenizer.MergeTable

// Merge is a single merge table entry.
type Merge = tokenizer.Merge

// Pair is an ordered pair of adjacent token IDs.
type Pair = tokenizer.Pair

// ByteShuffle maps raw bytes to token IDs.
type ByteShuffle = tokenizer.ByteShuffle

// Option configures training and tokenizers.
type Option = tokenizer.Option

// InconsistencyError reports a foreign token that is not a greedy BPE merge.
type InconsistencyError = tokenizer.InconsistencyError

// MismatchError reports a text two tokenizers encode differently.
type MismatchError = tokenizer.MismatchError

// Errors.
var (
	ErrInvalidConfiguration          = tokenizer.ErrInvalidConfiguration
	ErrInconsistentForeignVocabulary = tokenizer.ErrInconsistentForeignVocabulary
)

// Pre-tokenizer patterns.
const (
	PatternGPT2  = tokenizer.PatternGPT2
	PatternGPT4  = tokenizer.PatternGPT4
	PatternO200k = tokenizer.PatternO200k
	PatternNone  = tokenizer.PatternNone
)

// WithPattern sets the pre-tokenizer pattern.
func WithPattern(pattern string) Option {
	return tokenizer.WithPattern(pattern)
}

// WithByteShuffle sets the raw byte permutation.
func WithByteShuffle(shuffle *ByteShuffle) Option {
	return tokenizer.WithByteShuffle(shuffle)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return tokenizer.WithLogger(logger)
}

// MergePair replaces every non-overlapping occurrence of p in ids with id.
func MergePair(ids []int32, p Pair, id int32) []int32 {
	return tokenizer.MergePair(ids, p, id)
}

// NewTrainer creates a trainer.
func NewTrainer(opts ...Option) (*Trainer, error) {
	return tokenizer.NewTrainer(opts...)
}

// Train trains a tokenizer on text.
func Train(text string, vocabSize int, opts ...Option) (*BPETokenizer, error) {
	return tokenizer.Train(text, vocabSize, opts...)
}

// NewBPETokenizer creates a tokenizer from a merge table and vocabulary.
func NewBPETokenizer(merges *MergeTable, vocab *Vocabulary, opts ...Option) (*BPETokenizer, error) {
	return tokenizer.NewBPETokenizer(merges, vocab, opts...)
}

// RecoverMergeForest rebuilds the merge table of a rank-only vocabulary.
func RecoverMergeForest(ranks map[string]int, opts ...Option) (*MergeTable, *Vocabulary, error) {
	return tokenizer.RecoverMergeForest(ranks, opts...)
}

// RecoverTokenizer recovers a tokenizer equivalent to a rank-only vocabulary.
func RecoverTokenizer(ranks map[string]int, opts ...Option) (*BPETokenizer, error) {
	return tokenizer.RecoverTokenizer(ranks, opts...)
}

// RecoverEncoding recovers a tokenizer equivalent to a tiktoken encoding.
//
// Supported names: "cl100k_base", "p50k_base", "r50k_base", "o200k_base".
func RecoverEncoding(encodingName string, opts ...Option) (*BPETokenizer, error) {
	return tokenizer.RecoverEncoding(encodingName, opts...)
}

// NewTikToken creates the tiktoken reference tokenizer for an encoding.
func NewTikToken(encodingName string) (Tokenizer, error) {
	return tokenizer.NewTikToken(encodingName)
}

// ForeignRanks returns the rank table of a tiktoken encoding.
func ForeignRanks(encodingName string) (map[string]int, error) {
	return tokenizer.ForeignRanks(encodingName)
}

// LoadRanks reads a tiktoken rank file.
func LoadRanks(path string) (map[string]int, error) {
	return tokenizer.LoadRanks(path)
}

// ByteShuffleFromRanks derives the byte permutation of a rank table.
func ByteShuffleFromRanks(ranks map[string]int) (*ByteShuffle, error) {
	return tokenizer.ByteShuffleFromRanks(ranks)
}

// VerifyCompatibility checks that two tokenizers agree on every text.
func VerifyCompatibility(ctx context.Context, ours, foreign Tokenizer, texts []string) error {
	return tokenizer.VerifyCompatibility(ctx, ours, foreign, texts)
}
