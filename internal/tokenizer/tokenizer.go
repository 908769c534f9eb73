package tokenizer

import "log/slog"

// Tokenizer is the core interface for text tokenization.
//
// Both the native BPE tokenizer and the tiktoken bridge implement it.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int
}

type config struct {
	pattern string
	shuffle *ByteShuffle
	logger  *slog.Logger
}

func newConfig(opts []Option) config {
	c := config{pattern: PatternGPT4}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Option configures a Trainer or a BPETokenizer.
type Option func(*config)

// WithPattern sets the pre-tokenizer boundary pattern. The default is
// PatternGPT4; PatternNone disables splitting.
func WithPattern(pattern string) Option {
	return func(c *config) {
		c.pattern = pattern
	}
}

// WithByteShuffle maps raw byte b to token ID shuffle[b] before merges are
// applied. Only meaningful for recovered foreign vocabularies.
func WithByteShuffle(shuffle *ByteShuffle) Option {
	return func(c *config) {
		c.shuffle = shuffle
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
