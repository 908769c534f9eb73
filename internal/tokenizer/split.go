package tokenizer

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

const (
	// PatternGPT2 is the GPT-2 pre-tokenizer pattern.
	PatternGPT2 = `'(?:[sdmt]|ll|ve|re)| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

	// PatternGPT4 is the GPT-4 (cl100k_base) pre-tokenizer pattern. The
	// canonical form uses possessive quantifiers, which regexp2 lacks; the
	// greedy forms below match the same chunks for this pattern.
	PatternGPT4 = `'(?i:[sdmt]|ll|ve|re)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s+`

	// PatternO200k is the GPT-4o (o200k_base) pre-tokenizer pattern. It splits
	// camel-case words and keeps contractions attached to the word.
	PatternO200k = `[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]*[\p{Ll}\p{Lm}\p{Lo}\p{M}]+(?i:'s|'t|'re|'ve|'m|'ll|'d)?` +
		`|[^\r\n\p{L}\p{N}]?[\p{Lu}\p{Lt}\p{Lm}\p{Lo}\p{M}]+[\p{Ll}\p{Lm}\p{Lo}\p{M}]*(?i:'s|'t|'re|'ve|'m|'ll|'d)?` +
		`|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n/]*|\s*[\r\n]+|\s+(?!\S)|\s+`

	// PatternNone disables pre-tokenization: the whole text is one chunk.
	PatternNone = ""
)

// Splitter partitions text into chunks along a regex boundary pattern.
//
// Text not covered by any match is emitted as its own chunk, so the chunks
// always concatenate back to the input.
type Splitter struct {
	pattern string
	re      *regexp2.Regexp
}

// NewSplitter compiles pattern. PatternNone yields a splitter that returns
// the input as a single chunk.
func NewSplitter(pattern string) (*Splitter, error) {
	s := &Splitter{pattern: pattern}
	if pattern == PatternNone {
		return s, nil
	}

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: compile pattern %q: %w", ErrInvalidConfiguration, pattern, err)
	}
	s.re = re
	return s, nil
}

// Pattern returns the boundary pattern.
func (s *Splitter) Pattern() string {
	return s.pattern
}

// Split returns the ordered chunks of text.
func (s *Splitter) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	if s.re == nil {
		return []string{text}, nil
	}

	r := []rune(text)
	var chunks []string
	var offset int

	m, err := s.re.FindRunesMatch(r)
	for ; m != nil; m, err = s.re.FindNextMatch(m) {
		if m.Index > offset {
			chunks = append(chunks, string(r[offset:m.Index]))
		}
		if m.Length > 0 {
			chunks = append(chunks, m.String())
		}
		offset = m.Index + m.Length
	}
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	if offset < len(r) {
		chunks = append(chunks, string(r[offset:]))
	}
	return chunks, nil
}
