package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BPETokenizer implements byte-level Byte-Pair Encoding.
//
// A tokenizer owns one vocabulary, one merge table and one pre-tokenizer
// pattern, all fixed at construction. It is safe for concurrent use.
type BPETokenizer struct {
	vocab    *Vocabulary
	merges   *MergeTable
	splitter *Splitter
	shuffle  *ByteShuffle
}

// NewBPETokenizer creates a tokenizer from a merge table and vocabulary.
//
// Every merge (a, b) -> id must satisfy vocab[id] == vocab[a] ++ vocab[b].
func NewBPETokenizer(merges *MergeTable, vocab *Vocabulary, opts ...Option) (*BPETokenizer, error) {
	if merges == nil || vocab == nil {
		return nil, configError("merge table and vocabulary are required")
	}

	c := newConfig(opts)
	if c.shuffle != nil {
		if err := c.shuffle.Validate(); err != nil {
			return nil, err
		}
	}

	splitter, err := NewSplitter(c.pattern)
	if err != nil {
		return nil, err
	}

	b := &BPETokenizer{
		vocab:    vocab,
		merges:   merges,
		splitter: splitter,
		shuffle:  c.shuffle,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Train trains a tokenizer on text with the given options.
func Train(text string, vocabSize int, opts ...Option) (*BPETokenizer, error) {
	trainer, err := NewTrainer(opts...)
	if err != nil {
		return nil, err
	}

	merges, vocab, err := trainer.Train(text, vocabSize)
	if err != nil {
		return nil, fmt.Errorf("failed to train tokenizer: %w", err)
	}

	return NewBPETokenizer(merges, vocab, opts...)
}

// Validate checks the merge forest: for every merge (a, b) -> id the bytes of
// id are the bytes of a followed by the bytes of b.
func (b *BPETokenizer) Validate() error {
	var err error
	b.merges.Each(func(m Merge) bool {
		left, okA := b.vocab.Bytes(m.Pair.A)
		right, okB := b.vocab.Bytes(m.Pair.B)
		merged, okID := b.vocab.Bytes(m.ID)
		if !okA || !okB || !okID {
			err = configError("merge %v -> %d references a token missing from the vocabulary", m.Pair, m.ID)
			return false
		}
		if len(merged) != len(left)+len(right) ||
			string(merged[:len(left)]) != string(left) ||
			string(merged[len(left):]) != string(right) {
			err = configError("token %d (%q) is not the concatenation of %v", m.ID, merged, m.Pair)
			return false
		}
		return true
	})
	return err
}

// Encode converts text to token IDs.
//
// Each chunk is converted to raw byte IDs (shuffled if configured), then the
// whole merge table is replayed on it in insertion order.
func (b *BPETokenizer) Encode(text string) ([]int32, error) {
	chunks, err := b.splitter.Split(text)
	if err != nil {
		return nil, err
	}

	tokens := []int32{}
	for _, chunk := range chunks {
		tokens = append(tokens, b.encodeChunk([]byte(chunk))...)
	}
	return tokens, nil
}

func (b *BPETokenizer) encodeChunk(chunk []byte) []int32 {
	ids := bytesToIDs(chunk, b.shuffle)
	b.merges.Each(func(m Merge) bool {
		ids = MergePair(ids, m.Pair, m.ID)
		return len(ids) > 1
	})
	return ids
}

// Decode converts token IDs back to text. It never fails: IDs below 256 that
// are missing from the vocabulary decode as the raw byte, other unknown IDs
// decode as U+FFFD, and each maximal invalid UTF-8 subpart becomes one U+FFFD.
func (b *BPETokenizer) Decode(tokens []int32) (string, error) {
	return toValidUTF8(b.DecodeBytes(tokens)), nil
}

// toValidUTF8 replaces every maximal subpart of an ill-formed sequence in bs
// with a single U+FFFD. A truncated multi-byte sequence counts as one subpart.
func toValidUTF8(bs []byte) string {
	var sb strings.Builder
	sb.Grow(len(bs))
	for len(bs) > 0 {
		r, size := utf8.DecodeRune(bs)
		if r == utf8.RuneError && size == 1 {
			size = invalidPrefixLen(bs)
		}
		sb.WriteRune(r)
		bs = bs[size:]
	}
	return sb.String()
}

// invalidPrefixLen returns the length of the longest prefix of bs that starts
// a well-formed sequence but does not complete one, or 1 if bs[0] cannot start
// a sequence at all.
func invalidPrefixLen(bs []byte) int {
	lo, hi, need := byte(0x80), byte(0xBF), 0
	switch c := bs[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		lo, need = 0xA0, 2
	case c == 0xED:
		hi, need = 0x9F, 2
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		lo, need = 0x90, 3
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	case c == 0xF4:
		hi, need = 0x8F, 3
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(bs) && bs[n] >= lo && bs[n] <= hi {
		n++
		lo, hi = 0x80, 0xBF
	}
	return n
}

// DecodeBytes returns the raw bytes of tokens without UTF-8 repair.
func (b *BPETokenizer) DecodeBytes(tokens []int32) []byte {
	var buf []byte
	for _, token := range tokens {
		switch bs, ok := b.vocab.Bytes(token); {
		case ok:
			buf = append(buf, bs...)
		case token >= 0 && token < NumBytes:
			buf = append(buf, byte(token))
		default:
			buf = utf8.AppendRune(buf, utf8.RuneError)
		}
	}
	return buf
}

// VocabSize returns the total vocabulary size.
func (b *BPETokenizer) VocabSize() int {
	return b.vocab.Len()
}

// Vocab returns the vocabulary.
func (b *BPETokenizer) Vocab() *Vocabulary {
	return b.vocab
}

// Merges returns the merge table.
func (b *BPETokenizer) Merges() *MergeTable {
	return b.merges
}

// Pattern returns the pre-tokenizer pattern.
func (b *BPETokenizer) Pattern() string {
	return b.splitter.Pattern()
}

func bytesToIDs(bs []byte, shuffle *ByteShuffle) []int32 {
	ids := make([]int32, len(bs))
	for i, c := range bs {
		if shuffle != nil {
			ids[i] = shuffle[c]
		} else {
			ids[i] = int32(c)
		}
	}
	return ids
}
