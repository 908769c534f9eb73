package tokenizer

import "fmt"

// NumBytes is the number of leaf tokens: one per raw byte value.
const NumBytes = 256

// Pair is an ordered pair of adjacent token IDs.
type Pair struct {
	A, B int32
}

// String formats the pair as "(a, b)".
func (p Pair) String() string {
	return fmt.Sprintf("(%d, %d)", p.A, p.B)
}

type vocabEntry struct {
	bytes    []byte
	children Pair
	merged   bool
}

// Vocabulary maps token IDs to byte sequences.
//
// Entries are stored in a flat table indexed by ID, so resolving the bytes of
// a deeply merged token never walks the merge forest. IDs without an entry
// are holes (possible for recovered foreign vocabularies with sparse ranks).
type Vocabulary struct {
	entries []vocabEntry
	size    int
}

// NewByteVocabulary returns a vocabulary holding the 256 raw-byte leaves,
// where ID b maps to the single byte b.
func NewByteVocabulary() *Vocabulary {
	v := &Vocabulary{}
	for b := 0; b < NumBytes; b++ {
		v.setLeaf(int32(b), byte(b))
	}
	return v
}

// newShuffledVocabulary places each raw byte b at ID shuffle[b].
func newShuffledVocabulary(shuffle *ByteShuffle) *Vocabulary {
	v := &Vocabulary{}
	for b := 0; b < NumBytes; b++ {
		v.setLeaf(shuffle[b], byte(b))
	}
	return v
}

func (v *Vocabulary) grow(id int32) {
	if n := int(id) + 1; n > len(v.entries) {
		v.entries = append(v.entries, make([]vocabEntry, n-len(v.entries))...)
	}
}

func (v *Vocabulary) setLeaf(id int32, b byte) {
	v.grow(id)
	if v.entries[id].bytes == nil {
		v.size++
	}
	v.entries[id] = vocabEntry{bytes: []byte{b}}
}

// addMerge records id as the concatenation of the bytes of p.A and p.B.
func (v *Vocabulary) addMerge(p Pair, id int32) error {
	a, ok := v.Bytes(p.A)
	if !ok {
		return fmt.Errorf("merge %v -> %d: unknown token %d", p, id, p.A)
	}
	b, ok := v.Bytes(p.B)
	if !ok {
		return fmt.Errorf("merge %v -> %d: unknown token %d", p, id, p.B)
	}
	if _, exists := v.Bytes(id); exists {
		return fmt.Errorf("merge %v -> %d: id already assigned", p, id)
	}

	merged := make([]byte, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)

	v.grow(id)
	v.entries[id] = vocabEntry{bytes: merged, children: p, merged: true}
	v.size++
	return nil
}

// Bytes returns the byte sequence of id. The returned slice must not be modified.
func (v *Vocabulary) Bytes(id int32) ([]byte, bool) {
	if id < 0 || int(id) >= len(v.entries) || v.entries[id].bytes == nil {
		return nil, false
	}
	return v.entries[id].bytes, true
}

// Children returns the pair id was merged from. Leaves report false.
func (v *Vocabulary) Children(id int32) (Pair, bool) {
	if id < 0 || int(id) >= len(v.entries) || !v.entries[id].merged {
		return Pair{}, false
	}
	return v.entries[id].children, true
}

// Len returns the number of tokens in the vocabulary.
func (v *Vocabulary) Len() int {
	return v.size
}

// MaxID returns the largest assigned ID, or -1 for an empty vocabulary.
func (v *Vocabulary) MaxID() int32 {
	for id := len(v.entries) - 1; id >= 0; id-- {
		if v.entries[id].bytes != nil {
			return int32(id) //nolint:gosec // G115: bounded by len(entries)
		}
	}
	return -1
}
