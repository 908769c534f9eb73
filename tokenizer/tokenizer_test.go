package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainEncodeDecode(t *testing.T) {
	tok, err := Train("aaabdaaabac", 259)
	require.NoError(t, err)

	var _ Tokenizer = tok

	ids, err := tok.Encode("aaabdaaabac")
	require.NoError(t, err)
	assert.Equal(t, []int32{258, 100, 258, 97, 99}, ids)

	text, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "aaabdaaabac", text)
}

func TestMergePair(t *testing.T) {
	assert.Equal(t, []int32{256, 97}, MergePair([]int32{97, 97, 97}, Pair{A: 97, B: 97}, 256))
}

func TestInvalidVocabSize(t *testing.T) {
	_, err := Train("hello", 100)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestRecoverTokenizer(t *testing.T) {
	ranks := make(map[string]int)
	for b := 0; b < 256; b++ {
		ranks[string([]byte{byte(b)})] = b
	}
	ranks["ab"] = 256
	ranks["abc"] = 257

	tok, err := RecoverTokenizer(ranks, WithPattern(PatternNone))
	require.NoError(t, err)

	ids, err := tok.Encode("abcab")
	require.NoError(t, err)
	assert.Equal(t, []int32{257, 256}, ids)

	delete(ranks, "ab")
	_, err = RecoverTokenizer(ranks)
	assert.ErrorIs(t, err, ErrInconsistentForeignVocabulary)
}
