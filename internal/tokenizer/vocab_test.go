package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteVocabulary(t *testing.T) {
	vocab := NewByteVocabulary()
	assert.Equal(t, NumBytes, vocab.Len())
	assert.Equal(t, int32(255), vocab.MaxID())

	for id := int32(0); id < NumBytes; id++ {
		bs, ok := vocab.Bytes(id)
		require.True(t, ok)
		assert.Equal(t, []byte{byte(id)}, bs)

		_, merged := vocab.Children(id)
		assert.False(t, merged)
	}

	_, ok := vocab.Bytes(256)
	assert.False(t, ok)
	_, ok = vocab.Bytes(-1)
	assert.False(t, ok)
}

func TestVocabulary_AddMerge(t *testing.T) {
	vocab := NewByteVocabulary()
	require.NoError(t, vocab.addMerge(Pair{'a', 'b'}, 256))
	require.NoError(t, vocab.addMerge(Pair{256, 'c'}, 257))

	bs, ok := vocab.Bytes(257)
	require.True(t, ok)
	assert.Equal(t, "abc", string(bs))

	children, ok := vocab.Children(257)
	require.True(t, ok)
	assert.Equal(t, Pair{256, 'c'}, children)
	assert.Equal(t, 258, vocab.Len())

	t.Run("unknown child", func(t *testing.T) {
		assert.Error(t, vocab.addMerge(Pair{999, 'a'}, 258))
	})

	t.Run("id already assigned", func(t *testing.T) {
		assert.Error(t, vocab.addMerge(Pair{'a', 'a'}, 'z'))
	})
}

func TestVocabulary_SparseIDs(t *testing.T) {
	vocab := NewByteVocabulary()
	require.NoError(t, vocab.addMerge(Pair{'a', 'b'}, 1000))

	assert.Equal(t, 257, vocab.Len())
	assert.Equal(t, int32(1000), vocab.MaxID())

	_, ok := vocab.Bytes(500)
	assert.False(t, ok)
}
