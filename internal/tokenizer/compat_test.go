package tokenizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCompatibility(t *testing.T) {
	trained, err := Train(corpus, 400)
	require.NoError(t, err)
	untrained, err := Train("", 256)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("same tokenizer", func(t *testing.T) {
		require.NoError(t, VerifyCompatibility(ctx, trained, trained, []string{corpus, "hello", ""}))
	})

	t.Run("different merges", func(t *testing.T) {
		texts := []string{"", "x", "the dog", "byte pair encoding"}
		err := VerifyCompatibility(ctx, trained, untrained, texts)

		var mismatch *MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "the dog", mismatch.Text)
		assert.Len(t, mismatch.Want, len("the dog"))
		assert.Less(t, len(mismatch.Got), len(mismatch.Want))
		assert.Contains(t, err.Error(), "position")
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		err := VerifyCompatibility(canceled, trained, trained, []string{"hello"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
