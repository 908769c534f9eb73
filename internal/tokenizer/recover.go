package tokenizer

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/born-ml/minbpe/internal/logutil"
)

// RecoverMergeForest rebuilds the merge table and vocabulary of a foreign
// BPE vocabulary that only records each token's bytes and rank.
//
// Token IDs are ranks. Raw byte b becomes ID shuffle[b], where the shuffle
// comes from WithByteShuffle or, by default, from the ranks of the single-byte
// tokens. Multi-byte tokens are visited in increasing rank order; each is
// re-encoded using only lower-ranked tokens, and the two parts it reduces to
// become its children. A token that does not reduce to exactly two parts
// yields an *InconsistencyError.
func RecoverMergeForest(ranks map[string]int, opts ...Option) (*MergeTable, *Vocabulary, error) {
	c := newConfig(opts)

	shuffle := c.shuffle
	if shuffle == nil {
		var err error
		if shuffle, err = ByteShuffleFromRanks(ranks); err != nil {
			return nil, nil, err
		}
	} else if err := shuffle.Validate(); err != nil {
		return nil, nil, err
	}

	type rankedToken struct {
		token string
		rank  int
	}

	tokens := make([]rankedToken, 0, len(ranks))
	for token, rank := range ranks {
		if len(token) < 2 {
			continue
		}
		if rank < 0 || rank > math.MaxInt32 {
			return nil, nil, configError("token %q has rank %d outside the int32 range", token, rank)
		}
		tokens = append(tokens, rankedToken{token: token, rank: rank})
	}
	slices.SortFunc(tokens, func(a, b rankedToken) int {
		return cmp.Compare(a.rank, b.rank)
	})

	idOf := func(part string) int32 {
		if len(part) == 1 {
			return shuffle[part[0]]
		}
		return int32(ranks[part]) //nolint:gosec // G115: ranks were range-checked above
	}

	merges := NewMergeTable()
	vocab := newShuffledVocabulary(shuffle)

	for _, t := range tokens {
		parts := decompose(ranks, t.token, t.rank)
		if len(parts) != 2 {
			return nil, nil, &InconsistencyError{Token: []byte(t.token), Rank: t.rank, Parts: len(parts)}
		}

		p := Pair{idOf(parts[0]), idOf(parts[1])}
		id := int32(t.rank) //nolint:gosec // G115: ranks were range-checked above
		if err := vocab.addMerge(p, id); err != nil {
			return nil, nil, fmt.Errorf("%w: recover token %q: %w", ErrInvalidConfiguration, t.token, err)
		}
		merges.add(Merge{Pair: p, ID: id})

		logutil.Trace(c.logger, "recovered merge", "rank", t.rank, "pair", p)
	}

	c.logger.Debug("recovered merge forest", "tokens", len(ranks), "merges", merges.Len())
	return merges, vocab, nil
}

// RecoverTokenizer recovers the merge forest of ranks and returns a tokenizer
// that reproduces the foreign segmentation. The byte shuffle defaults to the
// one implied by ranks and the pattern to PatternGPT4.
func RecoverTokenizer(ranks map[string]int, opts ...Option) (*BPETokenizer, error) {
	if c := newConfig(opts); c.shuffle == nil {
		shuffle, err := ByteShuffleFromRanks(ranks)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithByteShuffle(shuffle))
	}

	merges, vocab, err := RecoverMergeForest(ranks, opts...)
	if err != nil {
		return nil, err
	}
	return NewBPETokenizer(merges, vocab, opts...)
}

// decompose splits token into single bytes and repeatedly joins the adjacent
// pair whose concatenation has the lowest rank below maxRank. Ties go to the
// leftmost pair.
func decompose(ranks map[string]int, token string, maxRank int) []string {
	parts := make([]string, len(token))
	for i := range len(token) {
		parts[i] = token[i : i+1]
	}

	for len(parts) > 1 {
		minIdx, minRank := -1, maxRank
		for i := 0; i+1 < len(parts); i++ {
			if rank, ok := ranks[parts[i]+parts[i+1]]; ok && rank < minRank {
				minIdx, minRank = i, rank
			}
		}
		if minIdx < 0 {
			break
		}
		parts[minIdx] += parts[minIdx+1]
		parts = slices.Delete(parts, minIdx+1, minIdx+2)
	}
	return parts
}
