package tokenizer

import (
	"log/slog"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"
)

// Trainer builds a merge table and vocabulary with the greedy BPE schedule.
//
// Pairs are counted within chunks only, so no merge ever spans a chunk
// boundary. Among pairs tied for the highest count, the one seen first while
// scanning the chunks in order wins.
type Trainer struct {
	splitter *Splitter
	logger   *slog.Logger
}

// NewTrainer creates a trainer. Only WithPattern and WithLogger apply.
func NewTrainer(opts ...Option) (*Trainer, error) {
	c := newConfig(opts)
	splitter, err := NewSplitter(c.pattern)
	if err != nil {
		return nil, err
	}
	return &Trainer{splitter: splitter, logger: c.logger}, nil
}

// Train pre-tokenizes text and trains on the resulting chunks.
func (t *Trainer) Train(text string, vocabSize int) (*MergeTable, *Vocabulary, error) {
	chunks, err := t.splitter.Split(text)
	if err != nil {
		return nil, nil, err
	}
	return t.TrainChunks(chunks, vocabSize)
}

// TrainChunks runs up to vocabSize-256 merges over already split chunks.
//
// Training stops early, without error, once no chunk has two adjacent tokens.
func (t *Trainer) TrainChunks(chunks []string, vocabSize int) (*MergeTable, *Vocabulary, error) {
	if vocabSize < NumBytes {
		return nil, nil, configError("vocab size %d is below %d", vocabSize, NumBytes)
	}
	numMerges := vocabSize - NumBytes

	ids := make([][]int32, len(chunks))
	for i, chunk := range chunks {
		ids[i] = bytesToIDs([]byte(chunk), nil)
	}

	merges := NewMergeTable()
	vocab := NewByteVocabulary()

	for step := 0; step < numMerges; step++ {
		best, count, ok := mostFrequentPair(countPairs(ids))
		if !ok {
			t.logger.Debug("no pairs left, stopping early", "merges", step, "requested", numMerges)
			break
		}

		id := int32(NumBytes + step) //nolint:gosec // G115: vocab sizes fit int32
		if err := vocab.addMerge(best, id); err != nil {
			return nil, nil, err
		}
		merges.add(Merge{Pair: best, ID: id, Count: count})

		for i := range ids {
			ids[i] = MergePair(ids[i], best, id)
		}

		t.logger.Debug("merge", "step", step+1, "of", numMerges, "pair", best, "id", id, "count", count)
	}

	return merges, vocab, nil
}

// countPairs counts adjacent pairs within each chunk. The map iterates in
// first-seen order.
func countPairs(chunks [][]int32) *linkedhashmap.Map[Pair, int] {
	counts := linkedhashmap.New[Pair, int]()
	for _, ids := range chunks {
		for i := 0; i+1 < len(ids); i++ {
			p := Pair{ids[i], ids[i+1]}
			n, _ := counts.Get(p)
			counts.Put(p, n+1)
		}
	}
	return counts
}

// mostFrequentPair returns the pair with the highest count, breaking ties
// in favor of the earliest in iteration order.
func mostFrequentPair(counts *linkedhashmap.Map[Pair, int]) (Pair, int, bool) {
	var best Pair
	bestCount := 0
	it := counts.Iterator()
	for it.Next() {
		if it.Value() > bestCount {
			best, bestCount = it.Key(), it.Value()
		}
	}
	return best, bestCount, bestCount > 0
}
