package tokenizer

import (
	"github.com/emirpasic/gods/v2/maps/linkedhashmap"
)

// Merge is a single entry of a merge table.
type Merge struct {
	Pair  Pair
	ID    int32
	Count int // Pair frequency when the merge was selected; zero for recovered merges.
}

// MergeTable is an insertion-ordered mapping from pairs to merged token IDs.
//
// Order is part of the table's meaning: encoding replays merges in the order
// they were added.
type MergeTable struct {
	merges *linkedhashmap.Map[Pair, Merge]
}

// NewMergeTable returns an empty merge table.
func NewMergeTable() *MergeTable {
	return &MergeTable{merges: linkedhashmap.New[Pair, Merge]()}
}

func (t *MergeTable) add(m Merge) {
	t.merges.Put(m.Pair, m)
}

// Lookup returns the ID that p merges into.
func (t *MergeTable) Lookup(p Pair) (int32, bool) {
	m, ok := t.merges.Get(p)
	return m.ID, ok
}

// Len returns the number of merges.
func (t *MergeTable) Len() int {
	return t.merges.Size()
}

// Each calls fn for every merge in insertion order until fn returns false.
func (t *MergeTable) Each(fn func(m Merge) bool) {
	it := t.merges.Iterator()
	for it.Next() {
		if !fn(it.Value()) {
			return
		}
	}
}

// Merges returns a copy of the table in insertion order.
func (t *MergeTable) Merges() []Merge {
	out := make([]Merge, 0, t.Len())
	t.Each(func(m Merge) bool {
		out = append(out, m)
		return true
	})
	return out
}

// MergePair replaces every non-overlapping occurrence of p in ids with id,
// scanning left to right. A match at position i consumes i+1, so "aaa" with
// pair (a, a) becomes [id, a].
//
// ids is never modified. When p does not occur, ids itself is returned.
func MergePair(ids []int32, p Pair, id int32) []int32 {
	first := -1
	for i := 0; i+1 < len(ids); i++ {
		if ids[i] == p.A && ids[i+1] == p.B {
			first = i
			break
		}
	}
	if first < 0 {
		return ids
	}

	out := make([]int32, first, len(ids)-1)
	copy(out, ids[:first])
	for i := first; i < len(ids); {
		if i+1 < len(ids) && ids[i] == p.A && ids[i+1] == p.B {
			out = append(out, id)
			i += 2
		} else {
			out = append(out, ids[i])
			i++
		}
	}
	return out
}
