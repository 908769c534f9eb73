package tokenizer

import "math"

// ByteShuffle is a bijection on raw byte values: byte b is represented by
// token ID shuffle[b].
type ByteShuffle [NumBytes]int32

// IdentityShuffle returns the shuffle mapping every byte to itself.
func IdentityShuffle() *ByteShuffle {
	var s ByteShuffle
	for b := range s {
		s[b] = int32(b) //nolint:gosec // G115: b < 256
	}
	return &s
}

// Validate checks that s is a permutation of 0..255.
func (s *ByteShuffle) Validate() error {
	var seen [NumBytes]bool
	for b, id := range s {
		if id < 0 || id >= NumBytes {
			return configError("byte shuffle maps %d to %d, outside 0..255", b, id)
		}
		if seen[id] {
			return configError("byte shuffle maps two bytes to %d", id)
		}
		seen[id] = true
	}
	return nil
}

// ByteShuffleFromRanks derives the shuffle b -> rank([b]) from a foreign
// rank table.
func ByteShuffleFromRanks(ranks map[string]int) (*ByteShuffle, error) {
	var s ByteShuffle
	for b := 0; b < NumBytes; b++ {
		rank, ok := ranks[string([]byte{byte(b)})]
		if !ok {
			return nil, configError("rank table has no entry for byte 0x%02x", b)
		}
		if rank > math.MaxInt32 {
			return nil, configError("rank %d of byte 0x%02x overflows int32", rank, b)
		}
		s[b] = int32(rank) //nolint:gosec // G115: checked above
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
