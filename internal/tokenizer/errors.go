package tokenizer

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidConfiguration          = errors.New("invalid tokenizer configuration")
	ErrInconsistentForeignVocabulary = errors.New("foreign vocabulary is inconsistent with greedy BPE")
)

// InconsistencyError reports a foreign token whose bytes could not be reduced
// to exactly two lower-ranked parts.
type InconsistencyError struct {
	Token []byte // Bytes of the offending token
	Rank  int    // Rank of the offending token
	Parts int    // Number of parts the decomposition stopped at
}

// Error implements the error interface.
func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("%s: token %q (rank %d) decomposed into %d parts, want 2",
		ErrInconsistentForeignVocabulary, e.Token, e.Rank, e.Parts)
}

// Unwrap returns ErrInconsistentForeignVocabulary.
func (e *InconsistencyError) Unwrap() error {
	return ErrInconsistentForeignVocabulary
}

// MismatchError reports a text for which two tokenizers disagree.
type MismatchError struct {
	Text string
	Want []int32 // Foreign tokenizer output
	Got  []int32 // Our output
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	i := 0
	for i < len(e.Want) && i < len(e.Got) && e.Want[i] == e.Got[i] {
		i++
	}
	return fmt.Sprintf("token mismatch for %q at position %d: want %v, got %v", e.Text, i, e.Want, e.Got)
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
