package tokenizer

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// VerifyCompatibility encodes every text with both tokenizers and returns a
// *MismatchError for the first text, in input order, where they disagree.
// Texts are encoded concurrently.
func VerifyCompatibility(ctx context.Context, ours, foreign Tokenizer, texts []string) error {
	mismatches := make([]*MismatchError, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			want, err := foreign.Encode(text)
			if err != nil {
				return fmt.Errorf("foreign encode %q: %w", text, err)
			}
			got, err := ours.Encode(text)
			if err != nil {
				return fmt.Errorf("encode %q: %w", text, err)
			}

			if !slices.Equal(want, got) {
				mismatches[i] = &MismatchError{Text: text, Want: want, Got: got}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range mismatches {
		if m != nil {
			return m
		}
	}
	return nil
}
