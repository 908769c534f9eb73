// Package tokenizer implements a byte-level Byte-Pair Encoding engine.
//
// The package covers the whole lifecycle of a BPE vocabulary:
//   - Splitter: regex pre-tokenization into chunks (GPT-2 and GPT-4 patterns)
//   - MergePair: the pair-merge primitive
//   - Trainer: greedy, chunk-respecting merge training with deterministic ties
//   - BPETokenizer: encoding by replaying the merge table, lossy decoding
//   - RecoverMergeForest: rebuilding the merge table of a rank-only vocabulary
//   - TikToken: the tiktoken-go reference used to verify recovered tables
//
// Example usage:
//
//	// Train a tokenizer
//	tok, err := tokenizer.Train(text, 512)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encode text
//	tokens, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Decode tokens
//	text, err := tok.Decode(tokens)
//
//	// Recover GPT-4's merge forest and encode the same way tiktoken does
//	gpt4, err := tokenizer.RecoverEncoding("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := gpt4.Encode("hello world")
package tokenizer
