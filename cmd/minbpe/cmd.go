package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/minbpe/internal/envconfig"
	"github.com/born-ml/minbpe/internal/tokenizer"
)

// NewCLI builds the root command.
func NewCLI(logger *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minbpe",
		Short: "Byte-level BPE tokenizer",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}

	trainCmd := &cobra.Command{
		Use:   "train FILE",
		Short: "Train a tokenizer on a text file and show its merges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return TrainHandler(cmd, args, logger)
		},
	}
	trainCmd.Flags().Int("vocab-size", 512, "Target vocabulary size (at least 256)")
	trainCmd.Flags().String("pattern", tokenizer.PatternGPT4, "Pre-tokenizer pattern (empty disables splitting)")
	trainCmd.Flags().Int("show", 20, "Number of merges to print")

	encodeCmd := &cobra.Command{
		Use:   "encode TEXT",
		Short: "Encode text with a recovered tiktoken vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return EncodeHandler(cmd, args, logger)
		},
	}

	decodeCmd := &cobra.Command{
		Use:   "decode ID...",
		Short: "Decode token IDs with a recovered tiktoken vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return DecodeHandler(cmd, args, logger)
		},
	}

	recoverCmd := &cobra.Command{
		Use:   "recover TEXT...",
		Short: "Recover a tiktoken merge forest and compare both tokenizers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RecoverHandler(cmd, args, logger)
		},
	}

	for _, cmd := range []*cobra.Command{encodeCmd, decodeCmd, recoverCmd} {
		cmd.Flags().String("encoding", "cl100k_base", "tiktoken encoding name")
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show environment configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			vars := envconfig.AsMap()
			for _, name := range slices.Sorted(maps.Keys(vars)) {
				v := vars[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%v\t%s\n", v.Name, v.Value, v.Description)
			}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minbpe %s\n", version)
		},
	}

	rootCmd.AddCommand(trainCmd, encodeCmd, decodeCmd, recoverCmd, envCmd, versionCmd)
	return rootCmd
}

func TrainHandler(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	vocabSize, err := cmd.Flags().GetInt("vocab-size")
	if err != nil {
		return err
	}
	pattern, err := cmd.Flags().GetString("pattern")
	if err != nil {
		return err
	}
	show, err := cmd.Flags().GetInt("show")
	if err != nil {
		return err
	}

	//nolint:gosec // G304: Path comes from the command line
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	tok, err := tokenizer.Train(string(data), vocabSize,
		tokenizer.WithPattern(pattern), tokenizer.WithLogger(logger))
	if err != nil {
		return err
	}

	ids, err := tok.Encode(string(data))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "merges: %d, vocab size: %d, tokens: %d (%d bytes)\n\n",
		tok.Merges().Len(), tok.VocabSize(), len(ids), len(data))
	printMerges(out, tok, show)
	return nil
}

func printMerges(w io.Writer, tok *tokenizer.BPETokenizer, limit int) {
	var data [][]string
	tok.Merges().Each(func(m tokenizer.Merge) bool {
		if len(data) >= limit {
			return false
		}
		data = append(data, []string{
			strconv.Itoa(len(data) + 1),
			m.Pair.String(),
			strconv.Itoa(int(m.ID)),
			quoteToken(tok, m.Pair.A),
			quoteToken(tok, m.Pair.B),
			quoteToken(tok, m.ID),
			strconv.Itoa(m.Count),
		})
		return true
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "PAIR", "ID", "LEFT", "RIGHT", "MERGED", "COUNT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(data)
	table.Render()
}

func quoteToken(tok *tokenizer.BPETokenizer, id int32) string {
	text, _ := tok.Decode([]int32{id})
	return strconv.Quote(text)
}

func recovered(cmd *cobra.Command, logger *slog.Logger) (*tokenizer.BPETokenizer, string, error) {
	encoding, err := cmd.Flags().GetString("encoding")
	if err != nil {
		return nil, "", err
	}

	tok, err := tokenizer.RecoverEncoding(encoding, tokenizer.WithLogger(logger))
	if err != nil {
		return nil, "", err
	}
	return tok, encoding, nil
}

func EncodeHandler(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	tok, _, err := recovered(cmd, logger)
	if err != nil {
		return err
	}

	ids, err := tok.Encode(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatIDs(ids))
	return nil
}

func DecodeHandler(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	tok, _, err := recovered(cmd, logger)
	if err != nil {
		return err
	}

	text, err := tok.Decode(ids)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func RecoverHandler(cmd *cobra.Command, args []string, logger *slog.Logger) error {
	ours, encoding, err := recovered(cmd, logger)
	if err != nil {
		return err
	}

	foreign, err := tokenizer.NewTikToken(encoding)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, text := range args {
		want, err := foreign.Encode(text)
		if err != nil {
			return err
		}
		got, err := ours.Encode(text)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%q\n  tiktoken:  %s\n  recovered: %s\n", text, formatIDs(want), formatIDs(got))
	}

	if err := tokenizer.VerifyCompatibility(cmd.Context(), ours, foreign, args); err != nil {
		return err
	}
	fmt.Fprintf(out, "recovered %d merges; all %d texts match %s\n", ours.Merges().Len(), len(args), encoding)
	return nil
}

func formatIDs(ids []int32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func parseIDs(args []string) ([]int32, error) {
	var ids []int32
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' || r == '[' || r == ']' }) {
			id, err := strconv.ParseInt(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid token id %q: %w", field, err)
			}
			ids = append(ids, int32(id))
		}
	}
	return ids, nil
}
