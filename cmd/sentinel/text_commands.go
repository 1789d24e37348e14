package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sentinel/internal/keywords"
	"sentinel/internal/similarity"
)

func newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare FILE_A FILE_B",
		Short: "Print the cosine similarity of two documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readDocument(args[0])
			if err != nil {
				return err
			}
			b, err := readDocument(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", similarity.Cosine(a, b))
			return nil
		},
	}
}

func newKeywordsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "keywords FILE",
		Short: "Print the most frequent keywords of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				limit = cfg.Keywords.Limit
			}
			for _, kw := range keywords.Top(text, limit) {
				fmt.Fprintln(cmd.OutOrStdout(), kw)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", keywords.DefaultLimit, "Maximum number of keywords")
	return cmd
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
