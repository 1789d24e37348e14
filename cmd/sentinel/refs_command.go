package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sentinel/internal/domain"
	"sentinel/internal/service"
)

func newRefsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs",
		Short: "Inspect or seed the reference collection",
	}
	cmd.AddCommand(newRefsListCommand(ctx), newRefsAddCommand(ctx))
	return cmd
}

func newRefsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reference projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, provider, err := ctx.openService(cmd.Context(), cmd.ErrOrStderr(), service.Options{})
			if err != nil {
				return err
			}
			defer provider.Close()

			docs, err := svc.References(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, docs)
			}
			if len(docs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No reference projects in %s\n", provider.Name())
				return nil
			}
			rows := make([]table.Row, 0, len(docs))
			for i, d := range docs {
				abstract := "-"
				if d.HasAbstract() {
					abstract = truncate(d.Abstract, 60)
				}
				rows = append(rows, table.Row{i + 1, d.Title, abstract})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(table.Row{"#", "Title", "Abstract"}, rows, rightAligned(1)...))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print references as JSON")
	return cmd
}

func newRefsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title        string
		abstract     string
		abstractFile string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reference project to a writable provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return errors.New("--title is required")
			}
			if abstractFile != "" {
				text, err := readDocument(abstractFile)
				if err != nil {
					return err
				}
				abstract = text
			}

			svc, provider, err := ctx.openService(cmd.Context(), cmd.ErrOrStderr(), service.Options{})
			if err != nil {
				return err
			}
			defer provider.Close()

			if err := svc.AddReference(cmd.Context(), domain.Document{Title: title, Abstract: abstract}); err != nil {
				if errors.Is(err, domain.ErrReadOnly) {
					return fmt.Errorf("%s: %w", provider.Name(), err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s\n", title, provider.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Project title")
	cmd.Flags().StringVar(&abstract, "abstract", "", "Project abstract")
	cmd.Flags().StringVar(&abstractFile, "abstract-file", "", "Read the abstract from a file")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
