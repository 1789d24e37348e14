package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sentinel/internal/service"
	"sentinel/internal/tui"
)

const exitDuplicate = 2

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		useTUI     bool
	)

	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "Scan project documents against the reference collection",
		Long: "Scan plain-text (.txt, .md) project documents against every reference abstract.\n" +
			"Exits with status 2 when any document is a duplicate.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, provider, err := ctx.openService(cmd.Context(), cmd.ErrOrStderr(), service.Options{})
			if err != nil {
				return err
			}
			defer provider.Close()

			if !cmd.Flags().Changed("tui") {
				useTUI = !jsonOutput && len(args) == 1 && isTerminal(cmd.OutOrStdout())
			}

			reports := make([]*service.Report, 0, len(args))
			for _, path := range args {
				rep, err := svc.ScanFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("scan %s: %w", path, err)
				}
				reports = append(reports, rep)
			}

			switch {
			case useTUI:
				final, err := tea.NewProgram(tui.New(svc, reports[0]), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return err
				}
				if m, ok := final.(tui.Model); ok && m.Report() != nil {
					reports = []*service.Report{m.Report()}
				}
			case jsonOutput:
				var payload any = reports
				if len(reports) == 1 {
					payload = reports[0]
				}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
			default:
				for i, rep := range reports {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					fmt.Fprint(cmd.OutOrStdout(), renderReport(rep))
				}
			}

			for _, rep := range reports {
				if rep.IsDuplicate {
					return &exitError{code: exitDuplicate, reason: "duplicate detected"}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print reports as JSON")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Open the interactive result view (default when scanning one file on a terminal)")
	return cmd
}

func renderReport(rep *service.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (Security Clearance: %s)\n", rep.FileName, rep.Status, rep.Clearance())
	fmt.Fprintf(&b, "Similarity: %.1f%%", rep.Score*100)
	if rep.MatchedTitle != "" {
		fmt.Fprintf(&b, "  closest match: %s", rep.MatchedTitle)
	}
	b.WriteString("\n")
	if len(rep.Keywords) > 0 {
		fmt.Fprintf(&b, "Digital DNA: %s\n", strings.Join(rep.Keywords, ", "))
	}
	if rep.Recommend {
		fmt.Fprintf(&b, "Recommendation: %s\n", rep.Recommendation)
	}

	if len(rep.Ranking) > 0 {
		rows := make([]table.Row, 0, len(rep.Ranking))
		for i, ref := range rep.Ranking {
			rows = append(rows, table.Row{i + 1, ref.Title, fmt.Sprintf("%.1f%%", ref.Score*100)})
		}
		b.WriteString(renderTable(table.Row{"#", "Reference", "Similarity"}, rows, rightAligned(1, 3)...))
		b.WriteString("\n")
	}
	return b.String()
}
