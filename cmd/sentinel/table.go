package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable draws rows under header in the rounded style. go-pretty pads
// short rows itself.
func renderTable(header table.Row, rows []table.Row, columns ...table.ColumnConfig) string {
	if len(header) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.SetColumnConfigs(columns)
	return tw.Render()
}

// rightAligned right-aligns the numbered (1-based) columns, keeping headers left.
func rightAligned(numbers ...int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, len(numbers))
	for i, n := range numbers {
		configs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft}
	}
	return configs
}
