package projection

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderReport writes the analyzer status followed by one table per summary.
func RenderReport(w io.Writer, status *StatusResponse, summaries []*SummaryResponse) error {
	if status != nil {
		if _, err := fmt.Fprintf(w, "table %s: %s rows analyzed (last seq %d)\n\n",
			status.Table, humanize.Comma(status.Offset), status.LastSeq); err != nil {
			return err
		}
	}

	for _, summary := range summaries {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", summary.Dimension, renderSummary(summary)); err != nil {
			return err
		}
	}
	return nil
}

func renderSummary(summary *SummaryResponse) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"Key", "Files", "Size", "Avg Size"})
	for _, row := range summary.Rows {
		tbl.AppendRow(table.Row{
			strings.Join(row.Key, " / "),
			humanize.Comma(row.Files),
			humanize.IBytes(uint64(row.Size)),
			humanize.IBytes(uint64(row.AvgSize.IntPart())),
		})
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d keys", len(summary.Rows)),
		humanize.Comma(summary.TotalFiles),
		humanize.IBytes(uint64(summary.TotalSize)),
		"",
	})

	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tbl.Render()
}
