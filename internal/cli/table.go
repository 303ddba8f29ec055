package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"scrub/internal/types"
)

func renderReport(report types.EditReport) string {
	if report.SegmentCount == 0 {
		return "no removals: nothing flagged"
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Start", "End", "Removed", "Reasons"})
	for i, r := range report.Removals {
		tw.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2fs", r.Start),
			fmt.Sprintf("%.2fs", r.End),
			fmt.Sprintf("%.2fs", r.Duration()),
			r.ReasonList(),
		})
	}
	tw.AppendFooter(table.Row{"", "", "total", fmt.Sprintf("%.2fs", report.TotalRemoved), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	out := tw.Render()
	if report.CuesBefore > 0 {
		out += fmt.Sprintf("\ncues: %d -> %d", report.CuesBefore, report.CuesAfter)
	}
	if report.Warnings > 0 {
		out += fmt.Sprintf("\nwarnings: %d", report.Warnings)
	}
	return out
}
