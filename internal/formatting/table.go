package formatting

import (
	"io"

	"github.com/anight/teamcity-cli/internal/teamcity"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// cellFallback is rendered for columns absent from an entity.
const cellFallback = "N/A"

// RenderTable writes one table to w: a header row with the literal column
// names followed by one row per entity. Cells are looked up by column name
// with an "N/A" fallback, so unknown columns render as "N/A" in every row.
// Status values get semantic coloring when color is enabled; the coloring
// is exact-match only and never changes the cell text.
func RenderTable(w io.Writer, columns []string, items []map[string]any, color bool) {
	if color {
		// go-pretty gates ANSI output on its own terminal detection;
		// the caller already decided color is wanted for w.
		text.EnableColors()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	style := table.StyleRounded
	// Keep header cells as the literal column names instead of the
	// style's default upper-casing.
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	header := make(table.Row, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	t.AppendHeader(header)

	for _, item := range items {
		row := make(table.Row, len(columns))
		for i, column := range columns {
			cell := CellValue(item, column)
			if color {
				cell = colorizeStatus(cell)
			}
			row[i] = cell
		}
		t.AppendRow(row)
	}

	t.Render()
}

// CellValue derives the display string for one column of an entity.
// A build whose state is "running" shows RUNNING in the status column
// regardless of the reported status value.
func CellValue(item map[string]any, column string) string {
	if column == "status" {
		if state, _ := item["state"].(string); state == "running" {
			return "RUNNING"
		}
	}

	v, ok := item[column]
	if !ok || v == nil {
		return cellFallback
	}
	return teamcity.ValueString(v)
}

// colorizeStatus applies semantic colors to status-like cell values.
// Matching is exact and case-sensitive; anything else passes through
// unchanged.
func colorizeStatus(cell string) string {
	switch cell {
	case "SUCCESS":
		return text.FgGreen.Sprint(cell)
	case "ERROR", "FAILURE":
		return text.FgRed.Sprint(cell)
	case "RUNNING":
		return text.FgYellow.Sprint(cell)
	default:
		return cell
	}
}
