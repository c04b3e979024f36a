package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/imgajeed76/ivy/internal/util"
)

// PrintPlainTable prints a properly aligned table for non-TTY output.
// Shows full content without truncation.
func PrintPlainTable(w io.Writer, colNames []string, rows [][]string) {
	if len(colNames) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	// Calculate column widths based on actual content (no truncation)
	colWidths := make([]int, len(colNames))
	for i, name := range colNames {
		colWidths[i] = lipgloss.Width(name)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], lipgloss.Width(val))
			}
		}
	}

	writeLine := func(vals []string) {
		var sb strings.Builder
		for i, val := range vals {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(pad(val, colWidths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	}

	writeLine(colNames)

	seps := make([]string, len(colWidths))
	for i, cw := range colWidths {
		seps[i] = strings.Repeat("─", cw)
	}
	writeLine(seps)

	for _, row := range rows {
		writeLine(row)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// PrintRaw prints rows as tab-separated values, header excluded, for piping.
func PrintRaw(w io.Writer, rows [][]string) {
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

// pad adds spaces to reach the desired width (no truncation).
func pad(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// PadOrTruncate pads or truncates to exact width (for TUI table).
func PadOrTruncate(s string, width int) string {
	if lipgloss.Width(s) > width {
		s = util.Truncate(s, width)
	}
	return pad(s, width)
}
