// table.go renders tabular data as fixed-width text lines.
package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxColWidth caps a single column so one wide cell cannot push the
// rest of the table off screen; panning covers the remainder.
const maxColWidth = 50

// formatTable lays out a header row, a separator, and data rows with
// column widths fitted to the content.
func formatTable(headers []string, rows [][]string) []string {
	if len(headers) == 0 {
		return nil
	}

	runeLen := utf8.RuneCountInString

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runeLen(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && runeLen(cell) > widths[i] {
				widths[i] = runeLen(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}

	var lines []string

	header := ""
	for i, h := range headers {
		header += fmt.Sprintf(" %-*s │", widths[i], h)
	}

	// Build separator from header: every char becomes ─, except │ → ┼
	var sep strings.Builder
	for _, ch := range header {
		if ch == '│' {
			sep.WriteRune('┼')
		} else {
			sep.WriteRune('─')
		}
	}

	lines = append(lines, strings.TrimRight(header, "│"))
	lines = append(lines, strings.TrimRight(sep.String(), "┼"))

	for _, row := range rows {
		line := ""
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if runeLen(cell) > widths[i] {
				runes := []rune(cell)
				cell = string(runes[:widths[i]-1]) + "…"
			}
			line += fmt.Sprintf(" %-*s │", widths[i], cell)
		}
		lines = append(lines, strings.TrimRight(line, "│"))
	}

	return lines
}
