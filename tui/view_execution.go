// view_execution.go covers executing the generated statement and rendering
// the classified outcome.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/applog"
	"github.com/perbergman/sql-gpt/result"
)

// executeStatement runs the generated SQL. Without a generated
// statement this is a local precondition failure; no request is made.
func (a *App) executeStatement() tea.Cmd {
	if a.gen == nil || strings.TrimSpace(a.gen.SQL) == "" {
		a.fail("Error", api.Precondition("No SQL query to execute."))
		return nil
	}

	query := a.gen.SQL
	applog.Event("EXECUTE", "query: %.100s", query)
	return a.issue(slotExecute, func(seq int) tea.Msg {
		reply, err := a.client.Execute(context.Background(), query)
		if err != nil {
			return ExecutionMsg{Seq: seq, Err: err}
		}
		return ExecutionMsg{
			Seq:       seq,
			Outcome:   result.Classify(reply.Result),
			QueryType: reply.QueryType,
		}
	})
}

func (a *App) renderExecutionLines() []string {
	o := a.outcome
	if o == nil {
		return nil
	}

	var lines []string

	if a.queryType != "" {
		badge := queryTypeStyle(a.queryType).Render("[" + strings.ReplaceAll(a.queryType, "_", " ") + "]")
		lines = append(lines, badge, "")
	}

	switch o.Kind {
	case result.OutcomeScalar:
		lines = append(lines, scalarStyle(o.Message).Render(o.Message))

	case result.OutcomeEmpty:
		lines = append(lines, StyleInfo.Render(o.Message))

	case result.OutcomeRowset:
		lines = append(lines, StyleSuccess.Render(
			fmt.Sprintf("Query executed successfully. %d row(s) returned.", len(o.Rows))), "")
		lines = append(lines, formatRowset(o.Rows)...)
	}

	return lines
}

// scalarStyle maps the message severity hint onto a style. The
// outcome variant itself is never affected.
func scalarStyle(text string) interface{ Render(...string) string } {
	switch result.ScalarSeverity(text) {
	case result.SeverityWarning:
		return StyleWarning
	case result.SeveritySuccess:
		return StyleSuccess
	default:
		return StyleInfo
	}
}

// formatRowset lays out rows as a text table. The header comes from
// the first row's columns in wire order.
func formatRowset(rows []result.Row) []string {
	if len(rows) == 0 {
		return nil
	}

	headers := rows[0].Columns
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, col := range headers {
			line[i] = result.FormatValue(row.Values[col])
		}
		cells = append(cells, line)
	}

	return formatTable(headers, cells)
}

// exportExecution saves the current rowset as CSV.
func (a *App) exportExecution() (tea.Model, tea.Cmd) {
	if a.outcome == nil || a.outcome.Kind != result.OutcomeRowset {
		a.notify("Export", "No rows to export.")
		return a, nil
	}
	a.exportRows(a.outcome.Rows)
	return a, nil
}
