// view_generation.go renders the artifacts of a prompt generation:
// the SQL statement, the parsed intent, the deployment script, and
// the validation report.
package tui

import (
	"bytes"
	"encoding/json"
	"strings"
)

func (a *App) renderGenerationLines() []string {
	g := a.gen
	if g == nil {
		return nil
	}

	var lines []string

	lines = append(lines, StyleTitle.Render("Generated SQL"))
	if g.SQL != "" {
		lines = append(lines, strings.Split(g.SQL, "\n")...)
	} else {
		lines = append(lines, StyleDimmed.Render("No SQL query generated."))
	}

	lines = append(lines, "", StyleTitle.Render("Intent"))
	if intent := prettyJSON(g.Intent); intent != "" {
		lines = append(lines, strings.Split(intent, "\n")...)
	} else {
		lines = append(lines, StyleDimmed.Render("No intent data available."))
	}

	lines = append(lines, "", StyleTitle.Render("Deployment Script"))
	if g.DeploymentScript != "" {
		lines = append(lines, strings.Split(g.DeploymentScript, "\n")...)
	} else {
		lines = append(lines, StyleDimmed.Render("No deployment script generated."))
	}

	lines = append(lines, "", StyleTitle.Render("Validation"))
	lines = append(lines, a.renderValidationLines()...)

	return lines
}

func (a *App) renderValidationLines() []string {
	v := a.gen.Validation

	var lines []string
	if v.Valid {
		lines = append(lines, StyleSuccess.Render("SQL is valid."))
	} else {
		lines = append(lines, StyleError.Render("SQL is not valid."))
	}

	if len(v.Errors) > 0 {
		lines = append(lines, "", StyleBold.Render("Errors:"))
		for _, e := range v.Errors {
			lines = append(lines, StyleError.Render("  ✗ "+e))
		}
	}
	if len(v.Warnings) > 0 {
		lines = append(lines, "", StyleBold.Render("Warnings:"))
		for _, w := range v.Warnings {
			lines = append(lines, StyleWarning.Render("  ⚠ "+w))
		}
	}
	if len(v.Suggestions) > 0 {
		lines = append(lines, "", StyleBold.Render("Suggestions:"))
		for _, s := range v.Suggestions {
			lines = append(lines, StyleInfo.Render("  → "+s))
		}
	}

	return lines
}

// prettyJSON indents a raw JSON value; empty or null values render
// as "".
func prettyJSON(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
