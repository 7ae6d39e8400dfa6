// view_schema.go renders the whole-database schema overview:
// tables with their columns, then views, then functions.
package tui

func (a *App) renderSchemaLines() []string {
	s := a.schema
	if s == nil {
		return nil
	}
	if s.Empty() {
		return []string{StyleDimmed.Render("No schema information available.")}
	}

	var lines []string

	if len(s.Tables) > 0 {
		lines = append(lines, StyleTitle.Render("Tables"), "")
		for _, t := range s.Tables {
			lines = append(lines, StyleBold.Render(t.Schema+"."+t.Name))

			headers := []string{"Column", "Type", "Nullable", "Default"}
			cells := make([][]string, 0, len(t.Columns))
			for _, c := range t.Columns {
				def := "NULL"
				if c.Default != nil {
					def = *c.Default
				}
				cells = append(cells, []string{c.Name, c.DataType, c.IsNullable, def})
			}
			lines = append(lines, formatTable(headers, cells)...)
			lines = append(lines, "")
		}
	}

	if len(s.Views) > 0 {
		lines = append(lines, StyleTitle.Render("Views"), "")
		for _, v := range s.Views {
			lines = append(lines, "  "+v.Schema+"."+v.Name)
		}
		lines = append(lines, "")
	}

	if len(s.Functions) > 0 {
		lines = append(lines, StyleTitle.Render("Functions"), "")
		for _, f := range s.Functions {
			lines = append(lines, "  "+f.Schema+"."+f.Name)
		}
	}

	return lines
}
