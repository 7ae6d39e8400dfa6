// csv.go serializes a rowset for export.
//
// Not RFC 4180: cells are quoted only when they contain a comma,
// and embedded quotes or newlines are not escaped. Matches the
// export format existing consumers already parse.
package result

import "strings"

// ToCSV renders rows as comma-separated text. The header line comes
// from the first row's columns in wire order; nulls become empty
// cells. An empty rowset yields an empty string.
func ToCSV(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}

	headers := rows[0].Columns

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteByte('\n')

	for _, row := range rows {
		for i, col := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvCell(row.Values[col]))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func csvCell(v any) string {
	if v == nil {
		return ""
	}
	s := FormatValue(v)
	if strings.Contains(s, ",") {
		return `"` + s + `"`
	}
	return s
}
