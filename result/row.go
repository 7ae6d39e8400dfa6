// row.go decodes result rows while preserving column order.
//
// Standard map decoding loses JSON object key order, but the header
// of a rendered rowset must follow the order the server sent. Row
// therefore unmarshals itself token by token.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is a single result row: column names in wire order plus the
// decoded values. Numbers are kept as json.Number to avoid float
// formatting artifacts.
type Row struct {
	Columns []string
	Values  map[string]any
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected JSON object, got %v", tok)
	}

	r.Columns = nil
	r.Values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: non-string key %v", keyTok)
		}

		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}

		if _, seen := r.Values[key]; !seen {
			r.Columns = append(r.Columns, key)
		}
		r.Values[key] = val
	}

	// consume closing '}'
	_, err = dec.Token()
	return err
}

// Get returns the value for a column.
func (r Row) Get(col string) (any, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// FormatValue renders a cell value for display. NULL is spelled out,
// nested structures become compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
