// types.go holds the wire types for all server responses.
package api

import (
	"encoding/json"
	"fmt"

	"github.com/perbergman/sql-gpt/result"
)

// ValidationReport is the server's verdict on a generated statement.
// All slices may be absent in the payload; absent means empty.
type ValidationReport struct {
	Valid       bool     `json:"valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// GenerationResult is the full artifact set from a prompt.
type GenerationResult struct {
	SQL              string           `json:"sql"`
	Intent           json.RawMessage  `json:"intent"`
	DeploymentScript string           `json:"deployment_script"`
	Validation       ValidationReport `json:"validation"`
}

// MissingFields lists the artifact fields absent from a successful
// response. Callers warn about these but still render whatever
// arrived.
func (g *GenerationResult) MissingFields() []string {
	var missing []string
	if g.SQL == "" {
		missing = append(missing, "sql")
	}
	if len(g.Intent) == 0 || string(g.Intent) == "null" {
		missing = append(missing, "intent")
	}
	if g.DeploymentScript == "" {
		missing = append(missing, "deployment_script")
	}
	return missing
}

// ExecutionReply carries the undecoded result payload plus the
// server's statement classification. The payload is classified by
// the result package, not here.
type ExecutionReply struct {
	Result    json.RawMessage
	QueryType string
}

// SchemaTable is one table in the schema overview, with its columns.
type SchemaTable struct {
	Schema  string         `json:"schema"`
	Name    string         `json:"name"`
	Columns []SchemaColumn `json:"columns"`
}

// SchemaColumn is a column as reported by the schema overview.
type SchemaColumn struct {
	Name       string  `json:"column_name"`
	DataType   string  `json:"data_type"`
	IsNullable string  `json:"is_nullable"`
	Default    *string `json:"column_default"`
}

// SchemaViewInfo names a database view.
type SchemaViewInfo struct {
	Schema string `json:"view_schema"`
	Name   string `json:"view_name"`
}

// SchemaFunction names a stored function.
type SchemaFunction struct {
	Schema string `json:"function_schema"`
	Name   string `json:"function_name"`
}

// SchemaSnapshot is the whole-database schema overview.
type SchemaSnapshot struct {
	Tables    []SchemaTable    `json:"tables"`
	Views     []SchemaViewInfo `json:"views"`
	Functions []SchemaFunction `json:"functions"`
}

// Empty reports whether the snapshot has no content at all.
func (s *SchemaSnapshot) Empty() bool {
	return len(s.Tables) == 0 && len(s.Views) == 0 && len(s.Functions) == 0
}

// TableInfo is one entry in the browser's table list.
type TableInfo struct {
	Schema      string `json:"table_schema"`
	Name        string `json:"table_name"`
	ColumnCount int    `json:"column_count"`
}

// ColumnInfo describes one column in a table structure.
type ColumnInfo struct {
	Name             string  `json:"column_name"`
	DataType         string  `json:"data_type"`
	CharMaxLength    *int    `json:"character_maximum_length"`
	NumericPrecision *int    `json:"numeric_precision"`
	NumericScale     *int    `json:"numeric_scale"`
	IsNullable       string  `json:"is_nullable"` // "YES" / "NO"
	Default          *string `json:"column_default"`
	IsPrimaryKey     bool    `json:"is_primary_key"`
}

// TypeLabel renders the data type with its length or precision,
// e.g. "varchar(255)" or "numeric(10,2)".
func (c ColumnInfo) TypeLabel() string {
	switch {
	case c.CharMaxLength != nil:
		return fmt.Sprintf("%s(%d)", c.DataType, *c.CharMaxLength)
	case c.NumericPrecision != nil && c.NumericScale != nil:
		return fmt.Sprintf("%s(%d,%d)", c.DataType, *c.NumericPrecision, *c.NumericScale)
	default:
		return c.DataType
	}
}

// Nullable reports the is_nullable flag as a bool.
func (c ColumnInfo) Nullable() bool {
	return c.IsNullable == "YES"
}

// TablePage is one page of table data. Limit and Offset echo what
// the server actually used, which may differ from the request.
type TablePage struct {
	Rows       []result.Row
	TotalCount int
	Limit      int
	Offset     int
}
