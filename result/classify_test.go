package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Scalar(t *testing.T) {
	out := Classify(json.RawMessage(`"Table created successfully"`))
	assert.Equal(t, OutcomeScalar, out.Kind)
	assert.Equal(t, "Table created successfully", out.Message)
	assert.Nil(t, out.Rows)
}

func TestClassify_EmptyArray(t *testing.T) {
	out := Classify(json.RawMessage(`[]`))
	assert.Equal(t, OutcomeEmpty, out.Kind)
	assert.Equal(t, "Query executed successfully. No results returned.", out.Message)
}

func TestClassify_Rowset(t *testing.T) {
	out := Classify(json.RawMessage(`[{"id": 1, "name": "alice"}, {"id": 2, "name": "bob"}]`))
	assert.Equal(t, OutcomeRowset, out.Kind)
	assert.Len(t, out.Rows, 2)
	assert.Equal(t, []string{"id", "name"}, out.Rows[0].Columns)
}

func TestClassify_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"null", `null`},
		{"empty payload", ``},
		{"number", `42`},
		{"object", `{"rows": 3}`},
		{"boolean", `true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Classify(json.RawMessage(tt.raw))
			assert.Equal(t, OutcomeEmpty, out.Kind)
			assert.Equal(t, "Query executed successfully.", out.Message)
			assert.Nil(t, out.Rows)
		})
	}
}

func TestClassify_WhitespacePadding(t *testing.T) {
	out := Classify(json.RawMessage("  \n\t" + `"done"` + " \n"))
	assert.Equal(t, OutcomeScalar, out.Kind)
	assert.Equal(t, "done", out.Message)
}

func TestScalarSeverity(t *testing.T) {
	tests := []struct {
		message  string
		expected Severity
	}{
		{"relation \"users\" already exists", SeverityWarning},
		{"Table created successfully", SeveritySuccess},
		{"0 rows affected", SeverityInfo},
		// "already exists" wins over "successfully"
		{"already exists, completed successfully", SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScalarSeverity(tt.message))
		})
	}
}
