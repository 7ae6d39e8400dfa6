package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_PreservesColumnOrder(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"zulu": 1, "alpha": 2, "mike": 3}`), &row)
	require.NoError(t, err)

	assert.Equal(t, []string{"zulu", "alpha", "mike"}, row.Columns)
}

func TestRow_NumbersKeepWireForm(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"big": 9007199254740993, "price": 19.90}`), &row)
	require.NoError(t, err)

	big, ok := row.Get("big")
	require.True(t, ok)
	assert.Equal(t, "9007199254740993", FormatValue(big))

	price, _ := row.Get("price")
	assert.Equal(t, "19.90", FormatValue(price))
}

func TestRow_DuplicateKeyListedOnce(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"a": 1, "b": 2, "a": 3}`), &row)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, row.Columns)
	v, _ := row.Get("a")
	assert.Equal(t, json.Number("3"), v)
}

func TestRow_RejectsNonObject(t *testing.T) {
	var row Row
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &row))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &row))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "hello"},
		{"number", json.Number("42"), "42"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"nested array", []any{1.0, 2.0}, "[1,2]"},
		{"nested object", map[string]any{"k": "v"}, `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input))
		})
	}
}
