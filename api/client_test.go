package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient wires a Client to an httptest server handling a
// single endpoint.
func newTestClient(t *testing.T, path string, handler http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api"+path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestGeneratePlan_Success(t *testing.T) {
	client := newTestClient(t, "/process", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "list all users", req["prompt"])

		json.NewEncoder(w).Encode(map[string]any{
			"success":           true,
			"sql":               "SELECT * FROM users;",
			"intent":            map[string]any{"action": "select"},
			"deployment_script": "BEGIN;\nSELECT * FROM users;\nCOMMIT;",
			"validation": map[string]any{
				"valid":    true,
				"warnings": []string{"unbounded result"},
			},
		})
	})

	res, err := client.GeneratePlan(context.Background(), "list all users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users;", res.SQL)
	assert.True(t, res.Validation.Valid)
	assert.Equal(t, []string{"unbounded result"}, res.Validation.Warnings)
	assert.Empty(t, res.MissingFields())
}

func TestGeneratePlan_MissingFields(t *testing.T) {
	client := newTestClient(t, "/process", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"sql":     "SELECT 1;",
		})
	})

	res, err := client.GeneratePlan(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, []string{"intent", "deployment_script"}, res.MissingFields())
}

func TestExecute_ReturnsRawResult(t *testing.T) {
	client := newTestClient(t, "/execute", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SELECT 1;", req["query"])

		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"result":     []map[string]any{{"n": 1}},
			"query_type": "SELECT",
		})
	})

	reply, err := client.Execute(context.Background(), "SELECT 1;")
	require.NoError(t, err)
	assert.Equal(t, "SELECT", reply.QueryType)
	assert.JSONEq(t, `[{"n": 1}]`, string(reply.Result))
}

func TestTestConnection_UsesMessageField(t *testing.T) {
	client := newTestClient(t, "/test-connection", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Connection successful",
		})
	})

	msg, err := client.TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Connection successful", msg)
}

func TestReportedFailure(t *testing.T) {
	client := newTestClient(t, "/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":       false,
			"error":         "relation \"users\" does not exist",
			"error_details": "Traceback (most recent call last): ...",
		})
	})

	_, err := client.Execute(context.Background(), "SELECT * FROM users;")
	require.Error(t, err)

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailReported, f.Kind)
	assert.Equal(t, "relation \"users\" does not exist", f.Message)
	assert.Contains(t, f.Details, "Traceback")
}

func TestReportedFailure_FallsBackToMessage(t *testing.T) {
	client := newTestClient(t, "/test-connection", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Connection failed: timeout",
		})
	})

	_, err := client.TestConnection(context.Background())
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailReported, f.Kind)
	assert.Equal(t, "Connection failed: timeout", f.Message)
}

func TestDecodeFailure_On2xxGarbage(t *testing.T) {
	client := newTestClient(t, "/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})

	_, err := client.Schema(context.Background())
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailDecode, f.Kind)
	assert.Contains(t, f.Details, "not json at all")
}

func TestTransportFailure_OnBadStatus(t *testing.T) {
	client := newTestClient(t, "/schema", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	})

	_, err := client.Schema(context.Background())
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailTransport, f.Kind)
	assert.Equal(t, "Server returned HTTP 502", f.Message)
}

func TestTransportFailure_OnConnectionError(t *testing.T) {
	// A server that is already closed refuses the connection.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(srv.URL)

	_, err := client.Tables(context.Background())
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FailTransport, f.Kind)
	assert.NotNil(t, f.Err)
}

func TestTables(t *testing.T) {
	client := newTestClient(t, "/browser/tables", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"tables": []map[string]any{
				{"table_schema": "public", "table_name": "users", "column_count": 5},
				{"table_schema": "audit", "table_name": "events", "column_count": 8},
			},
		})
	})

	tables, err := client.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "users", tables[0].Name)
	assert.Equal(t, 8, tables[1].ColumnCount)
}

func TestTableStructure_QueryParams(t *testing.T) {
	client := newTestClient(t, "/browser/table/structure", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "users", r.URL.Query().Get("table"))
		assert.Equal(t, "public", r.URL.Query().Get("schema"))

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"structure": []map[string]any{
				{
					"column_name":              "email",
					"data_type":                "varchar",
					"character_maximum_length": 255,
					"is_nullable":              "NO",
					"is_primary_key":           false,
				},
			},
		})
	})

	cols, err := client.TableStructure(context.Background(), "users", "public")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "varchar(255)", cols[0].TypeLabel())
	assert.False(t, cols[0].Nullable())
}

func TestTableData_EchoesServerPaging(t *testing.T) {
	client := newTestClient(t, "/browser/table/data", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "100", q.Get("offset"))

		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"data":        []map[string]any{{"id": 101}, {"id": 102}},
			"total_count": 120,
			"limit":       50,
			"offset":      100,
		})
	})

	page, err := client.TableData(context.Background(), "users", "public", 50, 100)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, 120, page.TotalCount)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 100, page.Offset)
	assert.Equal(t, []string{"id"}, page.Rows[0].Columns)
}

func TestColumnInfoTypeLabel(t *testing.T) {
	length := 64
	precision, scale := 10, 2

	tests := []struct {
		name     string
		col      ColumnInfo
		expected string
	}{
		{"plain", ColumnInfo{DataType: "integer"}, "integer"},
		{"char length", ColumnInfo{DataType: "varchar", CharMaxLength: &length}, "varchar(64)"},
		{"numeric", ColumnInfo{DataType: "numeric", NumericPrecision: &precision, NumericScale: &scale}, "numeric(10,2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.col.TypeLabel())
		})
	}
}
