// Package api implements the HTTP client for the SQL-GPT server.
//
// Design decisions:
//   - One method per server action, each doing exactly one round trip.
//   - All methods accept context for cancellation (async-friendly).
//   - Every error is a *Failure carrying the taxonomy kind; raw
//     diagnostic detail rides on the Failure for logging, never in
//     the user-facing message.
//   - No client-side timeout: a hung call simply never resolves,
//     and the UI's busy indicator stays up. Callers that want a
//     deadline pass one via context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/perbergman/sql-gpt/result"
)

// Client talks to one SQL-GPT server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the given base URL, e.g.
// "http://localhost:5000".
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{})
}

// NewWithHTTPClient creates a client with a custom http.Client
// (used when requests go through an SSH tunnel).
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpc: hc}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope is embedded in every response type; the server signals
// failure in-band with success=false.
type envelope struct {
	Success      bool   `json:"success"`
	ErrorMsg     string `json:"error"`
	ErrorDetails string `json:"error_details"`
	Message      string `json:"message"`
}

func (e envelope) env() envelope { return e }

type enveloped interface {
	env() envelope
}

// do performs one round trip and maps every failure mode onto the
// taxonomy. body == nil means GET, otherwise POST with a JSON body.
func (c *Client) do(ctx context.Context, path string, query url.Values, body any, out enveloped) error {
	endpoint := c.baseURL + "/api" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	} else {
		var payload []byte
		payload, err = json.Marshal(body)
		if err != nil {
			return Transport(err)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return Transport(err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Transport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transport(err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// A non-2xx with an unparsable body is a transport problem
		// (proxy error page, HTML 500); a parse failure on a 2xx is
		// a decode failure with the raw text retained.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return TransportStatus(resp.StatusCode, string(raw))
		}
		return Decode(string(raw), err)
	}

	if e := out.env(); !e.Success {
		msg := e.ErrorMsg
		if msg == "" {
			msg = e.Message
		}
		return Reported(msg, e.ErrorDetails)
	}

	return nil
}

// GeneratePlan submits a natural-language prompt and returns the
// generated artifacts.
func (c *Client) GeneratePlan(ctx context.Context, prompt string) (*GenerationResult, error) {
	var resp struct {
		envelope
		GenerationResult
	}
	req := map[string]string{"prompt": prompt}
	if err := c.do(ctx, "/process", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.GenerationResult, nil
}

// Execute runs a SQL statement on the server. The result payload is
// returned undecoded for the classifier.
func (c *Client) Execute(ctx context.Context, query string) (*ExecutionReply, error) {
	var resp struct {
		envelope
		Result    json.RawMessage `json:"result"`
		QueryType string          `json:"query_type"`
	}
	req := map[string]string{"query": query}
	if err := c.do(ctx, "/execute", nil, req, &resp); err != nil {
		return nil, err
	}
	return &ExecutionReply{Result: resp.Result, QueryType: resp.QueryType}, nil
}

// TestConnection asks the server to verify its database connection
// and returns the server's message.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	var resp struct {
		envelope
	}
	if err := c.do(ctx, "/test-connection", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Schema fetches the whole-database schema overview.
func (c *Client) Schema(ctx context.Context) (*SchemaSnapshot, error) {
	var resp struct {
		envelope
		Schema SchemaSnapshot `json:"schema"`
	}
	if err := c.do(ctx, "/schema", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Schema, nil
}

// Tables lists all browsable tables.
func (c *Client) Tables(ctx context.Context) ([]TableInfo, error) {
	var resp struct {
		envelope
		Tables []TableInfo `json:"tables"`
	}
	if err := c.do(ctx, "/browser/tables", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tables, nil
}

// TableStructure fetches column definitions for one table.
func (c *Client) TableStructure(ctx context.Context, table, schema string) ([]ColumnInfo, error) {
	q := url.Values{}
	q.Set("table", table)
	q.Set("schema", schema)

	var resp struct {
		envelope
		Structure []ColumnInfo `json:"structure"`
	}
	if err := c.do(ctx, "/browser/table/structure", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Structure, nil
}

// TableData fetches one page of table rows. The returned page echoes
// the limit and offset the server actually applied.
func (c *Client) TableData(ctx context.Context, table, schema string, limit, offset int) (*TablePage, error) {
	q := url.Values{}
	q.Set("table", table)
	q.Set("schema", schema)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp struct {
		envelope
		Data       []result.Row `json:"data"`
		TotalCount int          `json:"total_count"`
		Limit      int          `json:"limit"`
		Offset     int          `json:"offset"`
	}
	if err := c.do(ctx, "/browser/table/data", q, nil, &resp); err != nil {
		return nil, err
	}

	return &TablePage{
		Rows:       resp.Data,
		TotalCount: resp.TotalCount,
		Limit:      resp.Limit,
		Offset:     resp.Offset,
	}, nil
}
