package tui

import (
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/config"
	"github.com/perbergman/sql-gpt/result"
)

// newTestApp builds an App whose client points at a dead address;
// tests inject result messages directly and never run the returned
// commands.
func newTestApp() *App {
	app := NewApp(api.New("http://127.0.0.1:1"), config.Default())
	app.width, app.height = 100, 30
	app.resize()
	return app
}

// pending reserves a slot the way an action command would, without
// dialing the network, and returns the sequence the response would
// carry.
func pending(a *App, s slot) int {
	a.issue(s, func(seq int) tea.Msg { return nil })
	return a.seq[s]
}

func TestGenerationSuccessShowsPanel(t *testing.T) {
	app := newTestApp()
	seq := pending(app, slotGenerate)

	app.Update(GenerationMsg{Seq: seq, Result: &api.GenerationResult{
		SQL:              "SELECT 1;",
		Intent:           json.RawMessage(`{"action":"select"}`),
		DeploymentScript: "SELECT 1;",
	}})

	assert.Equal(t, PanelGeneration, app.panel)
	require.NotNil(t, app.gen)
	assert.Equal(t, "SELECT 1;", app.gen.SQL)
	assert.Equal(t, 0, app.busy)
}

func TestGenerationFailureKeepsPriorPanel(t *testing.T) {
	app := newTestApp()

	seq := pending(app, slotGenerate)
	app.Update(GenerationMsg{Seq: seq, Result: &api.GenerationResult{SQL: "SELECT 1;"}})
	require.Equal(t, PanelGeneration, app.panel)

	seq = pending(app, slotGenerate)
	app.Update(GenerationMsg{Seq: seq, Err: api.Reported("model unavailable", "")})

	// Prior artifacts still on screen, failure is a notification.
	assert.Equal(t, PanelGeneration, app.panel)
	assert.Equal(t, "SELECT 1;", app.gen.SQL)
	assert.Contains(t, app.notice, "model unavailable")
}

func TestGenerationMissingFieldsWarns(t *testing.T) {
	app := newTestApp()
	seq := pending(app, slotGenerate)

	app.Update(GenerationMsg{Seq: seq, Result: &api.GenerationResult{SQL: "SELECT 1;"}})

	assert.Equal(t, PanelGeneration, app.panel)
	assert.Contains(t, app.notice, "intent")
	assert.Contains(t, app.notice, "deployment_script")
}

func TestEmptyExecutionIsNotAnError(t *testing.T) {
	app := newTestApp()
	seq := pending(app, slotExecute)

	outcome := result.Classify(json.RawMessage(`[]`))
	app.Update(ExecutionMsg{Seq: seq, Outcome: outcome, QueryType: "SELECT"})

	assert.Equal(t, PanelExecution, app.panel)
	require.NotNil(t, app.outcome)
	assert.Equal(t, result.OutcomeEmpty, app.outcome.Kind)
	assert.Empty(t, app.notice)
}

func TestExecutionFailureKeepsPriorOutcome(t *testing.T) {
	app := newTestApp()

	seq := pending(app, slotExecute)
	app.Update(ExecutionMsg{Seq: seq, Outcome: result.Classify(json.RawMessage(`[{"n":1}]`)), QueryType: "SELECT"})
	require.Equal(t, result.OutcomeRowset, app.outcome.Kind)

	seq = pending(app, slotExecute)
	app.Update(ExecutionMsg{Seq: seq, Err: api.Reported("syntax error at or near \"FORM\"", "")})

	assert.Equal(t, result.OutcomeRowset, app.outcome.Kind)
	assert.Contains(t, app.notice, "syntax error")
}

func TestStaleResponseDiscarded(t *testing.T) {
	app := newTestApp()

	first := pending(app, slotTables)
	second := pending(app, slotTables)
	require.NotEqual(t, first, second)

	app.Update(TablesMsg{Seq: first, Tables: []api.TableInfo{{Name: "old", Schema: "public"}}})
	assert.Nil(t, app.browser.tables, "superseded response must not touch state")
	assert.Equal(t, 1, app.busy)

	app.Update(TablesMsg{Seq: second, Tables: []api.TableInfo{{Name: "fresh", Schema: "public"}}})
	require.Len(t, app.browser.tables, 1)
	assert.Equal(t, "fresh", app.browser.tables[0].Name)
	assert.Equal(t, 0, app.busy)
}

func TestStaleErrorStillDecrementsBusy(t *testing.T) {
	app := newTestApp()

	first := pending(app, slotSchema)
	pending(app, slotSchema)
	require.Equal(t, 2, app.busy)

	app.Update(SchemaMsg{Seq: first, Err: api.Precondition("boom")})
	assert.Equal(t, 1, app.busy)
	assert.Empty(t, app.notice, "stale failures are silent")
}

func TestBusySpansConcurrentSlots(t *testing.T) {
	app := newTestApp()

	seqGen := pending(app, slotGenerate)
	seqSchema := pending(app, slotSchema)
	assert.Equal(t, 2, app.busy)

	app.Update(SchemaMsg{Seq: seqSchema, Snapshot: &api.SchemaSnapshot{}})
	assert.Equal(t, 1, app.busy, "spinner stays up while another call is in flight")

	app.Update(GenerationMsg{Seq: seqGen, Result: &api.GenerationResult{SQL: "SELECT 1;"}})
	assert.Equal(t, 0, app.busy)
}

func TestEmptyPromptIsLocalFailure(t *testing.T) {
	app := newTestApp()
	app.prompt.SetValue("   ")

	cmd := app.submitPrompt()

	assert.Nil(t, cmd, "no request may be issued")
	assert.Equal(t, 0, app.busy)
	assert.Contains(t, app.notice, "Please enter a prompt.")
}

func TestExecuteWithoutGeneratedSQL(t *testing.T) {
	app := newTestApp()

	cmd := app.executeStatement()

	assert.Nil(t, cmd)
	assert.Contains(t, app.notice, "No SQL query to execute.")
}

func TestTablesSortedBySchemaThenName(t *testing.T) {
	app := newTestApp()
	seq := pending(app, slotTables)

	app.Update(TablesMsg{Seq: seq, Tables: []api.TableInfo{
		{Schema: "public", Name: "users"},
		{Schema: "audit", Name: "events"},
		{Schema: "public", Name: "orders"},
	}})

	require.Len(t, app.browser.tables, 3)
	assert.Equal(t, "events", app.browser.tables[0].Name)
	assert.Equal(t, "orders", app.browser.tables[1].Name)
	assert.Equal(t, "users", app.browser.tables[2].Name)
}

func TestTablesFailureShowsFallback(t *testing.T) {
	app := newTestApp()
	seq := pending(app, slotTables)

	app.Update(TablesMsg{Seq: seq, Err: api.TransportStatus(502, "")})

	assert.Equal(t, "Failed to load tables", app.browser.tablesMsg)
	assert.Contains(t, app.notice, "HTTP 502")
}

func TestPageMsgFoldsIntoTracker(t *testing.T) {
	app := newTestApp()
	app.browser.sel = &selection{Table: "users", Schema: "public"}
	app.browser.sub = subData
	seq := pending(app, slotData)

	var row result.Row
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1}`), &row))
	app.Update(PageMsg{Seq: seq, Page: &api.TablePage{
		Rows:       []result.Row{row},
		TotalCount: 1,
		Limit:      100,
		Offset:     0,
	}})

	assert.Len(t, app.browser.rows, 1)
	assert.False(t, app.browser.page.CanAdvance())
	assert.Equal(t, "Showing 1 to 1 of 1 rows", app.browser.page.RangeLabel())
}

func TestCloseBrowserResetsState(t *testing.T) {
	app := newTestApp()
	app.panel = PanelBrowser
	app.focus = focusSidebar
	app.browser.sel = &selection{Table: "users", Schema: "public"}
	app.browser.page = app.browser.page.Applied(50, 120, 50, 50)

	app.closeBrowser()

	assert.Equal(t, PanelNone, app.panel)
	assert.Nil(t, app.browser.sel)
	assert.Equal(t, 0, app.browser.page.Offset)
}
