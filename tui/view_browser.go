// view_browser.go implements the table browser panel.
//
// Layout mirrors the classic two-pane browser: a sidebar listing
// tables grouped by schema, and a content pane showing either the
// selected table's structure or a page of its data.
//
// State rules:
//   - Selection and page position survive switches to other panels,
//     but closing the browser resets everything.
//   - Selecting a table or changing the page size restarts paging
//     at offset 0; toggling Structure ⇄ Data does not.
//   - The list, structure, and data panes are cleared before each
//     fetch and show a fallback message when the fetch fails.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/result"
)

// browserSub selects the content pane inside the browser.
type browserSub int

const (
	subStructure browserSub = iota
	subData
)

// selection names the table the browser is focused on.
type selection struct {
	Table  string
	Schema string
}

// pageLimits are the selectable rows-per-page values.
var pageLimits = []int{10, 50, 100, 500}

// browserState bundles everything the browser panel owns.
type browserState struct {
	tables    []api.TableInfo
	tablesMsg string // fallback text when the list is empty or failed
	cursor    int

	sel *selection
	sub browserSub

	columns   []api.ColumnInfo
	structMsg string

	rows    []result.Row
	dataMsg string
	page    PageState
}

func newBrowserState(limit int) browserState {
	return browserState{page: NewPageState(limit)}
}

// ─── Actions ────────────────────────────────────────────────

// toggleBrowser opens the browser (fresh state, table list fetch) or
// closes it, discarding selection and page position.
func (a *App) toggleBrowser() (tea.Model, tea.Cmd) {
	if a.panel == PanelBrowser {
		a.closeBrowser()
		return a, nil
	}

	a.browser = newBrowserState(a.cfg.PageLimit)
	a.panel = PanelBrowser
	a.focus = focusSidebar
	a.prompt.Blur()
	a.refreshBrowserContent()
	return a, a.loadTables()
}

func (a *App) closeBrowser() {
	a.browser = newBrowserState(a.cfg.PageLimit)
	a.panel = PanelNone
	if a.focus == focusSidebar {
		a.focus = focusContent
	}
}

// loadTables clears the list pane and fetches the table list.
func (a *App) loadTables() tea.Cmd {
	a.browser.tables = nil
	a.browser.tablesMsg = "Loading tables..."

	return a.issue(slotTables, func(seq int) tea.Msg {
		tables, err := a.client.Tables(context.Background())
		return TablesMsg{Seq: seq, Tables: tables, Err: err}
	})
}

func (a *App) applyTables(msg TablesMsg) {
	if msg.Err != nil {
		a.browser.tablesMsg = "Failed to load tables"
		a.fail("Error", msg.Err)
		return
	}

	tables := append([]api.TableInfo(nil), msg.Tables...)
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Schema != tables[j].Schema {
			return tables[i].Schema < tables[j].Schema
		}
		return tables[i].Name < tables[j].Name
	})

	a.browser.tables = tables
	if len(tables) == 0 {
		a.browser.tablesMsg = "No tables found"
	} else {
		a.browser.tablesMsg = ""
	}
	if a.browser.cursor >= len(tables) {
		a.browser.cursor = 0
	}
}

// selectTable picks the table under the cursor: paging restarts at
// offset 0 and the structure pane loads first, like the original
// browser.
func (a *App) selectTable() tea.Cmd {
	if len(a.browser.tables) == 0 {
		return nil
	}
	t := a.browser.tables[a.browser.cursor]
	a.browser.sel = &selection{Table: t.Name, Schema: t.Schema}
	a.browser.sub = subStructure
	a.browser.page = NewPageState(a.browser.page.Limit)
	a.browser.rows = nil
	a.browser.dataMsg = ""
	return a.loadStructure()
}

// loadStructure clears the structure pane and fetches columns for
// the selected table.
func (a *App) loadStructure() tea.Cmd {
	sel := a.browser.sel
	if sel == nil {
		return nil
	}
	a.browser.columns = nil
	a.browser.structMsg = "Loading structure..."
	a.refreshBrowserContent()

	table, schema := sel.Table, sel.Schema
	return a.issue(slotStructure, func(seq int) tea.Msg {
		cols, err := a.client.TableStructure(context.Background(), table, schema)
		return StructureMsg{Seq: seq, Columns: cols, Err: err}
	})
}

func (a *App) applyStructure(msg StructureMsg) {
	if msg.Err != nil {
		a.browser.structMsg = "Failed to load table structure"
		a.fail("Error", msg.Err)
		a.refreshBrowserContent()
		return
	}
	a.browser.columns = msg.Columns
	if len(msg.Columns) == 0 {
		a.browser.structMsg = "No columns found"
	} else {
		a.browser.structMsg = ""
	}
	a.refreshBrowserContent()
}

// loadData clears the data pane and fetches the page at the current
// tracker position.
func (a *App) loadData() tea.Cmd {
	sel := a.browser.sel
	if sel == nil {
		return nil
	}
	a.browser.rows = nil
	a.browser.dataMsg = "Loading data..."
	a.refreshBrowserContent()

	table, schema := sel.Table, sel.Schema
	limit, offset := a.browser.page.Limit, a.browser.page.Offset
	return a.issue(slotData, func(seq int) tea.Msg {
		page, err := a.client.TableData(context.Background(), table, schema, limit, offset)
		return PageMsg{Seq: seq, Page: page, Err: err}
	})
}

func (a *App) applyPage(msg PageMsg) {
	if msg.Err != nil {
		a.browser.dataMsg = "Failed to load table data"
		a.fail("Error", msg.Err)
		a.refreshBrowserContent()
		return
	}

	p := msg.Page
	a.browser.rows = p.Rows
	a.browser.page = a.browser.page.Applied(len(p.Rows), p.TotalCount, p.Limit, p.Offset)
	if len(p.Rows) == 0 {
		a.browser.dataMsg = "No data found"
	} else {
		a.browser.dataMsg = ""
	}
	a.refreshBrowserContent()
}

// toggleSub flips Structure ⇄ Data for the selected table. Without a
// selection this is a no-op.
func (a *App) toggleSub() tea.Cmd {
	if a.browser.sel == nil {
		return nil
	}
	if a.browser.sub == subStructure {
		a.browser.sub = subData
		return a.loadData()
	}
	a.browser.sub = subStructure
	return a.loadStructure()
}

// nextPage advances one page, rejected locally when the current page
// already reaches the total.
func (a *App) nextPage() tea.Cmd {
	if a.browser.sub != subData || !a.browser.page.CanAdvance() {
		return nil
	}
	a.browser.page = a.browser.page.Advanced()
	return a.loadData()
}

// prevPage retreats one page; a no-op at offset 0.
func (a *App) prevPage() tea.Cmd {
	if a.browser.sub != subData || !a.browser.page.CanRetreat() {
		return nil
	}
	a.browser.page = a.browser.page.Retreated()
	return a.loadData()
}

// cycleLimit steps to the next rows-per-page value and re-fetches
// from the first page.
func (a *App) cycleLimit() tea.Cmd {
	if a.browser.sub != subData || a.browser.sel == nil {
		return nil
	}

	next := pageLimits[0]
	for i, l := range pageLimits {
		if l == a.browser.page.Limit {
			next = pageLimits[(i+1)%len(pageLimits)]
			break
		}
	}
	a.browser.page = a.browser.page.WithLimit(next)
	return a.loadData()
}

// ─── Key handling ───────────────────────────────────────────

func (a *App) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeBrowser()
		return a, nil
	case "r":
		return a, a.loadTables()
	case "v":
		return a, a.toggleSub()
	case "n":
		return a, a.nextPage()
	case "p":
		return a, a.prevPage()
	case "+":
		return a, a.cycleLimit()
	case "x":
		if a.browser.sub == subData {
			a.exportRows(a.browser.rows)
		}
		return a, nil
	}

	if a.focus == focusSidebar {
		return a.handleSidebarKey(msg)
	}

	a.handleScrollKey(msg, a.vpBrowser)
	return a, nil
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.browser.cursor > 0 {
			a.browser.cursor--
		}
	case "down", "j":
		if a.browser.cursor < len(a.browser.tables)-1 {
			a.browser.cursor++
		}
	case "home":
		a.browser.cursor = 0
	case "end":
		if len(a.browser.tables) > 0 {
			a.browser.cursor = len(a.browser.tables) - 1
		}
	case "enter":
		return a, a.selectTable()
	}
	return a, nil
}

func (a *App) browserHelpItems() []helpItem {
	if a.focus == focusSidebar {
		return []helpItem{
			{"↑/↓", "navigate"},
			{"Enter", "select table"},
			{"r", "refresh"},
			{"Esc", "close"},
		}
	}
	items := []helpItem{{"v", "structure/data"}}
	if a.browser.sub == subData {
		items = append(items,
			helpItem{"n/p", "next/prev page"},
			helpItem{"+", "page size"},
			helpItem{"x", "export CSV"},
		)
	}
	return append(items, helpItem{"Esc", "close"})
}

// ─── Rendering ──────────────────────────────────────────────

// refreshBrowserContent rebuilds the content viewport from the
// current sub-view state.
func (a *App) refreshBrowserContent() {
	a.vpBrowser.SetContentLines(a.browserContentLines())
}

func (a *App) browserContentLines() []string {
	if a.browser.sel == nil {
		return []string{StyleDimmed.Render("Select a table to view its structure and data")}
	}

	if a.browser.sub == subStructure {
		if len(a.browser.columns) == 0 {
			return []string{StyleDimmed.Render(a.browser.structMsg)}
		}
		return formatStructure(a.browser.columns)
	}

	if len(a.browser.rows) == 0 {
		return []string{StyleDimmed.Render(a.browser.dataMsg)}
	}
	return formatRowset(a.browser.rows)
}

func formatStructure(cols []api.ColumnInfo) []string {
	headers := []string{"Column", "Type", "Nullable", "Default", "PK"}
	cells := make([][]string, 0, len(cols))
	for _, c := range cols {
		def := ""
		if c.Default != nil {
			def = *c.Default
		}
		nullable := "No"
		if c.Nullable() {
			nullable = "Yes"
		}
		pk := "No"
		if c.IsPrimaryKey {
			pk = "Yes"
		}
		cells = append(cells, []string{c.Name, c.TypeLabel(), nullable, def, pk})
	}
	return formatTable(headers, cells)
}

func (a *App) sidebarWidth() int {
	w := a.width / 4
	if w < 24 {
		w = 24
	}
	return w
}

func (a *App) renderBrowser() string {
	_, h := a.contentSize()
	sidebarW := a.sidebarWidth()

	sidebar := a.renderSidebar(sidebarW, h)
	content := a.renderBrowserContent()

	divider := StyleDimmed.Render(strings.Repeat("│\n", h-1) + "│")

	out := make([]string, 0, h)
	sidebarLines := strings.Split(sidebar, "\n")
	dividerLines := strings.Split(divider, "\n")
	contentLines := strings.Split(content, "\n")
	for i := 0; i < h; i++ {
		out = append(out, line(sidebarLines, i)+line(dividerLines, i)+" "+line(contentLines, i))
	}
	return strings.Join(out, "\n")
}

func line(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func (a *App) renderSidebar(width, height int) string {
	marker := "  "
	if a.focus == focusSidebar {
		marker = StyleListItemActive.Render("● ")
	}

	lines := []string{marker + StyleBold.Render("Tables")}

	if len(a.browser.tables) == 0 {
		lines = append(lines, StyleDimmed.Render(" "+a.browser.tablesMsg))
	} else {
		lines = append(lines, a.sidebarEntries(width, height-1)...)
	}

	// Pad and clamp to the pane size
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	for i, l := range lines {
		lines[i] = padLine(l, width)
	}
	return strings.Join(lines, "\n")
}

// sidebarEntries renders the visible window of the table list,
// grouped by schema, keeping the cursor centered.
func (a *App) sidebarEntries(width, height int) []string {
	tables := a.browser.tables

	start := 0
	if a.browser.cursor > height/2 {
		start = a.browser.cursor - height/2
	}
	end := start + height
	if end > len(tables) {
		end = len(tables)
	}

	var lines []string
	prevSchema := ""
	if start > 0 {
		prevSchema = tables[start-1].Schema
	}

	for i := start; i < end; i++ {
		t := tables[i]
		if t.Schema != prevSchema {
			lines = append(lines, StyleDimmed.Render(" "+t.Schema))
			prevSchema = t.Schema
		}

		label := fmt.Sprintf("%s (%d)", t.Name, t.ColumnCount)
		if len(label) > width-4 {
			label = label[:width-5] + "…"
		}

		switch {
		case i == a.browser.cursor && a.focus == focusSidebar:
			lines = append(lines, StyleListItemActive.Render("  ▸ "+label))
		case i == a.browser.cursor:
			lines = append(lines, StyleDimmed.Render("  ▸ "+label))
		default:
			lines = append(lines, "    "+label)
		}
	}
	return lines
}

func (a *App) renderBrowserContent() string {
	title := StyleDimmed.Render("(no table selected)")
	if sel := a.browser.sel; sel != nil {
		structTab, dataTab := StyleBold.Render("Structure"), StyleDimmed.Render("Data")
		if a.browser.sub == subData {
			structTab, dataTab = StyleDimmed.Render("Structure"), StyleBold.Render("Data")
		}
		title = StyleTitle.Render(sel.Schema+"."+sel.Table) + "  " + structTab + " / " + dataTab
		if a.browser.sub == subData {
			title += "  " + StyleDimmed.Render(a.browser.page.RangeLabel())
		}
	}

	return title + "\n" + a.vpBrowser.Render()
}

func padLine(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
