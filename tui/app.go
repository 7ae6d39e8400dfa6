// app.go is the top-level Bubble Tea model that orchestrates all panels.
//
// Flow:
//  1. The prompt bar submits natural-language prompts → generation panel
//  2. `e` executes the generated statement → execution panel
//  3. `s` / `b` / `t` open the schema overview, the table browser,
//     and the connection test
//
// Key design decisions:
//   - Exactly one foreground panel at a time; panel data survives
//     switches (switching away never destroys another panel's state).
//   - One in-flight call per action slot: every call captures a
//     sequence number, and a response whose sequence was superseded
//     is dropped without touching any state.
//   - The busy spinner is reference-counted across slots: visible
//     while any call is outstanding, hidden when the count is zero.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/applog"
	"github.com/perbergman/sql-gpt/config"
	"github.com/perbergman/sql-gpt/result"
)

const appVersion = "0.1.0"

// Panel enumerates the mutually exclusive foreground panels.
type Panel int

const (
	PanelNone Panel = iota
	PanelGeneration
	PanelExecution
	PanelSchema
	PanelBrowser
)

// Focus targets for keyboard input.
const (
	focusPrompt = iota
	focusSidebar // browser table list; only reachable in the browser panel
	focusContent
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	cfg    config.Config

	width  int
	height int
	focus  int

	// Prompt bar
	prompt textinput.Model

	// Busy indicator (reference-counted across slots)
	spin spinner.Model
	busy int

	// Per-slot sequence counters for stale-response discard
	seq [slotCount]int

	panel Panel

	// Generation panel
	gen   *api.GenerationResult
	vpGen *Viewport

	// Execution panel
	outcome   *result.Outcome
	queryType string
	vpExec    *Viewport

	// Schema panel
	schema   *api.SchemaSnapshot
	vpSchema *Viewport

	// Table browser
	browser   browserState
	vpBrowser *Viewport

	// Transient notification line, cleared on the next keypress
	notice      string
	noticeStyle lipgloss.Style
}

// NewApp creates the application model.
func NewApp(client *api.Client, cfg config.Config) *App {
	prompt := textinput.New()
	prompt.Placeholder = "Describe the SQL you need, e.g. \"list all users\""
	prompt.Prompt = StylePrompt.Render("❯ ")
	prompt.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = StyleInfo

	return &App{
		client:    client,
		cfg:       cfg,
		prompt:    prompt,
		spin:      spin,
		vpGen:     NewViewport(80, 20),
		vpExec:    NewViewport(80, 20),
		vpSchema:  NewViewport(80, 20),
		vpBrowser: NewViewport(80, 20),
		browser:   newBrowserState(cfg.PageLimit),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.busy > 0 {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case GenerationMsg:
		if !a.arrived(slotGenerate, msg.Seq) {
			return a, nil
		}
		if msg.Err != nil {
			// Prior generation panel stays untouched.
			a.fail("Error", msg.Err)
			return a, nil
		}
		a.gen = msg.Result
		a.panel = PanelGeneration
		a.vpGen.SetContentLines(a.renderGenerationLines())
		if missing := msg.Result.MissingFields(); len(missing) > 0 {
			a.notifyStyled("Warning", "Response is missing some fields: "+strings.Join(missing, ", "), StyleWarning)
		}
		return a, nil

	case ExecutionMsg:
		if !a.arrived(slotExecute, msg.Seq) {
			return a, nil
		}
		if msg.Err != nil {
			// Prior execution outcome stays untouched.
			a.fail("Execution Error", msg.Err)
			return a, nil
		}
		outcome := msg.Outcome
		a.outcome = &outcome
		a.queryType = msg.QueryType
		a.panel = PanelExecution
		a.vpExec.SetContentLines(a.renderExecutionLines())
		return a, nil

	case ConnTestMsg:
		if !a.arrived(slotTestConn, msg.Seq) {
			return a, nil
		}
		if msg.Err != nil {
			a.fail("Connection Test Failed", msg.Err)
			return a, nil
		}
		a.notifyStyled("Connection Test", msg.Message, StyleSuccess)
		return a, nil

	case SchemaMsg:
		if !a.arrived(slotSchema, msg.Seq) {
			return a, nil
		}
		if msg.Err != nil {
			a.fail("Error", msg.Err)
			return a, nil
		}
		a.schema = msg.Snapshot
		a.panel = PanelSchema
		a.vpSchema.SetContentLines(a.renderSchemaLines())
		return a, nil

	case TablesMsg:
		if !a.arrived(slotTables, msg.Seq) {
			return a, nil
		}
		a.applyTables(msg)
		return a, nil

	case StructureMsg:
		if !a.arrived(slotStructure, msg.Seq) {
			return a, nil
		}
		a.applyStructure(msg)
		return a, nil

	case PageMsg:
		if !a.arrived(slotData, msg.Seq) {
			return a, nil
		}
		a.applyPage(msg)
		return a, nil
	}

	return a, nil
}

// issue reserves the slot for a new call: the sequence is bumped so
// any response still in flight for this slot becomes stale.
func (a *App) issue(s slot, run func(seq int) tea.Msg) tea.Cmd {
	a.seq[s]++
	seq := a.seq[s]
	a.busy++

	cmd := func() tea.Msg { return run(seq) }
	if a.busy == 1 {
		return tea.Batch(cmd, a.spin.Tick)
	}
	return cmd
}

// arrived records a response for a slot and reports whether it is
// still current. Stale responses still decrement the busy count.
func (a *App) arrived(s slot, seq int) bool {
	if a.busy > 0 {
		a.busy--
	}
	if seq != a.seq[s] {
		applog.Event("STALE", "discarded superseded response for slot %d (seq %d, current %d)", s, seq, a.seq[s])
		return false
	}
	return true
}

func (a *App) notify(title, message string) {
	a.notifyStyled(title, message, StyleNormal)
}

func (a *App) notifyStyled(title, message string, style lipgloss.Style) {
	a.notice = StyleBold.Render(title+": ") + style.Render(message)
	applog.Event("NOTIFY", "%s: %s", title, message)
}

// fail surfaces a Failure as a notification; diagnostic detail goes
// to the log only.
func (a *App) fail(title string, err error) {
	f := api.AsFailure(err)
	a.notifyStyled(title, f.Message, StyleError)
	if f.Details != "" {
		applog.Error("%s: %s (%s)", title, f.Message, f.Details)
	} else {
		applog.Error("%s: %s", title, f.Message)
	}
}

// ─── Key handling ───────────────────────────────────────────

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "tab":
		a.cycleFocus()
		return a, nil
	}

	if a.focus == focusPrompt {
		switch msg.String() {
		case "enter":
			return a, a.submitPrompt()
		case "esc":
			a.focus = focusContent
			return a, nil
		}
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return a, cmd
	}

	// Global action keys (content / sidebar focus)
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "e":
		return a, a.executeStatement()
	case "t":
		return a, a.testConnection()
	case "s":
		return a, a.fetchSchema()
	case "b":
		return a.toggleBrowser()
	}

	if a.panel == PanelBrowser {
		return a.handleBrowserKey(msg)
	}

	if msg.String() == "x" && a.panel == PanelExecution {
		return a.exportExecution()
	}

	a.handleScrollKey(msg, a.activeViewport())
	return a, nil
}

func (a *App) cycleFocus() {
	if a.panel == PanelBrowser {
		a.focus = (a.focus + 1) % 3
	} else {
		if a.focus == focusPrompt {
			a.focus = focusContent
		} else {
			a.focus = focusPrompt
		}
	}
	if a.focus == focusPrompt {
		a.prompt.Focus()
	} else {
		a.prompt.Blur()
	}
}

// handleScrollKey forwards navigation keys to a viewport.
func (a *App) handleScrollKey(msg tea.KeyMsg, vp *Viewport) {
	if vp == nil {
		return
	}
	switch msg.String() {
	case "up", "k":
		vp.ScrollUp(1)
	case "down", "j":
		vp.ScrollDown(1)
	case "left", "h":
		vp.ScrollLeft(4)
	case "right", "l":
		vp.ScrollRight(4)
	case "pgup":
		vp.PageUp()
	case "pgdown":
		vp.PageDown()
	case "home":
		vp.Home()
	case "end":
		vp.End()
	}
}

func (a *App) activeViewport() *Viewport {
	switch a.panel {
	case PanelGeneration:
		return a.vpGen
	case PanelExecution:
		return a.vpExec
	case PanelSchema:
		return a.vpSchema
	case PanelBrowser:
		return a.vpBrowser
	}
	return nil
}

// ─── Action commands ────────────────────────────────────────

// submitPrompt issues a generation call. An empty prompt is a local
// precondition failure and never reaches the network.
func (a *App) submitPrompt() tea.Cmd {
	prompt := strings.TrimSpace(a.prompt.Value())
	if prompt == "" {
		a.fail("Error", api.Precondition("Please enter a prompt."))
		return nil
	}

	applog.Event("GENERATE", "prompt: %s", prompt)
	return a.issue(slotGenerate, func(seq int) tea.Msg {
		res, err := a.client.GeneratePlan(context.Background(), prompt)
		return GenerationMsg{Seq: seq, Result: res, Err: err}
	})
}

func (a *App) testConnection() tea.Cmd {
	return a.issue(slotTestConn, func(seq int) tea.Msg {
		message, err := a.client.TestConnection(context.Background())
		return ConnTestMsg{Seq: seq, Message: message, Err: err}
	})
}

func (a *App) fetchSchema() tea.Cmd {
	return a.issue(slotSchema, func(seq int) tea.Msg {
		snap, err := a.client.Schema(context.Background())
		return SchemaMsg{Seq: seq, Snapshot: snap, Err: err}
	})
}

// ─── Layout ─────────────────────────────────────────────────

func (a *App) contentSize() (int, int) {
	// header(1) + prompt(1) + border(2) + status(1) = 5 lines of chrome
	w := a.width - 4
	h := a.height - 5
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

func (a *App) resize() {
	w, h := a.contentSize()
	a.prompt.Width = a.width - 8
	a.vpGen.SetSize(w, h-1)
	a.vpExec.SetSize(w, h-1)
	a.vpSchema.SetSize(w, h-1)
	a.vpBrowser.SetSize(w-a.sidebarWidth()-1, h-1)
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	header := a.renderHeader()
	promptBar := a.renderPromptBar()

	var content string
	switch a.panel {
	case PanelGeneration:
		content = a.vpGen.Render()
	case PanelExecution:
		content = a.vpExec.Render()
	case PanelSchema:
		content = a.vpSchema.Render()
	case PanelBrowser:
		content = a.renderBrowser()
	default:
		content = a.renderWelcome()
	}

	w, h := a.contentSize()
	frame := StyleBorder.Width(w + 2).Height(h).Render(content)

	statusBar := a.renderStatusBar()

	return header + "\n" + promptBar + "\n" + frame + "\n" + statusBar
}

func (a *App) renderHeader() string {
	logo := StyleBold.Render("⚡ sqlgpt")
	version := StyleDimmed.Render(" v" + appVersion)
	server := StyleSuccess.Render("  ⇄ " + a.client.BaseURL())

	content := logo + version + server

	right := StyleDimmed.Render(panelLabel(a.panel))
	gap := a.width - lipgloss.Width(content) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return content + strings.Repeat(" ", gap) + right
}

func panelLabel(p Panel) string {
	switch p {
	case PanelGeneration:
		return "Generation Results"
	case PanelExecution:
		return "Execution Results"
	case PanelSchema:
		return "Schema"
	case PanelBrowser:
		return "Table Browser"
	}
	return ""
}

func (a *App) renderPromptBar() string {
	marker := "  "
	if a.focus == focusPrompt {
		marker = StyleListItemActive.Render("● ")
	}
	return marker + a.prompt.View()
}

func (a *App) renderWelcome() string {
	lines := []string{
		"",
		StyleTitle.Render("  Welcome to sqlgpt"),
		"",
		StyleDimmed.Render("  Type a prompt above and press Enter to generate SQL."),
		"",
		"  " + StyleHelpKey.Render("e") + StyleHelpDesc.Render(" execute generated SQL") +
			"   " + StyleHelpKey.Render("s") + StyleHelpDesc.Render(" schema") +
			"   " + StyleHelpKey.Render("b") + StyleHelpDesc.Render(" table browser"),
		"  " + StyleHelpKey.Render("t") + StyleHelpDesc.Render(" test connection") +
			"       " + StyleHelpKey.Render("q") + StyleHelpDesc.Render(" quit"),
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderStatusBar() string {
	var content string

	switch {
	case a.notice != "":
		content = a.notice
	default:
		var parts []string
		for _, h := range a.helpItems() {
			parts = append(parts, StyleHelpKey.Render(h.key)+" "+StyleHelpDesc.Render(h.desc))
		}
		content = strings.Join(parts, "  │  ")
	}

	if a.busy > 0 {
		content = a.spin.View() + " " + content
	}

	return StyleStatusBar.Width(a.width).Render(content)
}

type helpItem struct {
	key  string
	desc string
}

func (a *App) helpItems() []helpItem {
	global := []helpItem{
		{"Tab", "focus"},
		{"Ctrl+C", "quit"},
	}

	switch a.panel {
	case PanelGeneration:
		return append([]helpItem{
			{"e", "execute"},
			{"↑/↓", "scroll"},
		}, global...)
	case PanelExecution:
		items := []helpItem{{"↑/↓", "scroll"}}
		if a.outcome != nil && a.outcome.Kind == result.OutcomeRowset {
			items = append([]helpItem{{"x", "export CSV"}}, items...)
		}
		return append(items, global...)
	case PanelSchema:
		return append([]helpItem{{"↑/↓", "scroll"}}, global...)
	case PanelBrowser:
		return append(a.browserHelpItems(), global...)
	}
	return append([]helpItem{
		{"Enter", "generate"},
		{"s", "schema"},
		{"b", "browser"},
		{"t", "test connection"},
	}, global...)
}
