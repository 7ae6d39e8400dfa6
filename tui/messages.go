// messages.go defines Bubble Tea messages used for async communication.
//
// Every server action sends its result back to the UI via one of
// these message types, so the UI never blocks. Each message carries
// the sequence number of the call that produced it: the App keeps a
// counter per action slot and silently discards responses whose
// sequence no longer matches (a newer call for that slot replaced
// them).
package tui

import (
	"github.com/perbergman/sql-gpt/api"
	"github.com/perbergman/sql-gpt/result"
)

// slot identifies an independent in-flight channel. One slot holds
// at most one accepted call; responses across slots may interleave
// freely.
type slot int

const (
	slotGenerate slot = iota
	slotExecute
	slotTestConn
	slotSchema
	slotTables
	slotStructure
	slotData
	slotCount
)

// GenerationMsg is sent when a prompt-generation call completes.
type GenerationMsg struct {
	Seq    int
	Result *api.GenerationResult
	Err    error
}

// ExecutionMsg is sent when statement execution completes. The raw
// result payload is already classified.
type ExecutionMsg struct {
	Seq       int
	Outcome   result.Outcome
	QueryType string
	Err       error
}

// ConnTestMsg is sent when a connection test completes.
type ConnTestMsg struct {
	Seq     int
	Message string
	Err     error
}

// SchemaMsg is sent when the schema overview arrives.
type SchemaMsg struct {
	Seq      int
	Snapshot *api.SchemaSnapshot
	Err      error
}

// TablesMsg is sent when the browser table list arrives.
type TablesMsg struct {
	Seq    int
	Tables []api.TableInfo
	Err    error
}

// StructureMsg is sent when a table structure arrives.
type StructureMsg struct {
	Seq     int
	Columns []api.ColumnInfo
	Err     error
}

// PageMsg is sent when a page of table data arrives.
type PageMsg struct {
	Seq  int
	Page *api.TablePage
	Err  error
}
