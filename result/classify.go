// Package result turns the polymorphic `result` field of an execute
// response into a tagged variant the UI can switch on exhaustively.
//
// The server returns either a status message (string), a rowset
// (array of objects), or something else entirely; shape-sniffing is
// confined to Classify so the rest of the program only ever sees an
// Outcome.
package result

import (
	"bytes"
	"encoding/json"
	"strings"
)

// OutcomeKind tags the variant of an execution outcome.
type OutcomeKind int

const (
	// OutcomeScalar: a textual status message.
	OutcomeScalar OutcomeKind = iota
	// OutcomeRowset: one or more rows of tabular data.
	OutcomeRowset
	// OutcomeEmpty: no tabular data (empty rowset or non-result payload).
	OutcomeEmpty
)

// Outcome is the classified execution result.
type Outcome struct {
	Kind    OutcomeKind
	Message string // set for Scalar and Empty
	Rows    []Row  // set for Rowset
}

// Classify inspects a raw result payload and tags it. Rule order:
// textual payload wins, then sequences (empty vs rowset), then a
// generic "executed" fallback for anything else.
func Classify(raw json.RawMessage) Outcome {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Outcome{Kind: OutcomeEmpty, Message: "Query executed successfully."}
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return Outcome{Kind: OutcomeScalar, Message: text}
		}

	case '[':
		var rows []Row
		if err := json.Unmarshal(trimmed, &rows); err == nil {
			if len(rows) == 0 {
				return Outcome{Kind: OutcomeEmpty, Message: "Query executed successfully. No results returned."}
			}
			return Outcome{Kind: OutcomeRowset, Rows: rows}
		}
	}

	return Outcome{Kind: OutcomeEmpty, Message: "Query executed successfully."}
}

// Severity is a presentation hint for scalar messages. It never
// changes the outcome variant, only how the message is styled.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
)

// ScalarSeverity picks a display severity for a status message.
func ScalarSeverity(text string) Severity {
	switch {
	case strings.Contains(text, "already exists"):
		return SeverityWarning
	case strings.Contains(text, "successfully"):
		return SeveritySuccess
	default:
		return SeverityInfo
	}
}
