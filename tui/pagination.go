// pagination.go tracks table-browser paging as a pure value type.
//
// The tracker trusts the server's echo of limit/offset over what was
// requested, and uses the actual number of rows returned, not the
// requested limit, to decide whether a next page exists, since the
// last page may come back short.
package tui

import "fmt"

// PageState holds the browser's pagination position. The zero value
// is unusable; start from NewPageState.
type PageState struct {
	Offset     int
	Limit      int
	TotalCount int

	// rows actually returned for the current page; authoritative
	// only after Applied.
	pageLen int
}

// NewPageState returns a fresh state at offset 0 with the given
// page size.
func NewPageState(limit int) PageState {
	return PageState{Limit: limit}
}

// CanRetreat reports whether a previous page exists.
func (p PageState) CanRetreat() bool {
	return p.Offset > 0
}

// CanAdvance reports whether a next page exists.
func (p PageState) CanAdvance() bool {
	return p.Offset+p.pageLen < p.TotalCount
}

// Advanced returns the state moved one page forward. Callers must
// check CanAdvance first; an un-advanceable state is returned
// unchanged.
func (p PageState) Advanced() PageState {
	if !p.CanAdvance() {
		return p
	}
	p.Offset += p.Limit
	return p
}

// Retreated returns the state moved one page back, clamped at 0.
func (p PageState) Retreated() PageState {
	p.Offset -= p.Limit
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// WithLimit returns a fresh state for a new page size. Changing the
// limit always restarts from the first page.
func (p PageState) WithLimit(limit int) PageState {
	return NewPageState(limit)
}

// Applied folds in a successful fetch. limit and offset echo what
// the server actually used.
func (p PageState) Applied(dataLen, totalCount, limit, offset int) PageState {
	return PageState{
		Offset:     offset,
		Limit:      limit,
		TotalCount: totalCount,
		pageLen:    dataLen,
	}
}

// RangeLabel renders the "Showing X to Y of Z rows" line.
func (p PageState) RangeLabel() string {
	if p.pageLen == 0 {
		return "No data"
	}
	end := p.Offset + p.pageLen
	if end > p.TotalCount {
		end = p.TotalCount
	}
	return fmt.Sprintf("Showing %d to %d of %d rows", p.Offset+1, end, p.TotalCount)
}
