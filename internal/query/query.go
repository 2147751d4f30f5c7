// Package query turns the user's search selection into the request shape
// the opportunities API expects.
package query

import (
	"time"

	"overpass/internal/domain"
)

// DerivedQuery is the payload of an opportunities search request.
type DerivedQuery struct {
	BBox     [4]float64 `json:"bbox"`
	Datetime string     `json:"datetime"` // "<RFC3339>/<RFC3339>" interval
}

// Format is the pure mapping from a selection to a query. It returns nil
// when no bbox has been chosen, which signals that no request should be
// issued.
func Format(sel domain.SearchSelection) *DerivedQuery {
	if sel.BBox == nil {
		return nil
	}
	return &DerivedQuery{
		BBox:     sel.BBox.Values(),
		Datetime: FormatInterval(sel.DateRange),
	}
}

// FormatInterval renders a date range as a two-endpoint RFC3339 interval
// in UTC, e.g. "2024-01-01T00:00:00Z/2024-01-08T00:00:00Z".
func FormatInterval(r domain.DateRange) string {
	return r.Start.UTC().Format(time.RFC3339) + "/" + r.End.UTC().Format(time.RFC3339)
}

// Deriver memoizes Format on its last input. Re-deriving an unchanged
// selection returns the identical pointer, so callers can detect "nothing
// changed" with a pointer comparison.
type Deriver struct {
	lastSel  domain.SearchSelection
	lastOut  *DerivedQuery
	hasInput bool
}

// NewDeriver creates an empty deriver.
func NewDeriver() *Deriver {
	return &Deriver{}
}

// Derive returns the query for the selection, reusing the previous result
// when the selection is unchanged.
func (d *Deriver) Derive(sel domain.SearchSelection) *DerivedQuery {
	if d.hasInput && selectionEqual(d.lastSel, sel) {
		return d.lastOut
	}
	d.lastSel = sel
	d.lastOut = Format(sel)
	d.hasInput = true
	return d.lastOut
}

func selectionEqual(a, b domain.SearchSelection) bool {
	if !a.DateRange.Start.Equal(b.DateRange.Start) || !a.DateRange.End.Equal(b.DateRange.End) {
		return false
	}
	if (a.BBox == nil) != (b.BBox == nil) {
		return false
	}
	if a.BBox == nil {
		return true
	}
	return *a.BBox == *b.BBox
}
