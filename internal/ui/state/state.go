package state

import (
	"time"

	"overpass/internal/domain"
)

// AppState contains all the application state shared across the UI. It is
// only ever mutated from the Bubble Tea update loop.
type AppState struct {
	// Search parameters owned by the user
	UserParams domain.SearchSelection
	Revision   int // bumped on every UserParams replacement

	// Transient UI state
	HoveredID   string // opportunity id under the cursor, "" when none
	SelectedID  string // explicitly selected opportunity, "" when none
	FiltersOpen bool

	// Request results mirrored from the search service
	Opportunities        []domain.Opportunity
	OpportunitiesLoading bool
	OpportunitiesErr     error
	Products             []domain.Product
	ProductsLoading      bool
	ProductsErr          error
	SearchCount          int // completed searches, shown in the status bar

	// List viewport
	Cursor         int
	ViewportOffset int
	ViewportHeight int

	// Popups and status
	ShowHelp      bool
	ShowInfo      bool
	ShowProducts  bool
	StatusMessage string
}

// NewAppState creates the initial application state: a window of
// windowDays starting today, no bbox, nothing hovered or selected.
func NewAppState(now time.Time, windowDays int) *AppState {
	return &AppState{
		UserParams:     domain.DefaultSelection(now, windowDays),
		ViewportHeight: 10,
	}
}

// SetUserParams replaces the search selection wholesale.
func (s *AppState) SetUserParams(next domain.SearchSelection) {
	s.UserParams = next
	s.Revision++
}

// SetHovered updates the hovered opportunity and nothing else.
func (s *AppState) SetHovered(id string) {
	s.HoveredID = id
}

// SetSelected updates the selected opportunity and nothing else.
func (s *AppState) SetSelected(id string) {
	s.SelectedID = id
}

// SetFiltersOpen toggles the filters panel flag.
func (s *AppState) SetFiltersOpen(open bool) {
	s.FiltersOpen = open
}

// SetOpportunitiesResult applies a search completion.
func (s *AppState) SetOpportunitiesResult(opps []domain.Opportunity, err error) {
	s.OpportunitiesLoading = false
	s.OpportunitiesErr = err
	if err != nil {
		return
	}
	s.Opportunities = opps
	s.SearchCount++

	// Drop hover/selection that no longer resolve
	if s.OpportunityByID(s.HoveredID) == nil {
		s.HoveredID = ""
	}
	if s.OpportunityByID(s.SelectedID) == nil {
		s.SelectedID = ""
	}
	s.ClampCursor()
}

// SetProductsResult applies the products fetch completion.
func (s *AppState) SetProductsResult(products []domain.Product, err error) {
	s.ProductsLoading = false
	s.ProductsErr = err
	if err != nil {
		return
	}
	s.Products = products
}

// OpportunityByID finds an opportunity in the current result set.
func (s *AppState) OpportunityByID(id string) *domain.Opportunity {
	if id == "" {
		return nil
	}
	for i := range s.Opportunities {
		if s.Opportunities[i].ID == id {
			return &s.Opportunities[i]
		}
	}
	return nil
}

// CursorOpportunity returns the opportunity under the cursor.
func (s *AppState) CursorOpportunity() *domain.Opportunity {
	if s.Cursor < 0 || s.Cursor >= len(s.Opportunities) {
		return nil
	}
	return &s.Opportunities[s.Cursor]
}

// ClampCursor keeps the cursor and viewport inside the result list.
func (s *AppState) ClampCursor() {
	if s.Cursor >= len(s.Opportunities) {
		s.Cursor = len(s.Opportunities) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.ViewportHeight <= 0 {
		return
	}
	if s.Cursor < s.ViewportOffset {
		s.ViewportOffset = s.Cursor
	}
	if s.Cursor >= s.ViewportOffset+s.ViewportHeight {
		s.ViewportOffset = s.Cursor - s.ViewportHeight + 1
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}
