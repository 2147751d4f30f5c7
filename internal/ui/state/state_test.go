package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overpass/internal/domain"
)

func TestInitialState(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := NewAppState(now, 7)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), s.UserParams.DateRange.Start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), s.UserParams.DateRange.End)
	assert.Nil(t, s.UserParams.BBox)
	assert.Empty(t, s.HoveredID)
	assert.Empty(t, s.SelectedID)
	assert.False(t, s.FiltersOpen)
}

func TestConfiguredWindowSetsInitialRange(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := NewAppState(now, 3)

	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), s.UserParams.DateRange.End)
}

func TestSetHoveredTouchesNothingElse(t *testing.T) {
	s := NewAppState(time.Now(), 7)
	s.Opportunities = []domain.Opportunity{{ID: "opp-1"}}
	before := *s

	s.SetHovered("opp-1")

	assert.Equal(t, "opp-1", s.HoveredID)

	// Everything except the hovered field is untouched
	after := *s
	after.HoveredID = before.HoveredID
	assert.Equal(t, before.Revision, after.Revision, "no derived recomputation may happen")
	assert.Equal(t, before.UserParams, after.UserParams)
	assert.Equal(t, before.SelectedID, after.SelectedID)
	assert.Equal(t, before.FiltersOpen, after.FiltersOpen)
}

func TestSetUserParamsBumpsRevision(t *testing.T) {
	s := NewAppState(time.Now(), 7)
	rev := s.Revision

	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	next := s.UserParams
	next.BBox = &bbox
	s.SetUserParams(next)

	assert.Equal(t, rev+1, s.Revision)
	require.NotNil(t, s.UserParams.BBox)
	assert.Equal(t, [4]float64{10, 20, 30, 40}, s.UserParams.BBox.Values())
}

func TestSearchResultDropsDanglingHover(t *testing.T) {
	s := NewAppState(time.Now(), 7)
	s.Opportunities = []domain.Opportunity{{ID: "old"}}
	s.SetHovered("old")
	s.SetSelected("old")

	s.SetOpportunitiesResult([]domain.Opportunity{{ID: "new"}}, nil)

	assert.Empty(t, s.HoveredID)
	assert.Empty(t, s.SelectedID)
	assert.Len(t, s.Opportunities, 1)
}

func TestSearchErrorKeepsLastData(t *testing.T) {
	s := NewAppState(time.Now(), 7)
	s.SetOpportunitiesResult([]domain.Opportunity{{ID: "opp-1"}}, nil)

	s.SetOpportunitiesResult(nil, assert.AnError)

	assert.Error(t, s.OpportunitiesErr)
	assert.Len(t, s.Opportunities, 1, "a failed refresh should not wipe results")
}

func TestClampCursorFollowsViewport(t *testing.T) {
	s := NewAppState(time.Now(), 7)
	s.ViewportHeight = 3
	for i := 0; i < 10; i++ {
		s.Opportunities = append(s.Opportunities, domain.Opportunity{ID: string(rune('a' + i))})
	}

	s.Cursor = 7
	s.ClampCursor()
	assert.Equal(t, 5, s.ViewportOffset)

	s.Cursor = 0
	s.ClampCursor()
	assert.Equal(t, 0, s.ViewportOffset)

	s.Cursor = 99
	s.ClampCursor()
	assert.Equal(t, 9, s.Cursor)
}
