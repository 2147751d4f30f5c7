package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overpass/internal/domain"
)

func dateRange(start, end string) domain.DateRange {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return domain.DateRange{Start: s, End: e}
}

func TestFormatWithoutBBoxIsNil(t *testing.T) {
	sel := domain.SearchSelection{DateRange: dateRange("2024-01-01", "2024-01-08")}
	assert.Nil(t, Format(sel))
}

func TestFormatPreservesBBoxOrderAndInterval(t *testing.T) {
	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	sel := domain.SearchSelection{
		DateRange: dateRange("2024-01-01", "2024-01-08"),
		BBox:      &bbox,
	}

	q := Format(sel)
	require.NotNil(t, q)
	assert.Equal(t, [4]float64{10, 20, 30, 40}, q.BBox)
	assert.Equal(t, "2024-01-01T00:00:00Z/2024-01-08T00:00:00Z", q.Datetime)
}

func TestFormatNewDateRangeKeepsBBox(t *testing.T) {
	bbox, err := domain.NewBoundingBox([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	first := Format(domain.SearchSelection{
		DateRange: dateRange("2024-01-01", "2024-01-08"),
		BBox:      &bbox,
	})
	second := Format(domain.SearchSelection{
		DateRange: dateRange("2024-02-01", "2024-02-15"),
		BBox:      &bbox,
	})

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.BBox, second.BBox)
	assert.NotEqual(t, first.Datetime, second.Datetime)
	assert.Equal(t, "2024-02-01T00:00:00Z/2024-02-15T00:00:00Z", second.Datetime)
}

func TestDeriverMemoizesUnchangedSelection(t *testing.T) {
	bbox, err := domain.NewBoundingBox([]float64{-10, -5, 10, 5})
	require.NoError(t, err)

	sel := domain.SearchSelection{
		DateRange: dateRange("2024-03-01", "2024-03-08"),
		BBox:      &bbox,
	}

	d := NewDeriver()
	first := d.Derive(sel)
	second := d.Derive(sel)

	require.NotNil(t, first)
	assert.Same(t, first, second, "unchanged selection should return the cached query")

	// A changed range produces a fresh query
	sel.DateRange = dateRange("2024-03-01", "2024-03-09")
	third := d.Derive(sel)
	require.NotNil(t, third)
	assert.NotSame(t, first, third)
}

func TestDeriverNilStaysNil(t *testing.T) {
	d := NewDeriver()
	sel := domain.SearchSelection{DateRange: dateRange("2024-03-01", "2024-03-08")}

	assert.Nil(t, d.Derive(sel))
	assert.Nil(t, d.Derive(sel))
}

func TestDefaultSelectionWindow(t *testing.T) {
	now := time.Date(2026, 8, 24, 15, 30, 0, 0, time.UTC)
	sel := domain.DefaultSelection(now, 7)

	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), sel.DateRange.Start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), sel.DateRange.End)
	assert.Nil(t, sel.BBox)

	// Configured window lengths move the end date
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		domain.DefaultSelection(now, 14).DateRange.End)

	// Nonsense window lengths fall back to a week
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		domain.DefaultSelection(now, 0).DateRange.End)
}
