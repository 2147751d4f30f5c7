package domain

import (
	"fmt"
	"time"
)

// BoundingBox is a geographic bounding box in lon/lat order:
// west, south, east, north.
type BoundingBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// NewBoundingBox builds a box from a four-element slice in minx,miny,maxx,maxy order.
func NewBoundingBox(vals []float64) (BoundingBox, error) {
	if len(vals) != 4 {
		return BoundingBox{}, fmt.Errorf("bbox needs 4 values, got %d", len(vals))
	}
	b := BoundingBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// Values returns the bounds in minx,miny,maxx,maxy order.
func (b BoundingBox) Values() [4]float64 {
	return [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
}

// Validate checks bound ordering and coordinate ranges.
func (b BoundingBox) Validate() error {
	if b.MinX > b.MaxX {
		return fmt.Errorf("bbox west %v > east %v", b.MinX, b.MaxX)
	}
	if b.MinY > b.MaxY {
		return fmt.Errorf("bbox south %v > north %v", b.MinY, b.MaxY)
	}
	if b.MinX < -180 || b.MaxX > 180 || b.MinY < -90 || b.MaxY > 90 {
		return fmt.Errorf("bbox out of lon/lat range: %v", b.Values())
	}
	return nil
}

// Contains reports whether the point lies inside the box (inclusive).
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Center returns the box midpoint.
func (b BoundingBox) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// DateRange is a closed time interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate checks interval ordering.
func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("date range end %s before start %s",
			r.End.Format("2006-01-02"), r.Start.Format("2006-01-02"))
	}
	return nil
}

// SearchSelection holds the user-chosen search parameters. The bbox is
// optional; no search is issued until one has been chosen.
type SearchSelection struct {
	DateRange DateRange
	BBox      *BoundingBox
}

// DefaultSelection returns the initial selection: today through today plus
// windowDays at UTC midnight, no bbox. Non-positive windows fall back to a
// week.
func DefaultSelection(now time.Time, windowDays int) SearchSelection {
	if windowDays <= 0 {
		windowDays = 7
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return SearchSelection{
		DateRange: DateRange{Start: day, End: day.AddDate(0, 0, windowDays)},
	}
}

// Opportunity is a candidate acquisition window returned by the search
// endpoint.
type Opportunity struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"product_id"`
	Datetime    string         `json:"datetime"` // "start/end" RFC3339 interval
	BBox        []float64      `json:"bbox"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// Provider identifies the organization behind a product.
type Provider struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Product is a tasking product offered by the backend.
type Product struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	License     string     `json:"license,omitempty"`
	Providers   []Provider `json:"providers,omitempty"`
}
