package backend

import (
	"time"

	"github.com/google/uuid"

	"overpass/internal/domain"
)

// maxOpportunities caps one response so huge date ranges stay cheap.
const maxOpportunities = 200

// catalog is the static product list the backend serves.
func catalog() []domain.Product {
	return []domain.Product{
		{
			ID:          "standard-scene",
			Title:       "Standard scene",
			Description: "Single-pass standard tasking capture",
			License:     "proprietary",
			Providers:   []domain.Provider{{Name: "Overpass Demo", URL: "https://example.com"}},
		},
		{
			ID:          "assured-tasking",
			Title:       "Assured tasking",
			Description: "Capture tied to a specific imaging window",
			License:     "proprietary",
			Providers:   []domain.Provider{{Name: "Overpass Demo", URL: "https://example.com"}},
		},
		{
			ID:          "flexible-tasking",
			Title:       "Flexible tasking",
			Description: "Best-effort capture anywhere inside the window",
			License:     "proprietary",
			Providers:   []domain.Provider{{Name: "Overpass Demo", URL: "https://example.com"}},
		},
	}
}

// generateOpportunities emits one imaging window per product per day of the
// requested interval, centered on the requested bbox. Constraints vary
// deterministically with the day so repeated searches look stable.
func generateOpportunities(bbox domain.BoundingBox, r domain.DateRange) []domain.Opportunity {
	var out []domain.Opportunity
	bvals := bbox.Values()

	day := 0
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		for i, p := range catalog() {
			if len(out) >= maxOpportunities {
				return out
			}

			// Pass time staggered per product so windows don't collide
			start := time.Date(d.Year(), d.Month(), d.Day(), 9+4*i, 30, 0, 0, time.UTC)
			end := start.Add(5 * time.Minute)

			out = append(out, domain.Opportunity{
				ID:        uuid.NewString(),
				ProductID: p.ID,
				Datetime:  start.Format(time.RFC3339) + "/" + end.Format(time.RFC3339),
				BBox:      bvals[:],
				Constraints: map[string]any{
					"off_nadir":   []float64{float64(5 + (day+i)%20), float64(25 + (day+i)%20)},
					"cloud_cover": float64((day*17+i*7)%80) / 100,
				},
			})
			opportunitiesGenerated.Inc()
		}
		day++
	}
	return out
}
