package views

import (
	"fmt"
	"strings"
	"time"

	"overpass/internal/domain"
)

// ListRenderer renders the opportunity result list.
type ListRenderer struct {
	styles          *Styles
	showConstraints bool
}

// NewListRenderer creates a new list renderer
func NewListRenderer(styles *Styles, showConstraints bool) *ListRenderer {
	return &ListRenderer{styles: styles, showConstraints: showConstraints}
}

// Render renders the visible slice of the result list.
func (l *ListRenderer) Render(opps []domain.Opportunity, cursor, offset, height int,
	hoveredID, selectedID string) string {

	if len(opps) == 0 {
		return l.styles.Dim.Render("no opportunities, pick a bounding box in the filters panel (f)")
	}

	end := offset + height
	if end > len(opps) {
		end = len(opps)
	}
	if offset > end {
		offset = end
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		o := opps[i]

		mark := " "
		if o.ID == selectedID {
			mark = l.styles.SelectedMark.Render("▶")
		}

		line := fmt.Sprintf("%s %-18s %s", mark, o.ProductID, windowStart(o.Datetime))
		if l.showConstraints {
			line += "  " + l.styles.Dim.Render(constraintSummary(o.Constraints))
		}

		if i == cursor {
			line = l.styles.HighlightBg.Render(line)
		}

		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if len(opps) > height {
		b.WriteString("\n")
		b.WriteString(l.styles.Dim.Render(fmt.Sprintf("  %d-%d of %d", offset+1, end, len(opps))))
	}
	return b.String()
}

// windowStart extracts the human-readable start of a "start/end" interval.
func windowStart(interval string) string {
	start, _, ok := strings.Cut(interval, "/")
	if !ok {
		return interval
	}
	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return start
	}
	return t.Format("Mon 02 Jan 15:04 MST")
}

// constraintSummary formats the common constraint fields compactly.
func constraintSummary(c map[string]any) string {
	if c == nil {
		return ""
	}
	var parts []string
	if v, ok := c["cloud_cover"].(float64); ok {
		parts = append(parts, fmt.Sprintf("cloud %d%%", int(v*100)))
	}
	if v, ok := c["off_nadir"].([]float64); ok && len(v) == 2 {
		parts = append(parts, fmt.Sprintf("off-nadir %.0f-%.0f°", v[0], v[1]))
	}
	// Decoded JSON carries []any instead of []float64
	if v, ok := c["off_nadir"].([]any); ok && len(v) == 2 {
		a, aok := v[0].(float64)
		b, bok := v[1].(float64)
		if aok && bok {
			parts = append(parts, fmt.Sprintf("off-nadir %.0f-%.0f°", a, b))
		}
	}
	return strings.Join(parts, " ")
}
