package views

import (
	"strings"

	"overpass/internal/domain"
)

// MapRenderer draws the bbox and opportunity markers on a character grid.
type MapRenderer struct {
	styles *Styles
}

// NewMapRenderer creates a new map renderer
func NewMapRenderer(styles *Styles) *MapRenderer {
	return &MapRenderer{styles: styles}
}

// extent is the lon/lat window the grid covers.
type extent struct {
	minX, minY, maxX, maxY float64
}

func worldExtent() extent {
	return extent{minX: -180, minY: -90, maxX: 180, maxY: 90}
}

// zoomTo expands the bbox by a margin so its outline doesn't touch the
// panel border, clamped to the world.
func zoomTo(b domain.BoundingBox) extent {
	mx := (b.MaxX - b.MinX) * 0.4
	my := (b.MaxY - b.MinY) * 0.4
	if mx < 1 {
		mx = 1
	}
	if my < 1 {
		my = 1
	}
	e := extent{minX: b.MinX - mx, minY: b.MinY - my, maxX: b.MaxX + mx, maxY: b.MaxY + my}
	if e.minX < -180 {
		e.minX = -180
	}
	if e.maxX > 180 {
		e.maxX = 180
	}
	if e.minY < -90 {
		e.minY = -90
	}
	if e.maxY > 90 {
		e.maxY = 90
	}
	return e
}

// project maps a lon/lat point to a grid cell. Row 0 is the north edge.
func (e extent) project(x, y float64, w, h int) (col, row int, ok bool) {
	if w < 1 || h < 1 || e.maxX <= e.minX || e.maxY <= e.minY {
		return 0, 0, false
	}
	col = int((x - e.minX) / (e.maxX - e.minX) * float64(w-1))
	row = int((e.maxY - y) / (e.maxY - e.minY) * float64(h-1))
	if col < 0 || col >= w || row < 0 || row >= h {
		return 0, 0, false
	}
	return col, row, true
}

// Render draws the map grid.
func (m *MapRenderer) Render(width, height int, bbox *domain.BoundingBox,
	opps []domain.Opportunity, hoveredID, selectedID string) string {

	if width < 4 || height < 2 {
		return ""
	}

	e := worldExtent()
	if bbox != nil {
		e = zoomTo(*bbox)
	}

	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			// Faint graticule so empty space still reads as a map
			if r%4 == 2 && c%10 == 4 {
				grid[r][c] = m.styles.Dim.Render("·")
			} else {
				grid[r][c] = " "
			}
		}
	}

	if bbox != nil {
		m.drawBox(grid, e, *bbox, width, height)
	}

	// Markers on top of the outline; selected and hovered win over plain
	for i := range opps {
		o := opps[i]
		if len(o.BBox) != 4 {
			continue
		}
		cx := (o.BBox[0] + o.BBox[2]) / 2
		cy := (o.BBox[1] + o.BBox[3]) / 2
		col, row, ok := e.project(cx, cy, width, height)
		if !ok {
			continue
		}
		switch {
		case o.ID == selectedID:
			grid[row][col] = m.styles.MapSelected.Render("■")
		case o.ID == hoveredID:
			grid[row][col] = m.styles.MapHovered.Render("◉")
		default:
			if !strings.ContainsAny(grid[row][col], "■◉") {
				grid[row][col] = m.styles.MapMarker.Render("•")
			}
		}
	}

	var b strings.Builder
	for r := range grid {
		b.WriteString(strings.Join(grid[r], ""))
		if r < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// drawBox renders the bbox outline.
func (m *MapRenderer) drawBox(grid [][]string, e extent, b domain.BoundingBox, w, h int) {
	c1, r1, ok1 := e.project(b.MinX, b.MaxY, w, h) // NW
	c2, r2, ok2 := e.project(b.MaxX, b.MinY, w, h) // SE
	if !ok1 || !ok2 {
		return
	}

	for c := c1; c <= c2; c++ {
		grid[r1][c] = m.styles.MapBBox.Render("─")
		grid[r2][c] = m.styles.MapBBox.Render("─")
	}
	for r := r1; r <= r2; r++ {
		grid[r][c1] = m.styles.MapBBox.Render("│")
		grid[r][c2] = m.styles.MapBBox.Render("│")
	}
	grid[r1][c1] = m.styles.MapBBox.Render("┌")
	grid[r1][c2] = m.styles.MapBBox.Render("┐")
	grid[r2][c1] = m.styles.MapBBox.Render("└")
	grid[r2][c2] = m.styles.MapBBox.Render("┘")
}
