package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"overpass/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Selection domain.SearchSelection

	Opportunities        []domain.Opportunity
	OpportunitiesLoading bool
	OpportunitiesErr     error
	Products             []domain.Product
	ProductsLoading      bool
	ProductsErr          error

	Cursor         int
	ViewportOffset int
	ViewportHeight int
	HoveredID      string
	SelectedID     string

	FiltersOpen  bool
	ShowInfo     bool
	ShowProducts bool
	ShowHelp     bool

	StatusMessage string
	HelpView      string

	// Filters panel input views, rendered by the model's textinputs
	StartInput string
	EndInput   string
	BBoxInputs [4]string
	FilterHint string

	MapHeight int
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	mapRender   *MapRenderer
	listRender  *ListRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showConstraints bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		mapRender:   NewMapRenderer(styles),
		listRender:  NewListRenderer(styles, showConstraints),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}

	content := &strings.Builder{}
	content.WriteString(r.titleLine(state, width))
	content.WriteString("\n")

	mapHeight := state.MapHeight
	if mapHeight <= 0 {
		mapHeight = 12
	}

	mapPanel := r.styles.Panel.Width(width - 4).Render(
		r.mapRender.Render(width-8, mapHeight, state.Selection.BBox,
			state.Opportunities, state.HoveredID, state.SelectedID))

	listPanel := r.styles.Panel.Width(width - 4).Render(
		r.listRender.Render(state.Opportunities, state.Cursor, state.ViewportOffset,
			state.ViewportHeight, state.HoveredID, state.SelectedID))

	content.WriteString(mapPanel)
	content.WriteString("\n")
	content.WriteString(listPanel)
	content.WriteString("\n")
	content.WriteString(r.statusLine(state))
	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	base := content.String()

	// Popups replace the center of the screen; only one is open at a time
	var popup string
	switch {
	case state.FiltersOpen:
		popup = r.popupRender.RenderFilters(state.StartInput, state.EndInput, state.BBoxInputs, state.FilterHint)
	case state.ShowInfo:
		popup = r.popupRender.RenderInfo(findOpportunity(state.Opportunities, state.SelectedID, state.Cursor))
	case state.ShowProducts:
		popup = r.popupRender.RenderProducts(state.Products, state.ProductsLoading, state.ProductsErr)
	}
	if popup != "" {
		height := state.Height
		if height <= 0 {
			height = 24
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, popup)
	}

	return base
}

// titleLine renders the app title with right-aligned loading indicators.
func (r *Renderer) titleLine(state ViewState, width int) string {
	logo := r.styles.Title.Render("overpass")

	indicators := []string{}
	if state.OpportunitiesLoading {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		indicators = append(indicators, fmt.Sprintf("%s Searching", spinner[frame]))
	}
	if state.ProductsLoading {
		indicators = append(indicators, "↓ Products")
	}

	rightContent := ""
	if len(indicators) > 0 {
		rightContent = r.styles.Dim.Render(strings.Join(indicators, " | "))
	}
	if state.Selection.BBox != nil {
		v := state.Selection.BBox.Values()
		bboxText := r.styles.Filter.Render(fmt.Sprintf("[bbox %.1f,%.1f,%.1f,%.1f]", v[0], v[1], v[2], v[3]))
		if rightContent != "" {
			rightContent = fmt.Sprintf("%s  %s", rightContent, bboxText)
		} else {
			rightContent = bboxText
		}
	}

	if rightContent == "" {
		return logo
	}

	padding := width - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding > 0 {
		return logo + strings.Repeat(" ", padding) + rightContent
	}
	return logo + "  " + rightContent
}

// statusLine renders dates, counts and errors under the panels.
func (r *Renderer) statusLine(state ViewState) string {
	dr := state.Selection.DateRange
	window := fmt.Sprintf("%s → %s", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))

	var parts []string
	parts = append(parts, r.styles.Status.Render(window))

	switch {
	case state.OpportunitiesErr != nil:
		parts = append(parts, r.styles.StatusError.Render("search failed: "+state.OpportunitiesErr.Error()))
	case state.Selection.BBox == nil:
		parts = append(parts, r.styles.Dim.Render("no bbox, press f to set filters"))
	default:
		parts = append(parts, r.styles.StatusSuccess.Render(fmt.Sprintf("%d opportunities", len(state.Opportunities))))
	}

	if state.StatusMessage != "" {
		parts = append(parts, r.styles.Filter.Render(state.StatusMessage))
	}

	return strings.Join(parts, "  ")
}

func findOpportunity(opps []domain.Opportunity, selectedID string, cursor int) *domain.Opportunity {
	for i := range opps {
		if opps[i].ID == selectedID {
			return &opps[i]
		}
	}
	if cursor >= 0 && cursor < len(opps) {
		return &opps[cursor]
	}
	return nil
}
