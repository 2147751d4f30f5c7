package views

import (
	"fmt"
	"sort"
	"strings"

	"overpass/internal/domain"
)

// PopupRenderer renders the overlay boxes: opportunity info, product list
// and the filters panel.
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{styles: styles}
}

// RenderInfo renders the detail box for one opportunity.
func (p *PopupRenderer) RenderInfo(o *domain.Opportunity) string {
	if o == nil {
		return p.styles.Popup.Render(p.styles.Dim.Render("nothing selected"))
	}

	var b strings.Builder
	b.WriteString(p.styles.PanelTitle.Render("Opportunity"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("id       %s\n", o.ID))
	b.WriteString(fmt.Sprintf("product  %s\n", o.ProductID))
	b.WriteString(fmt.Sprintf("window   %s\n", o.Datetime))
	if len(o.BBox) == 4 {
		b.WriteString(fmt.Sprintf("bbox     [%.2f %.2f %.2f %.2f]\n", o.BBox[0], o.BBox[1], o.BBox[2], o.BBox[3]))
	}

	if len(o.Constraints) > 0 {
		b.WriteString("\n")
		b.WriteString(p.styles.PanelTitle.Render("Constraints"))
		b.WriteString("\n")
		keys := make([]string, 0, len(o.Constraints))
		for k := range o.Constraints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("%-12s %v\n", k, o.Constraints[k]))
		}
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Dim.Render("esc to close"))
	return p.styles.Popup.Render(b.String())
}

// RenderProducts renders the product catalog box.
func (p *PopupRenderer) RenderProducts(products []domain.Product, loading bool, err error) string {
	var b strings.Builder
	b.WriteString(p.styles.PanelTitle.Render("Products"))
	b.WriteString("\n\n")

	switch {
	case loading:
		b.WriteString(p.styles.StatusLoading.Render("loading..."))
	case err != nil:
		b.WriteString(p.styles.StatusError.Render("fetch failed: " + err.Error()))
	case len(products) == 0:
		b.WriteString(p.styles.Dim.Render("no products"))
	default:
		for _, prod := range products {
			b.WriteString(p.styles.Highlight.Render(prod.Title))
			b.WriteString(p.styles.Dim.Render("  (" + prod.ID + ")"))
			b.WriteString("\n")
			if prod.Description != "" {
				b.WriteString("  " + prod.Description + "\n")
			}
			for _, prov := range prod.Providers {
				b.WriteString(p.styles.Dim.Render("  by " + prov.Name))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(p.styles.Dim.Render("esc to close"))
	return p.styles.Popup.Render(b.String())
}

// RenderFilters renders the filters panel around the given input views.
func (p *PopupRenderer) RenderFilters(startInput, endInput string, bboxInputs [4]string, focusHint string) string {
	var b strings.Builder
	b.WriteString(p.styles.PanelTitle.Render("Search filters"))
	b.WriteString("\n\n")
	b.WriteString("start date  " + startInput + "\n")
	b.WriteString("end date    " + endInput + "\n")
	b.WriteString("\n")
	b.WriteString("bbox west   " + bboxInputs[0] + "\n")
	b.WriteString("bbox south  " + bboxInputs[1] + "\n")
	b.WriteString("bbox east   " + bboxInputs[2] + "\n")
	b.WriteString("bbox north  " + bboxInputs[3] + "\n")
	b.WriteString("\n")
	if focusHint != "" {
		b.WriteString(p.styles.StatusError.Render(focusHint))
		b.WriteString("\n")
	}
	b.WriteString(p.styles.Dim.Render("tab next · enter apply · esc cancel"))
	return p.styles.Popup.Render(b.String())
}
