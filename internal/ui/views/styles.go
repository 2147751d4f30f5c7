package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	SelectedMark  lipgloss.Style
	Panel         lipgloss.Style
	PanelTitle    lipgloss.Style
	Popup         lipgloss.Style
	Filter        lipgloss.Style
	Help          lipgloss.Style
	MapBBox       lipgloss.Style
	MapMarker     lipgloss.Style
	MapHovered    lipgloss.Style
	MapSelected   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		SelectedMark:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:        lipgloss.NewStyle().Faint(true),
		MapBBox:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		MapMarker:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		MapHovered:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MapSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
}
