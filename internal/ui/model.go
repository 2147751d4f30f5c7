package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"overpass/internal/config"
	"overpass/internal/domain"
	"overpass/internal/eventbus"
	"overpass/internal/logger"
	"overpass/internal/ui/state"
	"overpass/internal/ui/views"
)

// Filter panel input indices
const (
	inputStart = iota
	inputEnd
	inputWest
	inputSouth
	inputEast
	inputNorth
	inputCount
)

const dateLayout = "2006-01-02"

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state

	renderer *views.Renderer
	help     help.Model
	keys     keyMap

	width  int
	height int

	// Filters panel inputs
	inputs     [inputCount]textinput.Model
	focusIdx   int
	filterHint string
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, appState *state.AppState) *Model {
	m := &Model{
		bus:      bus,
		config:   cfg,
		state:    appState,
		renderer: views.NewRenderer(cfg.UISettings.ShowConstraints),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}

	placeholders := [inputCount]string{
		dateLayout, dateLayout, "-180..180", "-90..90", "-180..180", "-90..90",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 24
		ti.Width = 16
		m.inputs[i] = ti
	}
	m.syncFilterInputs()

	return m
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()

	case tickMsg:
		return m, tickCmd()

	case EventMsg:
		m.handleEvent(msg.Event)

	case tea.KeyMsg:
		if m.state.FiltersOpen {
			return m.updateFilters(msg)
		}
		if m.state.ShowInfo || m.state.ShowProducts || m.state.ShowHelp {
			switch msg.String() {
			case "esc", "q", "i", "p", "?":
				m.state.ShowInfo = false
				m.state.ShowProducts = false
				m.state.ShowHelp = false
				m.help.ShowAll = false
			}
			return m, nil
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// handleEvent applies a forwarded domain event to the state.
func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch ev := e.(type) {
	case eventbus.SearchStartedEvent:
		m.state.OpportunitiesLoading = true
		m.state.OpportunitiesErr = nil
	case eventbus.OpportunitiesUpdatedEvent:
		m.state.SetOpportunitiesResult(ev.Opportunities, nil)
	case eventbus.SearchFailedEvent:
		m.state.SetOpportunitiesResult(nil, ev.Err)
	case eventbus.ProductsUpdatedEvent:
		m.state.SetProductsResult(ev.Products, nil)
	case eventbus.ProductsFailedEvent:
		m.state.SetProductsResult(nil, ev.Err)
	case eventbus.ErrorEvent:
		m.state.StatusMessage = ev.Message
	}
}

// updateNormal handles keys while no popup is open.
func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.state.Cursor > 0 {
			m.state.Cursor--
		}
		m.state.ClampCursor()
		m.hoverCursor()

	case key.Matches(msg, m.keys.Down):
		if m.state.Cursor < len(m.state.Opportunities)-1 {
			m.state.Cursor++
		}
		m.state.ClampCursor()
		m.hoverCursor()

	case key.Matches(msg, m.keys.Select):
		if o := m.state.CursorOpportunity(); o != nil {
			if m.state.SelectedID == o.ID {
				m.state.SetSelected("")
			} else {
				m.state.SetSelected(o.ID)
			}
		}

	case key.Matches(msg, m.keys.Clear):
		m.state.SetSelected("")
		m.state.SetHovered("")
		m.state.StatusMessage = ""

	case key.Matches(msg, m.keys.Filters):
		m.filterHint = ""
		m.syncFilterInputs()
		m.state.SetFiltersOpen(true)
		m.focusIdx = 0
		return m, m.focusInput(0)

	case key.Matches(msg, m.keys.Info):
		m.state.ShowInfo = true

	case key.Matches(msg, m.keys.Products):
		m.state.ShowProducts = true

	case key.Matches(msg, m.keys.Refresh):
		m.bus.Publish(eventbus.SearchRequestedEvent{Selection: m.state.UserParams, Force: true})

	case key.Matches(msg, m.keys.Help):
		m.state.ShowHelp = true
		m.help.ShowAll = true
	}

	return m, nil
}

// hoverCursor keeps the hovered opportunity in sync with the cursor.
func (m *Model) hoverCursor() {
	if o := m.state.CursorOpportunity(); o != nil {
		m.state.SetHovered(o.ID)
	} else {
		m.state.SetHovered("")
	}
}

// updateFilters handles keys while the filters panel is open.
func (m *Model) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state.SetFiltersOpen(false)
		return m, nil

	case "enter":
		if m.applyFilters() {
			m.state.SetFiltersOpen(false)
		}
		return m, nil

	case "tab", "down":
		return m, m.focusInput((m.focusIdx + 1) % inputCount)

	case "shift+tab", "up":
		return m, m.focusInput((m.focusIdx + inputCount - 1) % inputCount)
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

// focusInput moves focus to the given filter input.
func (m *Model) focusInput(idx int) tea.Cmd {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	return m.inputs[idx].Focus()
}

// syncFilterInputs loads the current selection into the panel inputs.
func (m *Model) syncFilterInputs() {
	sel := m.state.UserParams
	m.inputs[inputStart].SetValue(sel.DateRange.Start.Format(dateLayout))
	m.inputs[inputEnd].SetValue(sel.DateRange.End.Format(dateLayout))
	if sel.BBox != nil {
		v := sel.BBox.Values()
		for i := 0; i < 4; i++ {
			m.inputs[inputWest+i].SetValue(strconv.FormatFloat(v[i], 'f', -1, 64))
		}
	} else {
		for i := 0; i < 4; i++ {
			m.inputs[inputWest+i].SetValue("")
		}
	}
}

// applyFilters validates the panel inputs and, when they parse, replaces
// the search selection and requests a new search. Validation lives here at
// the input boundary; the state store itself stores whatever it is given.
func (m *Model) applyFilters() bool {
	start, err := time.Parse(dateLayout, strings.TrimSpace(m.inputs[inputStart].Value()))
	if err != nil {
		m.filterHint = "start date must be YYYY-MM-DD"
		return false
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(m.inputs[inputEnd].Value()))
	if err != nil {
		m.filterHint = "end date must be YYYY-MM-DD"
		return false
	}

	dr := domain.DateRange{Start: start, End: end}
	if err := dr.Validate(); err != nil {
		m.filterHint = "end date is before start date"
		return false
	}

	next := domain.SearchSelection{DateRange: dr}

	bboxVals, filled, err := m.parseBBoxInputs()
	if err != nil {
		m.filterHint = err.Error()
		return false
	}
	if filled {
		bbox, err := domain.NewBoundingBox(bboxVals)
		if err != nil {
			m.filterHint = err.Error()
			return false
		}
		next.BBox = &bbox
	}

	m.filterHint = ""
	m.state.StatusMessage = ""
	m.state.SetUserParams(next)
	logger.Get(logger.InfoLevel).Infow("search params applied",
		"start", start.Format(dateLayout), "end", end.Format(dateLayout), "bbox", filled)
	m.bus.Publish(eventbus.SearchRequestedEvent{Selection: next})
	return true
}

// parseBBoxInputs reads the four bbox fields. All empty means "no bbox";
// anything in between is an error.
func (m *Model) parseBBoxInputs() (vals []float64, filled bool, err error) {
	raw := make([]string, 4)
	empty := 0
	for i := 0; i < 4; i++ {
		raw[i] = strings.TrimSpace(m.inputs[inputWest+i].Value())
		if raw[i] == "" {
			empty++
		}
	}
	if empty == 4 {
		return nil, false, nil
	}
	if empty > 0 {
		return nil, false, errBBoxPartial
	}

	vals = make([]float64, 4)
	for i, s := range raw {
		vals[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false, errBBoxNumeric
		}
	}
	return vals, true, nil
}

// updateViewportHeight recomputes how many list rows fit.
func (m *Model) updateViewportHeight() {
	// title + map panel with border + list border + status + help
	used := 1 + m.config.UISettings.MapHeight + 2 + 2 + 2
	h := m.height - used
	if h < 3 {
		h = 3
	}
	m.state.ViewportHeight = h
	m.state.ClampCursor()
}

// View renders the UI
func (m *Model) View() string {
	vs := views.ViewState{
		Width:                m.width,
		Height:               m.height,
		Selection:            m.state.UserParams,
		Opportunities:        m.state.Opportunities,
		OpportunitiesLoading: m.state.OpportunitiesLoading,
		OpportunitiesErr:     m.state.OpportunitiesErr,
		Products:             m.state.Products,
		ProductsLoading:      m.state.ProductsLoading,
		ProductsErr:          m.state.ProductsErr,
		Cursor:               m.state.Cursor,
		ViewportOffset:       m.state.ViewportOffset,
		ViewportHeight:       m.state.ViewportHeight,
		HoveredID:            m.state.HoveredID,
		SelectedID:           m.state.SelectedID,
		FiltersOpen:          m.state.FiltersOpen,
		ShowInfo:             m.state.ShowInfo,
		ShowProducts:         m.state.ShowProducts,
		ShowHelp:             m.state.ShowHelp,
		StatusMessage:        m.state.StatusMessage,
		HelpView:             m.help.View(m.keys),
		StartInput:           m.inputs[inputStart].View(),
		EndInput:             m.inputs[inputEnd].View(),
		FilterHint:           m.filterHint,
		MapHeight:            m.config.UISettings.MapHeight,
	}
	for i := 0; i < 4; i++ {
		vs.BBoxInputs[i] = m.inputs[inputWest+i].View()
	}
	return m.renderer.Render(vs)
}
