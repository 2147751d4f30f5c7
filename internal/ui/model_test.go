package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overpass/internal/config"
	"overpass/internal/domain"
	"overpass/internal/eventbus"
	"overpass/internal/ui/state"
)

// recordingBus captures published events synchronously.
type recordingBus struct {
	published []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) { b.published = append(b.published, e) }
func (b *recordingBus) Subscribe(t eventbus.EventType, h eventbus.EventHandler) func() {
	return func() {}
}
func (b *recordingBus) Close() {}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel() (*Model, *recordingBus, *state.AppState) {
	bus := &recordingBus{}
	cfg := config.DefaultConfig()
	st := state.NewAppState(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), cfg.WindowDays)
	m := NewModel(bus, cfg, st)
	return m, bus, st
}

func setFilterInputs(m *Model, start, end string, bbox [4]string) {
	m.inputs[inputStart].SetValue(start)
	m.inputs[inputEnd].SetValue(end)
	for i := 0; i < 4; i++ {
		m.inputs[inputWest+i].SetValue(bbox[i])
	}
}

func TestApplyFiltersPublishesSearchRequest(t *testing.T) {
	m, bus, st := newTestModel()

	m.Update(keyRune('f'))
	require.True(t, st.FiltersOpen)

	setFilterInputs(m, "2024-01-01", "2024-01-08", [4]string{"10", "20", "30", "40"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, st.FiltersOpen)
	require.Len(t, bus.published, 1)

	ev, ok := bus.published[0].(eventbus.SearchRequestedEvent)
	require.True(t, ok)
	require.NotNil(t, ev.Selection.BBox)
	assert.Equal(t, [4]float64{10, 20, 30, 40}, ev.Selection.BBox.Values())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ev.Selection.DateRange.Start)
	assert.False(t, ev.Force)
}

func TestApplyFiltersRejectsReversedDates(t *testing.T) {
	m, bus, st := newTestModel()

	m.Update(keyRune('f'))
	setFilterInputs(m, "2024-02-01", "2024-01-01", [4]string{"10", "20", "30", "40"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, st.FiltersOpen, "panel stays open on invalid input")
	assert.Contains(t, m.filterHint, "before start")
	assert.Empty(t, bus.published)
}

func TestApplyFiltersRejectsPartialBBox(t *testing.T) {
	m, bus, _ := newTestModel()

	m.Update(keyRune('f'))
	setFilterInputs(m, "2024-01-01", "2024-01-08", [4]string{"10", "", "30", "40"})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, errBBoxPartial.Error(), m.filterHint)
	assert.Empty(t, bus.published)
}

func TestApplyFiltersWithoutBBoxStillApplies(t *testing.T) {
	m, bus, st := newTestModel()

	m.Update(keyRune('f'))
	setFilterInputs(m, "2024-03-01", "2024-03-05", [4]string{"", "", "", ""})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, st.FiltersOpen)
	assert.Nil(t, st.UserParams.BBox)
	require.Len(t, bus.published, 1)
	ev := bus.published[0].(eventbus.SearchRequestedEvent)
	assert.Nil(t, ev.Selection.BBox, "the search service decides to suppress, not the UI")
}

func TestCursorMovementHoversWithoutRequests(t *testing.T) {
	m, bus, st := newTestModel()
	st.Opportunities = []domain.Opportunity{{ID: "opp-1"}, {ID: "opp-2"}}
	rev := st.Revision

	m.Update(keyRune('j'))

	assert.Equal(t, 1, st.Cursor)
	assert.Equal(t, "opp-2", st.HoveredID)
	assert.Equal(t, rev, st.Revision, "hover must not recompute the derivation")
	assert.Empty(t, bus.published, "hover must not fire a request")
}

func TestSelectToggles(t *testing.T) {
	m, _, st := newTestModel()
	st.Opportunities = []domain.Opportunity{{ID: "opp-1"}}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "opp-1", st.SelectedID)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, st.SelectedID)
}

func TestRefreshForcesSearch(t *testing.T) {
	m, bus, st := newTestModel()
	bbox, err := domain.NewBoundingBox([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	sel := st.UserParams
	sel.BBox = &bbox
	st.SetUserParams(sel)

	m.Update(keyRune('r'))

	require.Len(t, bus.published, 1)
	ev := bus.published[0].(eventbus.SearchRequestedEvent)
	assert.True(t, ev.Force)
}

func TestEventMsgUpdatesResults(t *testing.T) {
	m, _, st := newTestModel()

	m.Update(EventMsg{Event: eventbus.SearchStartedEvent{Seq: 1}})
	assert.True(t, st.OpportunitiesLoading)

	m.Update(EventMsg{Event: eventbus.OpportunitiesUpdatedEvent{
		Seq:           1,
		Opportunities: []domain.Opportunity{{ID: "opp-1"}},
	}})
	assert.False(t, st.OpportunitiesLoading)
	assert.Len(t, st.Opportunities, 1)

	m.Update(EventMsg{Event: eventbus.ProductsUpdatedEvent{
		Products: []domain.Product{{ID: "standard-scene"}},
	}})
	assert.Len(t, st.Products, 1)
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m, _, st := newTestModel()
	st.Opportunities = []domain.Opportunity{
		{ID: "opp-1", ProductID: "standard-scene", Datetime: "2024-01-02T10:00:00Z/2024-01-02T10:05:00Z", BBox: []float64{10, 20, 30, 40}},
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	out := m.View()
	assert.Contains(t, out, "overpass")
	assert.Contains(t, out, "standard-scene")
}
