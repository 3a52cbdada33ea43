package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ukydev/transitland-client/internal/query"
	"github.com/ukydev/transitland-client/internal/session"
	"github.com/ukydev/transitland-client/internal/views"
)

// Load results. Each carries the generation it was dispatched under; the
// update loop drops anything stale. The view in the message is a fresh
// model loaded off the event loop, swapped in wholesale on success, so
// in-flight fetches never touch what is currently rendering.
type (
	loginResultMsg struct {
		sess *session.Session
		err  error
	}

	dashboardLoadedMsg struct {
		gen  int
		view *views.Dashboard
		err  error
	}

	fleetLoadedMsg struct {
		gen  int
		view *views.Fleet
		err  error
	}

	boardLoadedMsg struct {
		gen  int
		view *views.WorkOrdersBoard
		err  error
	}

	inventoryLoadedMsg struct {
		gen  int
		view *views.InventoryView
		err  error
	}

	detailLoadedMsg struct {
		gen  int
		view *views.BusDetail
		err  error
	}
)

func (m *Model) loadDashboard() tea.Cmd {
	gen := m.gen
	backend := m.backend
	return func() tea.Msg {
		view := &views.Dashboard{}
		err := view.Reload(context.Background(), backend)
		return dashboardLoadedMsg{gen: gen, view: view, err: err}
	}
}

func (m *Model) loadFleet() tea.Cmd {
	gen := m.gen
	backend := m.backend
	criteria := m.fleet.view.Criteria
	return func() tea.Msg {
		view := views.NewFleet()
		view.Criteria = criteria
		err := view.Reload(context.Background(), backend)
		return fleetLoadedMsg{gen: gen, view: view, err: err}
	}
}

func (m *Model) loadBoard() tea.Cmd {
	gen := m.gen
	backend := m.backend
	prev := *m.board.view
	user := m.sess.User()
	return func() tea.Msg {
		view := views.NewWorkOrdersBoard(user)
		view.ShowAllGarages = prev.ShowAllGarages
		view.OnlyCritical = prev.OnlyCritical
		view.Search = prev.Search
		view.Descending = prev.Descending
		err := view.Reload(context.Background(), backend)
		return boardLoadedMsg{gen: gen, view: view, err: err}
	}
}

func (m *Model) loadInventory() tea.Cmd {
	gen := m.gen
	backend := m.backend
	defaultGarage := m.sess.Capabilities().DefaultGarage
	garageFilter := query.All
	if m.inventory != nil && m.inventory.view != nil {
		garageFilter = m.inventory.view.GarageFilter
	}
	return func() tea.Msg {
		view := views.NewInventoryView(defaultGarage)
		view.GarageFilter = garageFilter
		err := view.Reload(context.Background(), backend)
		return inventoryLoadedMsg{gen: gen, view: view, err: err}
	}
}

func (m *Model) loadDetail(busID string) tea.Cmd {
	gen := m.gen
	backend := m.backend
	return func() tea.Msg {
		view := views.NewBusDetail(busID)
		err := view.Reload(context.Background(), backend)
		return detailLoadedMsg{gen: gen, view: view, err: err}
	}
}
