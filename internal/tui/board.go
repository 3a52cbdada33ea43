package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/views"
)

// boardScreen wraps the work-orders board with its table and search input.
type boardScreen struct {
	view      *views.WorkOrdersBoard
	table     table.Model
	search    textinput.Model
	searching bool
	prevQuery string
}

func newBoardScreen(user models.User) *boardScreen {
	search := textinput.New()
	search.Placeholder = "bus id"
	search.CharLimit = 16
	search.Width = 20

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Bus", Width: 8},
			{Title: "Status", Width: 18},
			{Title: "PM", Width: 12},
			{Title: "Location", Width: 14},
			{Title: "Mileage", Width: 10},
		}),
		table.WithFocused(true),
	)

	return &boardScreen{view: views.NewWorkOrdersBoard(user), table: t, search: search}
}

func (s *boardScreen) apply(loaded *views.WorkOrdersBoard) {
	loaded.ShowAllGarages = s.view.ShowAllGarages
	loaded.OnlyCritical = s.view.OnlyCritical
	loaded.Search = s.view.Search
	loaded.Descending = s.view.Descending
	s.view = loaded
	s.syncRows()
}

func (s *boardScreen) syncRows() {
	rows := s.view.Rows()
	tableRows := make([]table.Row, 0, len(rows))
	for _, b := range rows {
		pm := ""
		if badge := classify.PMBadge(b); badge != nil {
			pm = badge.Label
		}
		tableRows = append(tableRows, table.Row{
			b.ID,
			string(b.Status),
			pm,
			string(b.Location),
			fmt.Sprintf("%d", b.Mileage),
		})
	}
	s.table.SetRows(tableRows)
	if s.table.Cursor() >= len(tableRows) {
		s.table.SetCursor(0)
	}
}

func (m *Model) updateBoard(msg tea.KeyMsg) tea.Cmd {
	s := m.board

	if s.searching {
		switch msg.String() {
		case "enter":
			s.searching = false
			s.search.Blur()
			return nil
		case "esc":
			s.searching = false
			s.search.Blur()
			s.search.SetValue(s.prevQuery)
			s.view.Search = s.prevQuery
			s.syncRows()
			return nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.view.Search = s.search.Value()
		s.syncRows()
		return cmd
	}

	switch msg.String() {
	case "/":
		s.searching = true
		s.prevQuery = s.search.Value()
		return s.search.Focus()
	case "a":
		if s.view.Maintenance() {
			s.view.ShowAllGarages = !s.view.ShowAllGarages
			s.syncRows()
		}
		return nil
	case "c":
		s.view.OnlyCritical = !s.view.OnlyCritical
		s.syncRows()
		return nil
	case "d":
		s.view.Descending = !s.view.Descending
		s.syncRows()
		return nil
	case "enter":
		if row := s.table.SelectedRow(); row != nil {
			return m.openBus(row[0])
		}
		return nil
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (m *Model) viewBoard() string {
	s := m.board
	if s == nil || !s.view.Loaded {
		return "\n  " + m.spin.View() + " loading work orders\n"
	}

	scope := "all garages"
	if s.view.Maintenance() && !s.view.ShowAllGarages {
		scope = "your garage"
	}
	flags := ""
	if s.view.OnlyCritical {
		flags = "  critical only"
	}
	header := statStyle.Render(fmt.Sprintf("%d buses need attention", len(s.view.Rows()))) +
		helpStyle.Render("  ("+scope+flags+")")

	searchLine := ""
	if s.searching || s.search.Value() != "" {
		searchLine = "search: " + s.search.View() + "\n"
	}

	return header + "\n" + searchLine + s.table.View()
}
