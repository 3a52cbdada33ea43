package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/query"
	"github.com/ukydev/transitland-client/internal/views"
)

// fleetScreen wraps the fleet view model with its table and search input.
type fleetScreen struct {
	view      *views.Fleet
	table     table.Model
	search    textinput.Model
	searching bool
	prevQuery string
}

var fleetFilterCycles = map[string][]string{
	views.FilterLocation: {query.All, "North Garage", "South Garage", "On Service"},
	views.FilterStatus:   {query.All, "Ready", "Needs Maintenance", "Critical"},
	views.FilterPM:       {query.All, views.PMFilterDue, views.PMFilterOverdue},
}

var fleetSortCycle = []string{views.SortByID, views.SortByStatus, views.SortByLocation, views.SortByMileage}

func newFleetScreen() *fleetScreen {
	search := textinput.New()
	search.Placeholder = "bus id"
	search.CharLimit = 16
	search.Width = 20

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Bus", Width: 8},
			{Title: "Model", Width: 20},
			{Title: "Status", Width: 18},
			{Title: "PM", Width: 12},
			{Title: "Location", Width: 14},
			{Title: "Mileage", Width: 10},
			{Title: "Since Svc", Width: 10},
		}),
		table.WithFocused(true),
	)

	return &fleetScreen{view: views.NewFleet(), table: t, search: search}
}

// apply swaps in a freshly loaded view, keeping the criteria the user has
// set since the fetch was dispatched.
func (s *fleetScreen) apply(loaded *views.Fleet) {
	loaded.Criteria = s.view.Criteria
	s.view = loaded
	s.syncRows()
}

func (s *fleetScreen) syncRows() {
	rows := query.Truncate(s.view.Rows(), views.FleetDisplayCap)
	tableRows := make([]table.Row, 0, len(rows))
	for _, b := range rows {
		pm := ""
		if badge := classify.PMBadge(b); badge != nil {
			pm = badge.Label
		}
		tableRows = append(tableRows, table.Row{
			b.ID,
			b.Model,
			string(b.Status),
			pm,
			string(b.Location),
			fmt.Sprintf("%d", b.Mileage),
			fmt.Sprintf("%d", b.MileageSinceService()),
		})
	}
	s.table.SetRows(tableRows)
	if s.table.Cursor() >= len(tableRows) {
		s.table.SetCursor(0)
	}
}

func (s *fleetScreen) cycleFilter(field string) {
	cycle := fleetFilterCycles[field]
	current := s.view.Criteria.Filters[field]
	next := cycle[0]
	for i, v := range cycle {
		if v == current {
			next = cycle[(i+1)%len(cycle)]
			break
		}
	}
	s.view.Criteria.Filters[field] = next
	s.syncRows()
}

// cycleSort walks id asc, id desc, status asc, status desc and so on.
func (s *fleetScreen) cycleSort() {
	if s.view.Criteria.Direction == query.Ascending {
		s.view.ToggleSort(s.view.Criteria.SortBy)
	} else {
		next := fleetSortCycle[0]
		for i, field := range fleetSortCycle {
			if field == s.view.Criteria.SortBy {
				next = fleetSortCycle[(i+1)%len(fleetSortCycle)]
				break
			}
		}
		s.view.Criteria.SortBy = next
		s.view.Criteria.Direction = query.Ascending
	}
	s.syncRows()
}

func (m *Model) updateFleet(msg tea.KeyMsg) tea.Cmd {
	s := m.fleet

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
			s.view.Criteria.Search = s.prevQuery
			s.syncRows()
			return nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.view.Criteria.Search = s.search.Value()
		s.syncRows()
		return cmd
	}

	switch msg.String() {
	case "/":
		s.searching = true
		s.prevQuery = s.search.Value()
		return s.search.Focus()
	case "f":
		s.cycleFilter(views.FilterLocation)
		return nil
	case "s":
		s.cycleFilter(views.FilterStatus)
		return nil
	case "p":
		s.cycleFilter(views.FilterPM)
		return nil
	case "o":
		s.cycleSort()
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

func (m *Model) viewFleet() string {
	s := m.fleet
	if s == nil || !s.view.Loaded {
		return "\n  " + m.spin.View() + " loading fleet\n"
	}

	total, ready, critical := s.view.Summary()
	header := fmt.Sprintf("%s  %s  %s",
		statStyle.Render(fmt.Sprintf("%d buses", total)),
		tintByTier(fmt.Sprintf("%d ready", ready), classify.TierOK),
		tintByTier(fmt.Sprintf("%d critical", critical), classify.TierCritical))

	filters := helpStyle.Render(fmt.Sprintf("location=%s  status=%s  pm=%s  sort=%s %s",
		s.view.Criteria.Filters[views.FilterLocation],
		s.view.Criteria.Filters[views.FilterStatus],
		s.view.Criteria.Filters[views.FilterPM],
		s.view.Criteria.SortBy, s.view.Criteria.Direction))

	searchLine := ""
	if s.searching || s.search.Value() != "" {
		searchLine = "search: " + s.search.View() + "\n"
	}

	shown := len(s.table.Rows())
	capNote := ""
	if matched := len(s.view.Rows()); matched > shown {
		capNote = helpStyle.Render(fmt.Sprintf("showing first %d of %d matches", shown, matched))
	}

	return header + "\n" + filters + "\n" + searchLine + s.table.View() + "\n" + capNote
}
