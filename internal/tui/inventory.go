package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/query"
	"github.com/ukydev/transitland-client/internal/views"
)

// inventoryScreen wraps the spare-parts view with its table.
type inventoryScreen struct {
	view  *views.InventoryView
	table table.Model
}

var garageCycle = []string{query.All, "North", "South"}

func newInventoryScreen(defaultGarage string) *inventoryScreen {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Item", Width: 28},
			{Title: "Qty", Width: 6},
			{Title: "Threshold", Width: 10},
			{Title: "Level", Width: 10},
			{Title: "Garage", Width: 8},
		}),
		table.WithFocused(true),
	)
	return &inventoryScreen{view: views.NewInventoryView(defaultGarage), table: t}
}

func (s *inventoryScreen) apply(loaded *views.InventoryView) {
	loaded.GarageFilter = s.view.GarageFilter
	s.view = loaded
	s.syncRows()
}

func (s *inventoryScreen) syncRows() {
	rows := s.view.Rows()
	tableRows := make([]table.Row, 0, len(rows))
	for _, item := range rows {
		tableRows = append(tableRows, table.Row{
			fmt.Sprintf("%d", item.ID),
			item.ItemName,
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("%d", item.Threshold),
			classify.StockBadge(item).Label,
			string(item.Garage),
		})
	}
	s.table.SetRows(tableRows)
	if s.table.Cursor() >= len(tableRows) {
		s.table.SetCursor(0)
	}
}

func (s *inventoryScreen) cycleGarage() {
	current := s.view.GarageFilter
	next := garageCycle[0]
	for i, v := range garageCycle {
		if v == current {
			next = garageCycle[(i+1)%len(garageCycle)]
			break
		}
	}
	s.view.GarageFilter = next
	s.syncRows()
}

func (m *Model) updateInventory(msg tea.KeyMsg) tea.Cmd {
	s := m.inventory

	if msg.String() == "g" {
		s.cycleGarage()
		return nil
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (m *Model) viewInventory() string {
	s := m.inventory
	if s == nil || !s.view.Loaded {
		return "\n  " + m.spin.View() + " loading inventory\n"
	}

	critical, low := s.view.Counts()
	header := fmt.Sprintf("%s  %s  %s",
		statStyle.Render(fmt.Sprintf("%d lines", len(s.view.Rows()))),
		tintByTier(fmt.Sprintf("%d critical", critical), classify.TierCritical),
		tintByTier(fmt.Sprintf("%d low", low), classify.TierWarning))

	scope := s.view.GarageFilter
	header += helpStyle.Render("  garage=" + scope)

	return header + "\n" + s.table.View()
}
