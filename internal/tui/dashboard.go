package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
	"github.com/ukydev/transitland-client/internal/views"
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 2).
	MarginRight(1)

func (m *Model) viewDashboard() string {
	if m.dash == nil || !m.dash.Loaded {
		return "\n  " + m.spin.View() + " loading dashboard\n"
	}

	agg := m.dash.Aggregate()

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Fleet", fmt.Sprintf("%d buses", agg.TotalBuses)),
		card("On Service", fmt.Sprintf("%d (%.0f%%)", agg.ActiveBuses, agg.ActivePercent)),
		card("In Maintenance", fmt.Sprintf("%d (%.0f%%)", agg.InMaintenance, agg.MaintenancePercent)),
		card("PM Overdue", tintByTier(fmt.Sprintf("%d (%.0f%%)", agg.OverduePM, agg.OverduePMPercent), overdueTier(agg.OverduePM))),
		card("Critical Stock", tintByTier(fmt.Sprintf("%d items", agg.CriticalInventory), overdueTier(agg.CriticalInventory))),
	)

	garages := lipgloss.JoinHorizontal(lipgloss.Top,
		garageCard("North Garage", agg.North),
		garageCard("South Garage", agg.South),
	)

	backlog := renderBacklog(agg.Backlog)
	stock := renderStockLines(query.Truncate(agg.InventoryRows, views.BacklogDisplayCap))

	return lipgloss.JoinVertical(lipgloss.Left, cards, garages, backlog, stock)
}

func overdueTier(n int) classify.Tier {
	if n > 0 {
		return classify.TierCritical
	}
	return classify.TierOK
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + statStyle.Render(value))
}

func garageCard(label string, g views.GarageBreakdown) string {
	body := fmt.Sprintf("%d buses\n%s  %s  %s",
		g.Total,
		tintByTier(fmt.Sprintf("%d ready", g.Ready), classify.TierOK),
		tintByTier(fmt.Sprintf("%d needs maint.", g.NeedsMaintenance), classify.TierWarning),
		tintByTier(fmt.Sprintf("%d critical", g.Critical), classify.TierCritical))
	return cardStyle.Render(labelStyle.Render(label) + "\n" + body)
}

func renderBacklog(orders []models.WorkOrder) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Open work orders") + "\n")
	if len(orders) == 0 {
		b.WriteString(helpStyle.Render("  nothing open") + "\n")
		return b.String()
	}
	for _, wo := range orders {
		badge := classify.SeverityBadge(wo)
		b.WriteString(fmt.Sprintf("  %s %-8s %s  %s\n",
			renderBadge(badge),
			wo.BusID,
			wo.Description,
			helpStyle.Render(wo.Reporter())))
	}
	return b.String()
}

func renderStockLines(items []models.InventoryItem) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inventory watch") + "\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("  %s %-28s %3d/%d  %s\n",
			renderBadge(classify.StockBadge(item)),
			item.ItemName,
			item.Quantity,
			item.Threshold,
			helpStyle.Render(string(item.Garage)+" Garage")))
	}
	return b.String()
}
