package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ukydev/transitland-client/internal/classify"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	navStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statStyle = lipgloss.NewStyle().
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	okBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Background(lipgloss.Color("22")).
		Padding(0, 1)

	warningBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Background(lipgloss.Color("58")).
			Padding(0, 1)

	criticalBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Background(lipgloss.Color("52")).
			Padding(0, 1)

	infoBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)
)

// badgeStyle maps a derivation tier to its badge style.
func badgeStyle(tier classify.Tier) lipgloss.Style {
	switch tier {
	case classify.TierOK:
		return okBadge
	case classify.TierWarning:
		return warningBadge
	case classify.TierCritical:
		return criticalBadge
	default:
		return infoBadge
	}
}

// renderBadge renders a classification badge with its tier color.
func renderBadge(b classify.Badge) string {
	return badgeStyle(b.Tier).Render(b.Label)
}

// tintByTier colors plain text by tier, for stats rather than badges.
func tintByTier(s string, tier classify.Tier) string {
	switch tier {
	case classify.TierCritical:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
	case classify.TierWarning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(s)
	case classify.TierOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(s)
	default:
		return s
	}
}
