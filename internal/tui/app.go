// Package tui implements the terminal client: login, dashboard, fleet,
// work orders, inventory and bus detail screens rendered over the view
// models. All state lives in the single bubbletea event loop; fetches run
// as commands and land as messages stamped with a generation counter, so
// a result that arrives after the user has moved on is dropped.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/transitland-client/internal/api"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/session"
	"github.com/ukydev/transitland-client/internal/views"
)

// Backend is everything the TUI needs from the API layer. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	views.DataAccess
	Login(ctx context.Context, email, password string) (models.TokenResponse, error)
	CurrentUser(ctx context.Context) (models.User, error)
	UpdateMileage(ctx context.Context, busID string, mileage int) error
	SetTokenSource(ts api.TokenSource)
}

// Model is the root bubbletea model.
type Model struct {
	backend Backend

	sess      *session.Session
	route     session.Route
	prevRoute session.Route
	gen       int

	width  int
	height int

	loading bool
	errLine string
	spin    spinner.Model

	login     loginForm
	dash      *views.Dashboard
	fleet     *fleetScreen
	board     *boardScreen
	inventory *inventoryScreen
	detail    *detailScreen
}

// New creates the root model in the logged-out state.
func New(backend Backend) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &Model{
		backend: backend,
		spin:    sp,
		login:   newLoginForm(),
	}
}

// Run starts the program on the alternate screen.
func Run(backend Backend) error {
	_, err := tea.NewProgram(New(backend), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.login.focusCmd())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTables()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.sess == nil {
			return m, m.updateLogin(msg)
		}
		return m, m.updateScreen(msg)

	case loginResultMsg:
		return m, m.applyLoginResult(msg)

	case dashboardLoadedMsg:
		if msg.gen == m.gen {
			m.applyLoad(msg.err, func() { m.dash = msg.view })
		}
		return m, nil

	case fleetLoadedMsg:
		if msg.gen == m.gen {
			m.applyLoad(msg.err, func() { m.fleet.apply(msg.view) })
		}
		return m, nil

	case boardLoadedMsg:
		if msg.gen == m.gen {
			m.applyLoad(msg.err, func() { m.board.apply(msg.view) })
		}
		return m, nil

	case inventoryLoadedMsg:
		if msg.gen == m.gen {
			m.applyLoad(msg.err, func() { m.inventory.apply(msg.view) })
		}
		return m, nil

	case detailLoadedMsg:
		if msg.gen == m.gen {
			m.applyLoad(msg.err, func() { m.detail.apply(msg.view) })
		}
		return m, nil

	case detailActionMsg:
		m.applyDetailAction(msg)
		return m, nil
	}

	return m, nil
}

// applyLoad finishes an inflight fetch: a failure keeps whatever data was
// already on screen and surfaces an error line instead.
func (m *Model) applyLoad(err error, apply func()) {
	m.loading = false
	if err != nil {
		log.WithError(err).Warn("load failed")
		m.errLine = "Could not refresh data. Showing last known state."
		return
	}
	m.errLine = ""
	apply()
}

// navigate switches screens, resetting view-local state the way a fresh
// page visit would, and kicks off the load.
func (m *Model) navigate(requested session.Route) tea.Cmd {
	caps := m.sess.Capabilities()
	route := caps.ResolveRoute(requested)
	m.route = route
	m.gen++
	m.loading = true
	m.errLine = ""

	switch route {
	case session.RouteDashboard:
		return m.loadDashboard()
	case session.RouteFleet:
		m.fleet = newFleetScreen()
		m.resizeTables()
		return m.loadFleet()
	case session.RouteWorkOrders:
		m.board = newBoardScreen(m.sess.User())
		m.resizeTables()
		return m.loadBoard()
	case session.RouteInventory:
		m.inventory = newInventoryScreen(caps.DefaultGarage)
		m.resizeTables()
		return m.loadInventory()
	default:
		return nil
	}
}

// openBus enters the bus detail screen, remembering where to return.
func (m *Model) openBus(busID string) tea.Cmd {
	m.prevRoute = m.route
	m.route = session.RouteBusDetail
	m.gen++
	m.loading = true
	m.errLine = ""
	m.detail = newDetailScreen(busID)
	m.resizeTables()
	return m.loadDetail(busID)
}

// reload refreshes the current screen without resetting its criteria.
func (m *Model) reload() tea.Cmd {
	m.gen++
	m.loading = true

	switch m.route {
	case session.RouteDashboard:
		return m.loadDashboard()
	case session.RouteFleet:
		return m.loadFleet()
	case session.RouteWorkOrders:
		return m.loadBoard()
	case session.RouteInventory:
		return m.loadInventory()
	case session.RouteBusDetail:
		return m.loadDetail(m.detail.view.BusID)
	}
	return nil
}

// updateScreen routes keys to the active screen after handling the keys
// shared by every screen.
func (m *Model) updateScreen(msg tea.KeyMsg) tea.Cmd {
	if !m.typing() {
		switch msg.String() {
		case "q":
			return tea.Quit
		case "r":
			return m.reload()
		case "1", "2", "3", "4":
			nav := m.sess.Capabilities().Nav
			idx := int(msg.String()[0] - '1')
			if idx < len(nav) {
				return m.navigate(nav[idx].Route)
			}
			return nil
		}
	}

	switch m.route {
	case session.RouteDashboard:
		return nil
	case session.RouteFleet:
		return m.updateFleet(msg)
	case session.RouteWorkOrders:
		return m.updateBoard(msg)
	case session.RouteInventory:
		return m.updateInventory(msg)
	case session.RouteBusDetail:
		return m.updateDetail(msg)
	}
	return nil
}

// typing reports whether a text input currently owns the keyboard.
func (m *Model) typing() bool {
	switch m.route {
	case session.RouteFleet:
		return m.fleet != nil && m.fleet.searching
	case session.RouteWorkOrders:
		return m.board != nil && m.board.searching
	case session.RouteBusDetail:
		return m.detail != nil && m.detail.mode != detailBrowse
	}
	return false
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess == nil {
		return m.viewLogin()
	}

	header := m.viewHeader()
	var body string
	switch m.route {
	case session.RouteDashboard:
		body = m.viewDashboard()
	case session.RouteFleet:
		body = m.viewFleet()
	case session.RouteWorkOrders:
		body = m.viewBoard()
	case session.RouteInventory:
		body = m.viewInventory()
	case session.RouteBusDetail:
		body = m.viewDetail()
	}

	footer := m.viewFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// viewHeader renders the title bar and the role-resolved navigation.
func (m *Model) viewHeader() string {
	caps := m.sess.Capabilities()

	nav := ""
	for i, item := range caps.Nav {
		label := item.Label
		style := navStyle
		if item.Route == m.route {
			style = navActiveStyle
		}
		if nav != "" {
			nav += "  "
		}
		nav += style.Render(labelForIndex(i, label))
	}

	user := m.sess.User()
	who := labelStyle.Render(user.DisplayName() + " (" + string(user.Role) + ")")
	title := titleStyle.Render("Transitland Maintenance")
	return title + "   " + nav + "   " + who
}

func labelForIndex(i int, label string) string {
	return string(rune('1'+i)) + ":" + label
}

// viewFooter renders the status line: spinner, error line or key help.
func (m *Model) viewFooter() string {
	if m.loading {
		return m.spin.View() + " loading"
	}
	if m.errLine != "" {
		return errorStyle.Render(m.errLine)
	}
	return helpStyle.Render(m.footerHelp())
}

func (m *Model) footerHelp() string {
	base := "r refresh   q quit"
	switch m.route {
	case session.RouteFleet:
		return "/ search   f location   s status   p pm   o sort   enter open bus   " + base
	case session.RouteWorkOrders:
		help := "/ search   c critical   d direction   enter open bus   "
		if m.board != nil && m.board.view != nil && m.board.view.Maintenance() {
			help = "a all garages   " + help
		}
		return help + base
	case session.RouteInventory:
		return "g garage   " + base
	case session.RouteBusDetail:
		return m.detailHelp() + base
	}
	return base
}
