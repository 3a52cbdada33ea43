package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ukydev/transitland-client/internal/api"
	"github.com/ukydev/transitland-client/internal/classify"
	"github.com/ukydev/transitland-client/internal/models"
	"github.com/ukydev/transitland-client/internal/query"
	"github.com/ukydev/transitland-client/internal/views"
)

const historyDisplayCap = 10

type detailMode int

const (
	detailBrowse detailMode = iota
	detailNewOrder
	detailAddPart
	detailMileage
)

// detailScreen is the single-bus screen: header stats, open orders with
// their parts, history and the maintenance action forms.
type detailScreen struct {
	view *views.BusDetail

	table table.Model
	mode  detailMode

	// new work order form
	desc     textinput.Model
	severity models.Severity

	// add part form
	partItem  textinput.Model
	partQty   textinput.Model
	partFocus int

	// mileage form
	mileage textinput.Model
}

// detailActionMsg reports a fire-and-confirm action plus its full reload.
type detailActionMsg struct {
	gen  int
	view *views.BusDetail
	err  error
}

func newDetailScreen(busID string) *detailScreen {
	desc := textinput.New()
	desc.Placeholder = "description"
	desc.CharLimit = 120
	desc.Width = 48

	partItem := textinput.New()
	partItem.Placeholder = "inventory id"
	partItem.CharLimit = 6
	partItem.Width = 14

	partQty := textinput.New()
	partQty.Placeholder = "quantity"
	partQty.CharLimit = 6
	partQty.Width = 14

	mileage := textinput.New()
	mileage.Placeholder = "new mileage"
	mileage.CharLimit = 8
	mileage.Width = 14

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 5},
			{Title: "Sev", Width: 5},
			{Title: "Date", Width: 11},
			{Title: "Description", Width: 40},
			{Title: "Reported by", Width: 14},
		}),
		table.WithFocused(true),
	)

	return &detailScreen{
		view:     views.NewBusDetail(busID),
		table:    t,
		severity: models.SeveritySEV3,
		desc:     desc,
		partItem: partItem,
		partQty:  partQty,
		mileage:  mileage,
	}
}

func (s *detailScreen) apply(loaded *views.BusDetail) {
	s.view = loaded
	s.syncRows()
}

func (s *detailScreen) syncRows() {
	open := s.view.OpenOrders()
	rows := make([]table.Row, 0, len(open))
	for _, wo := range open {
		rows = append(rows, table.Row{
			strconv.Itoa(wo.ID),
			classify.SeverityBadge(wo).Label,
			wo.Date.Format("2006-01-02"),
			wo.Description,
			wo.Reporter(),
		})
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) {
		s.table.SetCursor(0)
	}
}

// selectedOrderID returns the open order under the cursor, or 0.
func (s *detailScreen) selectedOrderID() int {
	row := s.table.SelectedRow()
	if row == nil {
		return 0
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return 0
	}
	return id
}

// detailAction runs an action on a copy of the view off the event loop.
// The copy carries the loaded snapshot, so local validation sees current
// data; on success the reloaded copy is swapped in.
func (m *Model) detailAction(action func(context.Context, *views.BusDetail) error) tea.Cmd {
	m.gen++
	m.loading = true
	gen := m.gen
	clone := *m.detail.view
	return func() tea.Msg {
		err := action(context.Background(), &clone)
		return detailActionMsg{gen: gen, view: &clone, err: err}
	}
}

// applyDetailAction surfaces action failures with their real cause; a
// failed action leaves the screen's data untouched.
func (m *Model) applyDetailAction(msg detailActionMsg) {
	if msg.gen != m.gen {
		return
	}
	m.loading = false
	if msg.err != nil {
		m.errLine = actionErrorLine(msg.err)
		return
	}
	m.errLine = ""
	m.detail.apply(msg.view)
}

func actionErrorLine(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, views.ErrQuantityNotPositive):
		return "Quantity must be a positive number."
	case errors.Is(err, views.ErrInsufficientStock):
		return "Not enough stock for that quantity."
	case errors.Is(err, views.ErrUnknownInventoryID):
		return "No inventory item with that ID."
	case errors.As(err, &apiErr) && apiErr.Detail != "":
		return apiErr.Detail
	default:
		return "Action failed. Showing last known state."
	}
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	s := m.detail

	switch s.mode {
	case detailNewOrder:
		return m.updateNewOrderForm(msg)
	case detailAddPart:
		return m.updateAddPartForm(msg)
	case detailMileage:
		return m.updateMileageForm(msg)
	}

	caps := m.sess.Capabilities()
	switch msg.String() {
	case "esc":
		return m.navigate(m.prevRoute)
	case "n":
		if caps.CanCreateWorkOrder {
			s.mode = detailNewOrder
			s.desc.SetValue("")
			s.severity = models.SeveritySEV3
			return s.desc.Focus()
		}
		return nil
	case "u":
		if caps.CanAddUsedPart && s.selectedOrderID() != 0 {
			s.mode = detailAddPart
			s.partItem.SetValue("")
			s.partQty.SetValue("")
			s.partFocus = 0
			return s.partItem.Focus()
		}
		return nil
	case "x":
		if caps.CanMarkFixed {
			if id := s.selectedOrderID(); id != 0 {
				backend := m.backend
				return m.detailAction(func(ctx context.Context, v *views.BusDetail) error {
					return v.MarkFixed(ctx, backend, id)
				})
			}
		}
		return nil
	case "m":
		s.mode = detailMileage
		s.mileage.SetValue("")
		return s.mileage.Focus()
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return cmd
}

func (m *Model) updateNewOrderForm(msg tea.KeyMsg) tea.Cmd {
	s := m.detail
	switch msg.String() {
	case "esc":
		s.mode = detailBrowse
		s.desc.Blur()
		return nil
	case "ctrl+s":
		description := strings.TrimSpace(s.desc.Value())
		if description == "" {
			m.errLine = "Description is required."
			return nil
		}
		s.mode = detailBrowse
		s.desc.Blur()
		backend := m.backend
		severity := s.severity
		reporter := m.sess.User().Email
		return m.detailAction(func(ctx context.Context, v *views.BusDetail) error {
			return v.CreateWorkOrder(ctx, backend, description, severity, reporter)
		})
	case "ctrl+1":
		s.severity = models.SeveritySEV1
		return nil
	case "ctrl+2":
		s.severity = models.SeveritySEV2
		return nil
	case "ctrl+3":
		s.severity = models.SeveritySEV3
		return nil
	}

	var cmd tea.Cmd
	s.desc, cmd = s.desc.Update(msg)
	return cmd
}

func (m *Model) updateAddPartForm(msg tea.KeyMsg) tea.Cmd {
	s := m.detail
	switch msg.String() {
	case "esc":
		s.mode = detailBrowse
		s.partItem.Blur()
		s.partQty.Blur()
		return nil
	case "tab", "shift+tab":
		s.partFocus = (s.partFocus + 1) % 2
		if s.partFocus == 0 {
			s.partQty.Blur()
			return s.partItem.Focus()
		}
		s.partItem.Blur()
		return s.partQty.Focus()
	case "enter":
		itemID, err := strconv.Atoi(strings.TrimSpace(s.partItem.Value()))
		if err != nil {
			m.errLine = "No inventory item with that ID."
			return nil
		}
		qty, err := strconv.Atoi(strings.TrimSpace(s.partQty.Value()))
		if err != nil {
			m.errLine = "Quantity must be a positive number."
			return nil
		}
		orderID := s.selectedOrderID()
		if orderID == 0 {
			s.mode = detailBrowse
			return nil
		}
		s.mode = detailBrowse
		s.partItem.Blur()
		s.partQty.Blur()
		backend := m.backend
		return m.detailAction(func(ctx context.Context, v *views.BusDetail) error {
			return v.AddPart(ctx, backend, orderID, itemID, qty)
		})
	}

	var cmd tea.Cmd
	if s.partFocus == 0 {
		s.partItem, cmd = s.partItem.Update(msg)
	} else {
		s.partQty, cmd = s.partQty.Update(msg)
	}
	return cmd
}

func (m *Model) updateMileageForm(msg tea.KeyMsg) tea.Cmd {
	s := m.detail
	switch msg.String() {
	case "esc":
		s.mode = detailBrowse
		s.mileage.Blur()
		return nil
	case "enter":
		mileage, err := strconv.Atoi(strings.TrimSpace(s.mileage.Value()))
		if err != nil || mileage < 0 {
			m.errLine = "Mileage must be a non-negative number."
			return nil
		}
		s.mode = detailBrowse
		s.mileage.Blur()
		backend := m.backend
		busID := s.view.BusID
		return m.detailAction(func(ctx context.Context, v *views.BusDetail) error {
			if err := backend.UpdateMileage(ctx, busID, mileage); err != nil {
				return err
			}
			return v.Reload(ctx, backend)
		})
	}

	var cmd tea.Cmd
	s.mileage, cmd = s.mileage.Update(msg)
	return cmd
}

func (m *Model) detailHelp() string {
	caps := m.sess.Capabilities()
	help := ""
	if caps.CanCreateWorkOrder {
		help += "n new order   "
	}
	if caps.CanAddUsedPart {
		help += "u use part   "
	}
	if caps.CanMarkFixed {
		help += "x mark fixed   "
	}
	return help + "m mileage   esc back   "
}

func (m *Model) viewDetail() string {
	s := m.detail
	if s == nil || !s.view.Loaded {
		return "\n  " + m.spin.View() + " loading bus\n"
	}

	bus := s.view.Bus
	header := titleStyle.Render("Bus "+bus.ID) + "  " + labelStyle.Render(bus.Model) + "\n" +
		renderBadge(classify.BusStatusBadge(bus))
	if badge := classify.PMBadge(bus); badge != nil {
		header += " " + renderBadge(*badge)
	}
	header += fmt.Sprintf("\n%s %s   %s %s   %s %s",
		labelStyle.Render("Location:"), string(bus.Location),
		labelStyle.Render("Mileage:"), strconv.Itoa(bus.Mileage),
		labelStyle.Render("Since service:"),
		tintByTier(strconv.Itoa(bus.MileageSinceService()), s.view.SinceServiceTier()))

	open := titleStyle.Render("Open work orders") + "\n" + s.table.View()
	open += "\n" + s.renderSelectedParts()

	history := s.renderHistory()

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", open, "", history)
	if s.mode != detailBrowse {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", s.renderForm())
	}
	return body
}

// renderSelectedParts lists the parts drawn against the selected order.
func (s *detailScreen) renderSelectedParts() string {
	id := s.selectedOrderID()
	if id == 0 {
		return ""
	}
	parts := s.view.Parts[id]
	if len(parts) == 0 {
		return helpStyle.Render("  no parts drawn")
	}
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, fmt.Sprintf("  %s x%d", s.view.PartLabel(p), p.QuantityUsed))
	}
	return labelStyle.Render("Parts used:") + "\n" + strings.Join(lines, "\n")
}

func (s *detailScreen) renderHistory() string {
	history := query.Truncate(s.view.History(), historyDisplayCap)
	out := titleStyle.Render("History") + "\n"
	if len(history) == 0 {
		return out + helpStyle.Render("  no fixed work orders")
	}
	for _, wo := range history {
		out += fmt.Sprintf("  %s %s  %s  %s\n",
			wo.Date.Format("2006-01-02"),
			classify.SeverityBadge(wo).Label,
			wo.Description,
			helpStyle.Render(wo.Reporter()))
	}
	return out
}

func (s *detailScreen) renderForm() string {
	switch s.mode {
	case detailNewOrder:
		return titleStyle.Render("New work order") + "\n" +
			s.desc.View() + "\n" +
			labelStyle.Render("Severity: ") + string(s.severity) + "\n" +
			helpStyle.Render("ctrl+1/2/3 severity   ctrl+s save   esc cancel")
	case detailAddPart:
		return titleStyle.Render(fmt.Sprintf("Use part on order #%d", s.selectedOrderID())) + "\n" +
			s.partItem.View() + "  " + s.partQty.View() + "\n" +
			helpStyle.Render("tab switch field   enter save   esc cancel")
	case detailMileage:
		return titleStyle.Render("Update mileage") + "\n" +
			s.mileage.View() + "\n" +
			helpStyle.Render("enter save   esc cancel")
	}
	return ""
}
