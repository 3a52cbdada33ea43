package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ukydev/transitland-client/internal/api"
	"github.com/ukydev/transitland-client/internal/session"
)

// loginForm is the logged-out screen: email and password inputs plus the
// demo quick logins.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	message  string
	busy     bool
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 64
	email.Width = 36

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 64
	password.Width = 36

	return loginForm{email: email, password: password}
}

func (f *loginForm) focusCmd() tea.Cmd {
	return f.email.Focus()
}

// quickLogins mirror the demo accounts the server seeds.
var quickLogins = []struct {
	label    string
	email    string
	password string
}{
	{"Operation Manager", "mike@transitland.com", "mike"},
	{"Maintenance (North)", "jeff@transitland.com", "jeff"},
	{"Maintenance (South)", "tiff@transitland.com", "tiff"},
}

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	if m.login.busy {
		return nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.login.focus = (m.login.focus + 1) % 2
		if m.login.focus == 0 {
			m.login.password.Blur()
			return m.login.email.Focus()
		}
		m.login.email.Blur()
		return m.login.password.Focus()

	case "enter":
		email := m.login.email.Value()
		password := m.login.password.Value()
		if email == "" || password == "" {
			m.login.message = "Enter both email and password."
			return nil
		}
		m.login.busy = true
		m.login.message = ""
		return m.loginCmd(email, password)

	case "f1", "f2", "f3":
		idx := int(msg.String()[1] - '1')
		quick := quickLogins[idx]
		m.login.busy = true
		m.login.message = ""
		return m.loginCmd(quick.email, quick.password)
	}

	var cmd tea.Cmd
	if m.login.focus == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return cmd
}

// loginCmd runs the credential exchange and identity fetch off the loop.
func (m *Model) loginCmd(email, password string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx := context.Background()

		token, err := backend.Login(ctx, email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}

		backend.SetTokenSource(staticToken(token.AccessToken))
		user, err := backend.CurrentUser(ctx)
		if err != nil {
			return loginResultMsg{err: err}
		}

		sess, err := session.New(token.AccessToken, user)
		if err != nil {
			return loginResultMsg{err: err}
		}
		backend.SetTokenSource(sess)
		return loginResultMsg{sess: sess}
	}
}

// staticToken carries the bearer token between login and session creation.
type staticToken string

func (t staticToken) Token() string { return string(t) }

func (m *Model) applyLoginResult(msg loginResultMsg) tea.Cmd {
	m.login.busy = false
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrInvalidCredentials) {
			m.login.message = "Invalid credentials. Please try again."
		} else {
			m.login.message = "Login failed. Is the server reachable?"
		}
		return nil
	}

	m.sess = msg.sess
	return m.navigate(m.sess.Capabilities().Landing)
}

func (m *Model) viewLogin() string {
	title := titleStyle.Render("Transitland Maintenance")

	form := fmt.Sprintf("%s\n%s", m.login.email.View(), m.login.password.View())

	hints := labelStyle.Render("Quick login:")
	for i, q := range quickLogins {
		hints += fmt.Sprintf("\n  %s %s  %s",
			helpStyle.Render(fmt.Sprintf("F%d", i+1)), q.label, helpStyle.Render(q.email))
	}

	status := ""
	if m.login.busy {
		status = m.spin.View() + " signing in"
	} else if m.login.message != "" {
		status = errorStyle.Render(m.login.message)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title, "", form, "", hints, "", status, "",
		helpStyle.Render("tab switch field   enter sign in   ctrl+c quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}
