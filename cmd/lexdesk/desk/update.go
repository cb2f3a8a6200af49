package desk

import (
	"lexdesk/cmd/lexdesk/ui"
	"lexdesk/internal/inference"
	"lexdesk/internal/logging"
	"lexdesk/internal/prefs"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// themeChangedMsg reports a theme saved by another lexdesk process.
type themeChangedMsg struct {
	theme prefs.Theme
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.chat.ctrl.Pending() {
			m.chat.refresh(m.styles, m.spinner.View())
		}
		return m, cmd

	case settledMsg[inference.ClassifyResult]:
		if m.classify.settle(msg.outcome) {
			logging.UI("classify settled state=%s", m.classify.ctrl.State())
		}
		return m, nil

	case settledMsg[inference.PrioritizeResult]:
		if m.prioritize.settle(msg.outcome) {
			logging.UI("prioritize settled state=%s", m.prioritize.ctrl.State())
		}
		return m, nil

	case settledMsg[inference.ChatResult]:
		if m.chat.settle(msg.outcome) {
			m.chat.refresh(m.styles, m.spinner.View())
		}
		return m, nil

	case themeChangedMsg:
		if msg.theme != m.theme {
			logging.UI("theme changed on disk: %s", msg.theme)
			m.applyTheme(msg.theme)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarCollapsed = !m.sidebarCollapsed
		m.layout.SidebarCollapsed = m.sidebarCollapsed
		m.resize(m.width, m.height)
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.tab + 1) % tabCount)

	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.tab + tabCount - 1) % tabCount)

	case key.Matches(msg, m.keys.Home) && m.tab != TabHome:
		return m, m.switchTab(TabHome)
	}

	switch m.tab {
	case TabHome:
		return m.handleHomeKey(msg)

	case TabClassify:
		if key.Matches(msg, m.keys.Submit) {
			return m, m.startRequest(m.classify.submit(m.shutdownCtx))
		}

	case TabPrioritize:
		if key.Matches(msg, m.keys.Submit) {
			return m, m.startRequest(m.prioritize.submit(m.shutdownCtx))
		}

	case TabChat:
		switch {
		case key.Matches(msg, m.keys.Send):
			cmd := m.chat.send(m.shutdownCtx)
			m.chat.refresh(m.styles, m.spinner.View())
			return m, m.startRequest(cmd)
		case key.Matches(msg, m.keys.CycleSource):
			m.chat.cycleSource()
			m.chat.refresh(m.styles, m.spinner.View())
			return m, nil
		}
	}

	return m.forward(msg)
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := len(homeCards)
	switch {
	case key.Matches(msg, m.keys.Left):
		m.homeCursor = (m.homeCursor + cards - 1) % cards
	case key.Matches(msg, m.keys.Right):
		m.homeCursor = (m.homeCursor + 1) % cards
	case key.Matches(msg, m.keys.Open):
		return m, m.switchTab(homeCards[m.homeCursor].tab)
	default:
		switch msg.String() {
		case "1", "2", "3":
			i := int(msg.Runes[0] - '1')
			m.homeCursor = i
			return m, m.switchTab(homeCards[i].tab)
		case "q":
			m.Shutdown()
			return m, tea.Quit
		}
	}
	return m, nil
}

// forward routes any other message to the active panel's input.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.tab {
	case TabClassify:
		return m, m.classify.update(msg)
	case TabPrioritize:
		return m, m.prioritize.update(msg)
	case TabChat:
		return m, m.chat.update(msg)
	}
	return m, nil
}

// startRequest pairs a request command with the spinner.
func (m Model) startRequest(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	if t == m.tab {
		return nil
	}
	logging.UI("tab %s -> %s", m.tab, t)

	m.classify.blur()
	m.prioritize.blur()
	m.chat.blur()
	m.tab = t

	switch t {
	case TabClassify:
		return m.classify.focus()
	case TabPrioritize:
		return m.prioritize.focus()
	case TabChat:
		m.chat.refresh(m.styles, m.spinner.View())
		return m.chat.focus()
	}
	return nil
}

func (m *Model) toggleTheme() {
	next := m.theme.Opposite()
	if m.prefs != nil {
		if err := m.prefs.SetTheme(next); err != nil {
			logging.Get(logging.CategoryUI).Warn("theme not saved: %v", err)
			m.status = "Theme not saved: " + err.Error()
		} else {
			m.status = ""
		}
	}
	m.applyTheme(next)
}

func (m *Model) applyTheme(t prefs.Theme) {
	m.theme = t
	m.styles = ui.NewStyles(ui.ThemeFor(t))
	m.spinner.Style = m.styles.Spinner
	m.chat.setTheme(m.styles.Theme)
	m.chat.refresh(m.styles, m.spinner.View())
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width, m.height = width, height
	m.ready = true
	m.layout = ui.NewLayoutConfig(width, height, m.sidebarCollapsed)
	m.help.Width = m.layout.ContentWidth()

	w := m.layout.ContentWidth()
	m.classify.setWidth(w)
	m.prioritize.setWidth(w)
	m.chat.setSize(m.layout, m.styles.Theme)
	m.chat.refresh(m.styles, m.spinner.View())
}
