package desk

import (
	"strings"

	"lexdesk/cmd/lexdesk/ui"

	"github.com/charmbracelet/lipgloss"
)

type homeCard struct {
	tab         Tab
	description string
}

var homeCards = []homeCard{
	{TabClassify, "Categorize a case as Civil, Criminal, Constitutional and more from its description."},
	{TabPrioritize, "Score how urgently a case needs attention: High, Medium or Low."},
	{TabChat, "Research statutes and precedents with answers grounded in judicial sources."},
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch m.tab {
	case TabClassify:
		body = m.classify.view(m.styles, m.spinner.View())
	case TabPrioritize:
		body = m.prioritize.view(m.styles, m.spinner.View())
	case TabChat:
		body = m.chat.view(m.styles)
	default:
		body = m.homeView()
	}

	content := lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Render(body)

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.tabsView(),
		content,
		m.footerView(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

func (m Model) headerView() string {
	theme := "☀ light"
	if m.theme.IsDark() {
		theme = "☾ dark"
	}
	title := m.styles.Header.Render("LexDesk · " + m.tab.String())
	return title + "  " + m.styles.Muted.Render(theme)
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, tabCount)
	for t := TabHome; t < tabCount; t++ {
		style := m.styles.Tab
		if t == m.tab {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) sidebarView() string {
	var sb strings.Builder
	if !m.sidebarCollapsed {
		sb.WriteString(ui.Logo(m.styles))
		sb.WriteString("\n\n")
	}
	for t := TabHome; t < tabCount; t++ {
		label := t.icon()
		if !m.sidebarCollapsed {
			label += " " + t.String()
		}
		style := m.styles.NavItem
		if t == m.tab {
			style = m.styles.NavActive
		}
		sb.WriteString(style.Render(label))
		sb.WriteString("\n")
	}
	return m.styles.Sidebar.
		Width(m.layout.SidebarWidth()).
		Height(m.height).
		Render(sb.String())
}

func (m Model) footerView() string {
	help := m.help.View(contextKeys{keys: m.keys, tab: m.tab})
	line := m.styles.Footer.Render(help)
	if m.status != "" {
		line += "\n" + m.styles.Footer.Foreground(ui.Burgundy).Render(m.status)
	} else if m.baseURL != "" {
		line += "\n" + m.styles.Footer.Render("backend: "+m.baseURL)
	}
	return line
}

func (m Model) homeView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Legal Case Management"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Classify, prioritize and research cases with AI assistance."))
	sb.WriteString("\n\n")

	width := m.layout.ContentWidth()
	cardWidth := width/len(homeCards) - 4
	if m.layout.IsCompact {
		cardWidth = width - 4
	}

	cards := make([]string, 0, len(homeCards))
	for i, c := range homeCards {
		style := m.styles.Card
		if i == m.homeCursor {
			style = m.styles.CardFocused
		}
		text := m.styles.Bold.Render(c.tab.icon()+"  "+c.tab.String()) + "\n\n" +
			m.styles.Muted.Render(c.description)
		cards = append(cards, style.Width(cardWidth).Render(text))
	}

	if m.layout.IsCompact {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	} else {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Hint.Render("Press 1-3 or enter to open a panel."))
	return sb.String()
}
