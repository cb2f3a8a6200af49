// Package desk is the interactive lexdesk terminal UI: a sidebar, a home
// view and the classification, prioritization and research-chat panels.
package desk

import (
	"context"
	"fmt"
	"sync"

	"lexdesk/cmd/lexdesk/ui"
	"lexdesk/internal/inference"
	"lexdesk/internal/logging"
	"lexdesk/internal/panel"
	"lexdesk/internal/prefs"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Tab identifies a top-level view.
type Tab int

const (
	TabHome Tab = iota
	TabClassify
	TabPrioritize
	TabChat
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabClassify:
		return "Case Classification"
	case TabPrioritize:
		return "Case Prioritization"
	case TabChat:
		return "Legal Assistant"
	}
	return "Home"
}

func (t Tab) icon() string {
	switch t {
	case TabClassify:
		return "§"
	case TabPrioritize:
		return "!"
	case TabChat:
		return "?"
	}
	return "⌂"
}

// Backend is everything the desk needs from the inference client.
type Backend interface {
	panel.Classifier
	panel.Prioritizer
	panel.ChatClient
}

// Options configures a Model.
type Options struct {
	Backend          Backend
	Prefs            *prefs.Manager // nil keeps the theme in memory only
	Theme            prefs.Theme    // initial theme; empty uses Prefs or the terminal
	SidebarCollapsed bool
	BaseURL          string // shown in the footer
}

// Model is the root bubbletea model.
type Model struct {
	styles  ui.Styles
	layout  ui.LayoutConfig
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	tab              Tab
	homeCursor       int
	sidebarCollapsed bool
	theme            prefs.Theme
	prefs            *prefs.Manager
	baseURL          string
	status           string

	classify   *analysisPage[inference.ClassifyRequest, inference.ClassifyResult]
	prioritize *analysisPage[inference.PrioritizeRequest, inference.PrioritizeResult]
	chat       *chatPage

	width  int
	height int
	ready  bool

	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	shutdownOnce   *sync.Once
}

// New builds the root model. Requests run under ctx until Shutdown.
func New(ctx context.Context, opts Options) Model {
	theme := opts.Theme
	if theme == "" {
		if opts.Prefs != nil {
			theme = opts.Prefs.Theme()
		} else {
			theme = prefs.Ambient()
		}
	}
	styles := ui.NewStyles(ui.ThemeFor(theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	shutdownCtx, cancel := context.WithCancel(ctx)

	m := Model{
		styles:           styles,
		layout:           ui.NewLayoutConfig(100, 30, opts.SidebarCollapsed),
		keys:             defaultKeyMap(),
		help:             help.New(),
		spinner:          sp,
		tab:              TabHome,
		sidebarCollapsed: opts.SidebarCollapsed,
		theme:            theme,
		prefs:            opts.Prefs,
		baseURL:          opts.BaseURL,
		shutdownCtx:      shutdownCtx,
		shutdownCancel:   cancel,
		shutdownOnce:     &sync.Once{},
	}

	m.classify = &analysisPage[inference.ClassifyRequest, inference.ClassifyResult]{
		tab:         TabClassify,
		title:       "Case Classification",
		subtitle:    "Identify the legal category of a case from its description.",
		pendingText: "Classifying case...",
		resultLabel: "Classify case",
		ctrl:        panel.NewClassify(opts.Backend),
		input:       newTextarea("Enter the case description..."),
		render: func(s ui.Styles, res inference.ClassifyResult) string {
			return s.Muted.Render("Predicted Category") + "\n" + s.ResultBox.Render(res.Category)
		},
	}
	m.prioritize = &analysisPage[inference.PrioritizeRequest, inference.PrioritizeResult]{
		tab:         TabPrioritize,
		title:       "Case Prioritization",
		subtitle:    "Estimate how urgently a case needs attention.",
		pendingText: "Analyzing priority...",
		resultLabel: "Analyze priority",
		ctrl:        panel.NewPrioritize(opts.Backend),
		input:       newTextarea("Enter the case details..."),
		render: func(s ui.Styles, res inference.PrioritizeResult) string {
			sev := ui.SeverityOf(res.Priority)
			label := res.Priority
			if sev != ui.SeverityUnknown {
				label = fmt.Sprintf("%s  (%s severity)", res.Priority, sev)
			}
			return s.Muted.Render("Priority Level") + "\n" + s.PriorityBox(res.Priority).Render(label)
		},
	}
	m.chat = newChatPage(opts.Backend, styles.Theme)
	m.chat.refresh(m.styles, m.spinner.View())

	logging.Get(logging.CategoryUI).Debug("desk created theme=%s sidebar_collapsed=%v", theme, opts.SidebarCollapsed)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Shutdown cancels in-flight requests. Safe to call more than once.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.shutdownCancel != nil {
			m.shutdownCancel()
		}
		logging.UI("desk shut down")
	})
}

// Tab returns the active view.
func (m Model) Tab() Tab { return m.tab }

// Theme returns the active theme.
func (m Model) Theme() prefs.Theme { return m.theme }

// SidebarCollapsed reports whether the sidebar is collapsed.
func (m Model) SidebarCollapsed() bool { return m.sidebarCollapsed }

func (m Model) anyLoading() bool {
	return m.classify.ctrl.Loading() || m.prioritize.ctrl.Loading() || m.chat.ctrl.Loading()
}
