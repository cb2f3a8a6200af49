// Package ui provides the visual styling for the lexdesk terminal client.
// The palette follows the legal brand colors with light/dark mode support.
package ui

import (
	"strings"

	"lexdesk/internal/prefs"

	"github.com/charmbracelet/lipgloss"
)

// Brand palette
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f8f6f1") // parchment
	LightForeground = lipgloss.Color("#1b2a4a") // royal navy
	LightPrimary    = lipgloss.Color("#1e3a8a") // royal blue
	LightAccent     = lipgloss.Color("#b8860b") // dark goldenrod
	LightSecondary  = lipgloss.Color("#ece7dc")
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#d6cfbf")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#0f172a")
	DarkForeground = lipgloss.Color("#f1f5f9")
	DarkPrimary    = lipgloss.Color("#d4af37") // gold (flipped)
	DarkAccent     = lipgloss.Color("#93c5fd") // light royal (flipped)
	DarkSecondary  = lipgloss.Color("#1e293b")
	DarkMuted      = lipgloss.Color("#94a3b8")
	DarkBorder     = lipgloss.Color("#334155")
	DarkCard       = lipgloss.Color("#1e293b")

	// Semantic Colors (same in both modes)
	Burgundy = lipgloss.Color("#800020") // errors, high priority
	Amber    = lipgloss.Color("#d97706") // medium priority
	Forest   = lipgloss.Color("#228b22") // low priority, success
	Slate    = lipgloss.Color("#64748b") // unknown priority
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor maps a stored preference to a palette.
func ThemeFor(t prefs.Theme) Theme {
	if t.IsDark() {
		return DarkTheme()
	}
	return LightTheme()
}

// DetectTheme returns the palette for the ambient terminal preference.
func DetectTheme() Theme {
	return ThemeFor(prefs.Ambient())
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	App     lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style
	Sidebar lipgloss.Style

	// Navigation
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Chat
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserInput      lipgloss.Style
	AgentResponse  lipgloss.Style
	SourceCard     lipgloss.Style
	SourceTitle    lipgloss.Style

	// Panels
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	ResultBox   lipgloss.Style
	ErrorBox    lipgloss.Style
	Hint        lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Background).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Sidebar: lipgloss.NewStyle().
			Padding(1, 1).
			BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Border),

		NavItem: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1),

		NavActive: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Accent).
			Padding(0, 1).
			Bold(true),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Padding(0, 2).
			Bold(true).
			Underline(true),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginTop(1),

		AssistantLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			MarginTop(1),

		UserInput: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		AgentResponse: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		SourceCard: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		SourceTitle: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Card: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		CardFocused: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent),

		ResultBox: lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),

		ErrorBox: lipgloss.NewStyle().
			Foreground(Burgundy).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Burgundy).
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(theme.Background).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles for the ambient theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// Logo returns the lexdesk wordmark
func Logo(s Styles) string {
	return s.Title.Render("⚖  LexDesk") + "\n" + s.Subtitle.Render("Legal case management")
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
