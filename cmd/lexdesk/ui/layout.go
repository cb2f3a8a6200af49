package ui

// Layout constants for consistent spacing and dimensions
const (
	SidebarWidth          = 26
	SidebarCollapsedWidth = 5

	HeaderHeight   = 2
	FooterHeight   = 2
	TabBarHeight   = 2
	ContentPadding = 4

	ChatInputHeight = 3
	TextareaHeight  = 8

	MinimumTerminalWidth  = 60
	MinimumTerminalHeight = 20
	CompactModeWidth      = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth    int
	TerminalHeight   int
	SidebarCollapsed bool
	IsCompact        bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int, sidebarCollapsed bool) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:    width,
		TerminalHeight:   height,
		SidebarCollapsed: sidebarCollapsed,
		IsCompact:        width < CompactModeWidth,
	}
}

// SidebarWidth returns the rendered sidebar width.
func (l LayoutConfig) SidebarWidth() int {
	if l.SidebarCollapsed {
		return SidebarCollapsedWidth
	}
	return SidebarWidth
}

// ContentWidth returns the usable width right of the sidebar.
func (l LayoutConfig) ContentWidth() int {
	return clampMin(l.TerminalWidth-l.SidebarWidth()-ContentPadding, 20)
}

// ContentHeight returns the usable height between header, tabs and footer.
func (l LayoutConfig) ContentHeight() int {
	return clampMin(l.TerminalHeight-HeaderHeight-TabBarHeight-FooterHeight, 5)
}

// TranscriptHeight is the chat viewport height once the input row is reserved.
func (l LayoutConfig) TranscriptHeight() int {
	return clampMin(l.ContentHeight()-ChatInputHeight-1, 3)
}

// MarkdownWidth is the wrap width for rendered answers.
func (l LayoutConfig) MarkdownWidth() int {
	return clampMin(l.ContentWidth()-4, 20)
}

func clampMin(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
