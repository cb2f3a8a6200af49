package ui

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer builds a glamour renderer matching the theme.
// It returns nil when glamour cannot be initialized; RenderMarkdown then
// falls back to plain text.
func NewMarkdownRenderer(theme Theme, width int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// RenderMarkdown renders markdown with panic recovery
func RenderMarkdown(r *glamour.TermRenderer, content string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			result = content
		}
	}()

	if r != nil && content != "" {
		rendered, err := r.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}
