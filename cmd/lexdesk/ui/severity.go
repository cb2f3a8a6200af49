package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Severity is the display bucket for a priority label.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	}
	return "unknown"
}

// SeverityOf maps a backend priority label case-insensitively.
// Unrecognized labels get default styling.
func SeverityOf(priority string) Severity {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	}
	return SeverityUnknown
}

// Color returns the accent color for a severity.
func (s Severity) Color(theme Theme) lipgloss.Color {
	switch s {
	case SeverityHigh:
		return Burgundy
	case SeverityMedium:
		return Amber
	case SeverityLow:
		return Forest
	}
	return theme.Muted
}

// PriorityBox styles the prioritization result block for a label.
func (s Styles) PriorityBox(priority string) lipgloss.Style {
	c := SeverityOf(priority).Color(s.Theme)
	return s.ResultBox.
		BorderForeground(c).
		Foreground(c).
		Bold(true)
}
