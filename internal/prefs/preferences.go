// Package prefs persists the single user preference lexdesk keeps between
// sessions: the light/dark theme.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"lexdesk/internal/logging"

	"github.com/charmbracelet/lipgloss"
)

// FileName is the preferences file inside the config directory.
const FileName = "preferences.json"

// Theme names a color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a user-supplied theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool { return t == ThemeDark }

// Preferences is the on-disk schema.
type Preferences struct {
	Theme Theme `json:"theme,omitempty"`
}

// hasDarkBackground queries the terminal; replaced in tests.
var hasDarkBackground = lipgloss.HasDarkBackground

// Ambient returns the terminal's preferred theme. LEXDESK_DARK_MODE wins,
// then COLORFGBG, then lipgloss background detection.
func Ambient() Theme {
	switch os.Getenv("LEXDESK_DARK_MODE") {
	case "1", "true":
		return ThemeDark
	case "0", "false":
		return ThemeLight
	}

	// COLORFGBG is "fg;bg"; background indexes 0-6 and 8 are dark.
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) >= 2 {
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return ThemeDark
			}
			return ThemeLight
		}
	}

	if hasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// Manager loads and saves preferences.json.
type Manager struct {
	mu    sync.RWMutex
	path  string
	prefs Preferences
}

// NewManager creates a manager for the preferences file in dir.
func NewManager(dir string) *Manager {
	return &Manager{path: filepath.Join(dir, FileName)}
}

// Path returns the preferences file location.
func (m *Manager) Path() string { return m.path }

// Load reads preferences from disk. A missing file leaves defaults in place.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.prefs = Preferences{}
			return nil
		}
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}
	if p.Theme != "" {
		if _, err := ParseTheme(string(p.Theme)); err != nil {
			logging.Get(logging.CategoryPrefs).Warn("ignoring stored theme: %v", err)
			p.Theme = ""
		}
	}

	m.prefs = p
	return nil
}

// Save writes preferences to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	p := m.prefs
	m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	logging.Prefs("saved theme=%s to %s", p.Theme, m.path)
	return nil
}

// Stored returns the persisted theme, if one was set.
func (m *Manager) Stored() (Theme, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs.Theme, m.prefs.Theme != ""
}

// Theme returns the stored theme or the ambient one when unset.
func (m *Manager) Theme() Theme {
	if t, ok := m.Stored(); ok {
		return t
	}
	return Ambient()
}

// SetTheme records and saves t.
func (m *Manager) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	m.mu.Lock()
	m.prefs.Theme = t
	m.mu.Unlock()
	return m.Save()
}

// Toggle flips the effective theme, saves it, and returns the new value.
func (m *Manager) Toggle() (Theme, error) {
	next := m.Theme().Opposite()
	if err := m.SetTheme(next); err != nil {
		return m.Theme(), err
	}
	return next, nil
}
