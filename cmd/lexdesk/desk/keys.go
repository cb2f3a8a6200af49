package desk

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	NextTab       key.Binding
	PrevTab       key.Binding
	ToggleSidebar key.Binding
	ToggleTheme   key.Binding
	Submit        key.Binding
	Send          key.Binding
	CycleSource   key.Binding
	Open          key.Binding
	Left          key.Binding
	Right         key.Binding
	Home          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextTab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevTab:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		ToggleSidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
		ToggleTheme:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Submit:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Send:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		CycleSource:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "expand source")),
		Open:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Left:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choose")),
		Right:         key.NewBinding(key.WithKeys("right", "l")),
		Home:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "home")),
	}
}

// contextKeys adapts the key map to the help bubble for the active tab.
type contextKeys struct {
	keys keyMap
	tab  Tab
}

func (c contextKeys) ShortHelp() []key.Binding {
	k := c.keys
	switch c.tab {
	case TabClassify, TabPrioritize:
		return []key.Binding{k.Submit, k.NextTab, k.Home, k.ToggleSidebar, k.ToggleTheme, k.Quit}
	case TabChat:
		return []key.Binding{k.Send, k.CycleSource, k.NextTab, k.Home, k.ToggleTheme, k.Quit}
	}
	return []key.Binding{k.Left, k.Open, k.NextTab, k.ToggleSidebar, k.ToggleTheme, k.Quit}
}

func (c contextKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}
