package desk

import (
	"context"
	"errors"
	"fmt"

	"lexdesk/internal/logging"
	"lexdesk/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive desk and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Prefs != nil {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()
		err := opts.Prefs.Watch(watchCtx, func(t prefs.Theme) {
			p.Send(themeChangedMsg{theme: t})
		})
		if err != nil {
			logging.Get(logging.CategoryUI).Warn("theme changes from other sessions will not be picked up: %v", err)
		}
	}

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Shutdown()
	} else {
		m.Shutdown()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run desk: %w", err)
	}
	return nil
}
