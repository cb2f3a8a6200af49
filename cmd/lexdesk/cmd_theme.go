package main

import (
	"fmt"

	"lexdesk/internal/prefs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|toggle]",
	Short: "Show or set the persisted color theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	pm := prefs.NewManager(stateDir)
	if err := pm.Load(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if t, ok := pm.Stored(); ok {
			fmt.Fprintf(out, "%s\n", t)
		} else {
			fmt.Fprintf(out, "%s (terminal default)\n", pm.Theme())
		}
		return nil
	}

	var t prefs.Theme
	if args[0] == "toggle" {
		next, err := pm.Toggle()
		if err != nil {
			return err
		}
		t = next
	} else {
		parsed, err := prefs.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := pm.SetTheme(parsed); err != nil {
			return err
		}
		t = parsed
	}
	logger.Info("theme saved", zap.String("theme", string(t)), zap.String("path", pm.Path()))
	fmt.Fprintf(out, "Theme set to %s\n", t)
	return nil
}
