package main

import (
	"context"
	"fmt"
	"time"

	"lexdesk/cmd/lexdesk/desk"
	"lexdesk/internal/inference"
	"lexdesk/internal/logging"
	"lexdesk/internal/mockbackend"
	"lexdesk/internal/prefs"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var withMock bool

// runDesk launches the interactive desk, optionally alongside a mock backend.
func runDesk(cmd *cobra.Command, args []string) error {
	pm := prefs.NewManager(stateDir)
	if err := pm.Load(); err != nil {
		logging.Get(logging.CategoryPrefs).Warn("using default theme: %v", err)
	}

	opts := desk.Options{
		Prefs:            pm,
		SidebarCollapsed: cfg.UI.SidebarCollapsed,
		BaseURL:          cfg.ResolveBaseURL(),
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	if !withMock {
		opts.Backend = newClient()
		return desk.Run(ctx, opts)
	}

	shutdown, url, err := mockbackend.Start("127.0.0.1:0", mockbackend.Options{})
	if err != nil {
		return fmt.Errorf("failed to start mock backend: %w", err)
	}
	opts.BaseURL = url
	opts.Backend = inference.NewClient(inference.Options{BaseURL: url, Timeout: cfg.GetTimeout()})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return desk.Run(gctx, opts)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		return shutdown(sctx)
	})
	return g.Wait()
}
