package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"lexdesk/internal/mockbackend"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	mockAddr  string
	mockDelay time.Duration
)

var mockBackendCmd = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve a local stand-in for the inference backend",
	Long: `Serves /api/v1/classify, /api/v1/prioritize and /api/v1/chat with
keyword heuristics so the desk can be exercised without the real models.

Example:
  lexdesk mock-backend --addr 127.0.0.1:8000 --delay 750ms`,
	Args: cobra.NoArgs,
	RunE: runMockBackend,
}

func runMockBackend(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serveMock(ctx, cmd, mockAddr, mockDelay)
}

// serveMock runs the mock backend until ctx is done.
func serveMock(ctx context.Context, cmd *cobra.Command, addr string, delay time.Duration) error {
	shutdown, url, err := mockbackend.Start(addr, mockbackend.Options{Delay: delay})
	if err != nil {
		return fmt.Errorf("failed to start mock backend: %w", err)
	}
	logger.Info("mock backend listening", zap.String("url", url), zap.Duration("delay", delay))
	fmt.Fprintf(cmd.OutOrStdout(), "Mock backend listening on %s\n", url)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			return fmt.Errorf("failed to stop mock backend: %w", err)
		}
		logger.Info("mock backend stopped")
		return nil
	})
	return g.Wait()
}
