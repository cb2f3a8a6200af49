package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lexdesk/internal/config"
	"lexdesk/internal/inference"
	"lexdesk/internal/logging"
	"lexdesk/internal/mockbackend"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	baseURLFlag string
	timeoutFlag time.Duration

	// Resolved at startup
	cfg      *config.Config
	stateDir string

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lexdesk",
	Short: "LexDesk - legal case classification, prioritization and research",
	Long: `LexDesk is a terminal client for the legal case management backend.

It classifies cases into legal categories, scores their priority, and
answers research questions with citations to judicial sources.

Run without arguments to start the interactive desk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}

		// The interactive desk owns the terminal, so it only logs to files.
		if cmd == cmd.Root() {
			return nil
		}

		zc := zap.NewProductionConfig()
		if verbose || logging.IsDebugMode() {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
		logging.CloseAll()
	},
	RunE: runDesk,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .lexdesk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Backend origin (overrides build mode)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Request timeout (0 = none)")

	rootCmd.Flags().BoolVar(&withMock, "mock", false, "Serve a local mock backend for this session")

	mockBackendCmd.Flags().StringVar(&mockAddr, "addr", mockbackend.DefaultAddr, "Listen address")
	mockBackendCmd.Flags().DurationVar(&mockDelay, "delay", 0, "Artificial latency per inference response")

	rootCmd.AddCommand(classifyCmd, prioritizeCmd, chatCmd, themeCmd, mockBackendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file, applies flag overrides and starts
// file logging next to it.
func loadConfig(cmd *cobra.Command) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if baseURLFlag != "" {
		c.Backend.BaseURL = baseURLFlag
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		c.Backend.Timeout = timeoutFlag.String()
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = c
	stateDir = filepath.Dir(path)

	if err := logging.Initialize(stateDir, c.Logging.Settings()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("config loaded from %s backend=%s timeout=%s", path, c.ResolveBaseURL(), c.GetTimeout())
	return nil
}

// newClient builds the inference client from the resolved config.
func newClient() *inference.Client {
	return inference.NewClient(inference.Options{
		BaseURL: cfg.ResolveBaseURL(),
		Timeout: cfg.GetTimeout(),
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
