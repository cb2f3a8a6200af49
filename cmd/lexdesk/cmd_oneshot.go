package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"lexdesk/cmd/lexdesk/ui"
	"lexdesk/internal/panel"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errEmptyInput = errors.New("input is empty: pass text as arguments or on stdin")

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify a case description into a legal category",
	Long: `Sends the case description to the classification endpoint and prints
the predicted category. Reads stdin when no arguments are given.

Example:
  lexdesk classify "Tenant vs landlord eviction dispute"`,
	RunE: runClassify,
}

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize [text...]",
	Short: "Score how urgently a case needs attention",
	RunE:  runPrioritize,
}

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask the legal research assistant a single question",
	Long: `Asks one question with no prior conversation and prints the answer
followed by the judicial sources it cites.`,
	RunE: runChat,
}

// readInput joins args, falling back to stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return joinArgs(args), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := panel.NewClassify(newClient())
	ctrl.SetInput(text)
	if !ctrl.Do(ctx) {
		return errEmptyInput
	}
	if msg := ctrl.Err(); msg != "" {
		logger.Warn("classification failed", zap.String("message", msg))
		return errors.New(msg)
	}

	res, _ := ctrl.Result()
	logger.Debug("classified", zap.String("category", res.Category))
	fmt.Fprintf(cmd.OutOrStdout(), "Category: %s\n", res.Category)
	return nil
}

func runPrioritize(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := panel.NewPrioritize(newClient())
	ctrl.SetInput(text)
	if !ctrl.Do(ctx) {
		return errEmptyInput
	}
	if msg := ctrl.Err(); msg != "" {
		logger.Warn("prioritization failed", zap.String("message", msg))
		return errors.New(msg)
	}

	res, _ := ctrl.Result()
	sev := ui.SeverityOf(res.Priority)
	logger.Debug("prioritized", zap.String("priority", res.Priority), zap.Stringer("severity", sev))

	label := lipgloss.NewStyle().Foreground(sev.Color(ui.DetectTheme())).Bold(true).Render(res.Priority)
	fmt.Fprintf(cmd.OutOrStdout(), "Priority: %s (severity: %s)\n", label, sev)
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chat := panel.NewChat(newClient())
	chat.SetInput(text)
	if !chat.Do(ctx) {
		return errEmptyInput
	}

	msgs := chat.Messages()
	reply := msgs[len(msgs)-1]

	out := cmd.OutOrStdout()
	renderer := ui.NewMarkdownRenderer(ui.DetectTheme(), cfg.UI.WordWrap)
	fmt.Fprintln(out, ui.RenderMarkdown(renderer, reply.Content))
	for i, src := range reply.Sources {
		fmt.Fprintf(out, "Judicial Source #%d\n%s\n\n", i+1, src.Content)
	}

	if chat.State() == panel.Failed {
		logger.Warn("chat request failed")
		return errors.New("chat request failed")
	}
	logger.Debug("chat answered", zap.Int("sources", len(reply.Sources)))
	return nil
}
