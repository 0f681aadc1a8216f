package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codefixer/internal/diff"
	"codefixer/internal/fixer"
)

var (
	fixStart     int
	fixEnd       int
	fixYes       bool
	fixNoColor   bool
	fixBackupDir string
)

// fixCmd analyzes files and applies model-proposed fixes after a diff
// preview and confirmation.
var fixCmd = &cobra.Command{
	Use:   "fix [files...]",
	Short: "Analyze files and apply AI-suggested fixes",
	Long: `Sends each file to the configured model, shows a unified diff of the
suggested fix, and applies it after confirmation. The original file is
backed up before anything is written.

A line segment of a single file can be targeted with --start/--end; the
rest of the file is sent as read-only context.

Examples:
  codefixer fix broken.py
  codefixer fix --start 10 --end 25 handler.go
  codefixer fix --yes pkg/*.go`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().IntVar(&fixStart, "start", 0, "First line of the segment to fix (1-based)")
	fixCmd.Flags().IntVar(&fixEnd, "end", 0, "Last line of the segment to fix (inclusive)")
	fixCmd.Flags().BoolVarP(&fixYes, "yes", "y", false, "Apply fixes without asking")
	fixCmd.Flags().BoolVar(&fixNoColor, "no-color", false, "Disable colored diff output")
	fixCmd.Flags().StringVar(&fixBackupDir, "backup-dir", "", "Backup directory (overrides config)")
}

func runFix(cmd *cobra.Command, args []string) error {
	if (fixStart == 0) != (fixEnd == 0) {
		return fmt.Errorf("--start and --end must be provided together")
	}
	if fixStart != 0 && len(args) > 1 {
		return fmt.Errorf("--start/--end target a single file, got %d", len(args))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fixBackupDir != "" {
		cfg.Fixer.BackupDir = fixBackupDir
	}

	// No deadline here: the client applies the configured timeout to each
	// request on its own, and the confirmation prompts can sit idle for as
	// long as the user needs.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	client := buildClient(cfg)
	if err := client.CheckHealth(ctx); err != nil {
		return fmt.Errorf("model server not available at %s (is it running?): %w", cfg.LLM.BaseURL, err)
	}

	engine := buildEngine(cfg, client)

	reqs := make([]fixer.Request, 0, len(args))
	for _, path := range args {
		reqs = append(reqs, fixer.Request{Path: path, StartLine: fixStart, EndLine: fixEnd})
	}

	logger.Info("analyzing",
		zap.Int("files", len(reqs)),
		zap.String("model", cfg.LLM.Model))

	results, err := engine.AnalyzeAll(ctx, reqs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	for _, res := range results {
		if err := presentAndApply(engine, res, out, in); err != nil {
			return err
		}
	}
	return nil
}

// presentAndApply shows one result's diff, asks for confirmation unless
// --yes was given, and applies the fix.
func presentAndApply(engine *fixer.Engine, res *fixer.Result, out io.Writer, in *bufio.Reader) error {
	for _, warning := range res.Warnings {
		fmt.Fprintf(out, "Warning (%s): %s\n", res.Path, warning)
	}

	if !res.Changed {
		fmt.Fprintf(out, "%s: no changes suggested.\n", res.Path)
		return nil
	}

	fd := diff.Compute(res.Path, res.Original, res.Fixed)
	fmt.Fprintf(out, "\nChanges suggested for %s:\n", res.Path)
	fmt.Fprint(out, diff.RenderUnified(fd, !fixNoColor))

	if !fixYes {
		fmt.Fprint(out, "\nApply these changes? [y/N]: ")
		answer, err := in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if strings.TrimSpace(strings.ToLower(answer)) != "y" {
			fmt.Fprintf(out, "%s: skipped.\n", res.Path)
			return nil
		}
	}

	backupPath, err := engine.Apply(res)
	if err != nil {
		return fmt.Errorf("failed to apply fix to %s: %w", res.Path, err)
	}
	fmt.Fprintf(out, "%s: fix applied, backup saved to %s\n", res.Path, backupPath)
	return nil
}
