package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reviewPlain bool

// reviewCmd asks the model for a read-only markdown review of a file.
var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Get an AI code review without modifying the file",
	Long: `Sends the file to the configured model for a markdown code review.
Nothing is written; the review is rendered to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewPlain, "plain", false, "Print raw markdown instead of rendering it")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLMTimeout())
	defer cancel()

	client := buildClient(cfg)
	if err := client.CheckHealth(ctx); err != nil {
		return fmt.Errorf("model server not available at %s (is it running?): %w", cfg.LLM.BaseURL, err)
	}

	path := args[0]
	logger.Info("requesting review",
		zap.String("path", path),
		zap.String("model", cfg.LLM.Model))

	review, err := buildEngine(cfg, client).Review(ctx, path)
	if err != nil {
		return err
	}

	if reviewPlain {
		fmt.Fprintln(cmd.OutOrStdout(), review)
		return nil
	}

	rendered, err := glamour.Render(review, "dark")
	if err != nil {
		// Fall back to the raw markdown rather than losing the review.
		logger.Warn("markdown rendering failed", zap.Error(err))
		fmt.Fprintln(cmd.OutOrStdout(), review)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
