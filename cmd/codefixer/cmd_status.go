package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd shows the effective configuration and endpoint health.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show codefixer configuration and endpoint health",
	RunE:  showStatus,
}

func showStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "codefixer status")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "Version:    %s\n", version)
	fmt.Fprintf(out, "Provider:   %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "Endpoint:   %s\n", cfg.LLM.BaseURL)
	fmt.Fprintf(out, "Model:      %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "Timeout:    %s\n", cfg.LLMTimeout())
	fmt.Fprintf(out, "Backup dir: %s\n", cfg.Fixer.BackupDir)
	if cfg.LLM.APIKey != "" {
		fmt.Fprintln(out, "API key:    configured")
	} else {
		fmt.Fprintln(out, "API key:    not set (fine for LM Studio)")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	if err := buildClient(cfg).CheckHealth(ctx); err != nil {
		fmt.Fprintf(out, "Health:     unreachable (%v)\n", err)
		return nil
	}
	fmt.Fprintln(out, "Health:     ok")
	return nil
}
