package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codefixer/internal/config"
	"codefixer/internal/demo"
	"codefixer/internal/fixer"
	"codefixer/internal/llm"
)

const version = "0.2.0"

var (
	// Global flags
	verbose    bool
	configPath string
	baseURL    string
	model      string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command. With no arguments it runs the
// built-in demonstration program and exits.
var rootCmd = &cobra.Command{
	Use:   "codefixer",
	Short: "codefixer - AI-assisted code repair against a local model server",
	Long: `codefixer analyzes and repairs source files using any OpenAI-compatible
chat-completions endpoint (LM Studio by default, no API key needed).

Run without arguments to execute the built-in demonstration program,
a fixed sequence of output steps useful as a smoke check.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The bare demo invocation keeps stdout and stderr clean.
		if cmd.Use == "codefixer" && cmd.CalledAs() == "codefixer" {
			logger = zap.NewNop()
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runDemo,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "codefixer.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Endpoint base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model name (overrides config)")

	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDemo executes the fixed demonstration sequence against stdout.
func runDemo(cmd *cobra.Command, args []string) error {
	return demo.DefaultProgram().Run(cmd.OutOrStdout())
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	return cfg, nil
}

// buildClient constructs the endpoint client from config.
func buildClient(cfg *config.Config) *llm.OpenAIClient {
	return llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.LLMTimeout(),
		Temperature: cfg.Fixer.Temperature,
		MaxTokens:   cfg.Fixer.MaxTokens,
	}, logger)
}

// buildEngine constructs the fix engine from config.
func buildEngine(cfg *config.Config, client llm.Client) *fixer.Engine {
	return fixer.NewEngine(client,
		fixer.WithBackupDir(cfg.Fixer.BackupDir),
		fixer.WithConcurrency(cfg.Fixer.Concurrency),
		fixer.WithLogger(logger),
	)
}
