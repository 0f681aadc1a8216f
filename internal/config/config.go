// Package config loads and saves codefixer configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all codefixer configuration.
type Config struct {
	// LLM endpoint configuration
	LLM LLMConfig `yaml:"llm"`

	// Fixer behavior
	Fixer FixerConfig `yaml:"fixer"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the chat-completions endpoint.
type LLMConfig struct {
	Provider string `yaml:"provider"` // lmstudio, openai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// FixerConfig configures fix behavior.
type FixerConfig struct {
	// Directory that receives pre-fix backups.
	BackupDir string `yaml:"backup_dir"`

	// Maximum number of files analyzed concurrently in batch mode.
	Concurrency int `yaml:"concurrency"`

	// Sampling temperature sent with fix/review requests.
	Temperature float64 `yaml:"temperature"`

	// Response token cap. Zero means the endpoint default.
	MaxTokens int `yaml:"max_tokens"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration, aimed at a local
// LM Studio instance.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "lmstudio",
			Model:    "qwen2.5-coder-14b-instruct",
			BaseURL:  "http://localhost:1234/v1",
			Timeout:  "120s",
		},
		Fixer: FixerConfig{
			BackupDir:   "_backup",
			Concurrency: 4,
			Temperature: 0.3,
			MaxTokens:   4096,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// LLMTimeout returns the parsed endpoint timeout, falling back to two
// minutes on an empty or malformed value.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "openai"
		}
	}
	if url := os.Getenv("CODEFIXER_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if model := os.Getenv("CODEFIXER_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dir := os.Getenv("CODEFIXER_BACKUP_DIR"); dir != "" {
		c.Fixer.BackupDir = dir
	}
}
