// Package llm provides the chat-completions client used by the fixer.
// Any OpenAI-compatible endpoint works; the default target is a local
// LM Studio instance, which requires no API key.
package llm

import "context"

// Client defines the minimal interface the fixer uses to call a model.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// HealthChecker is implemented by clients that can probe their endpoint
// before real work is sent to it.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
