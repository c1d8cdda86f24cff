package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/colloquy/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// Completer implements ai.Completer using Anthropic's Messages API.
type Completer struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.CompletionBackend != ai.BackendAnthropic {
		return nil, fmt.Errorf("anthropic completer: backend is %q", config.CompletionBackend)
	}

	opts := []anthropic.Option{
		anthropic.WithToken(config.CompletionToken),
		anthropic.WithModel(config.CompletionModel),
	}
	if config.CompletionHost != "" {
		opts = append(opts, anthropic.WithBaseURL(config.CompletionHost))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		model:  config.CompletionModel,
		logger: slog.Default().With("component", "anthropic-completer"),
	}, nil
}

// NewCompleter creates a completer backed by Anthropic.
// The config must name the anthropic backend and carry an API token.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *Completer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	c.logger.Debug("requesting completion", "model", c.model, "prompt_length", len(prompt), "max_tokens", maxTokens)

	text, err := llms.GenerateFromSinglePrompt(ctx, c.client, prompt,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		c.logger.Error("completion failed", "model", c.model, "elapsed", time.Since(start), "err", err)
		return "", err
	}

	c.logger.Debug("completion received", "model", c.model, "length", len(text), "elapsed", time.Since(start))
	return text, nil
}
