package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/colloquy/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.CompletionBackend != ai.BackendOpenAI {
		return nil, fmt.Errorf("openai completer: backend %q is not OpenAI-compatible", config.CompletionBackend)
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(tokenOrNone(config.CompletionToken)),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a completer for an OpenAI-compatible service.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *Completer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	c.logger.Debug("requesting completion", "prompt_length", len(prompt), "max_tokens", maxTokens)

	text, err := llms.GenerateFromSinglePrompt(ctx, c.client, sanitizeText(prompt),
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		c.logger.Error("completion failed", "elapsed", time.Since(start), "err", err)
		return "", err
	}

	c.logger.Debug("completion received", "length", len(text), "elapsed", time.Since(start))
	return text, nil
}
