package openai

import (
	"context"
	"testing"

	"github.com/poiesic/colloquy/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCompleter struct{ reply string }

func (s staticCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return s.reply, nil
}

func TestNewProvider(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		provider, err := NewProvider(ai.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, provider.Embedder())
		assert.NotNil(t, provider.Completer())
		assert.NoError(t, provider.Close())
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := ai.DefaultConfig()
		cfg.EmbeddingModel = ""
		_, err := NewProvider(cfg)
		assert.Error(t, err)
	})

	t.Run("anthropic backend needs an explicit completer", func(t *testing.T) {
		cfg := ai.NewConfig(
			ai.WithCompletionBackend(ai.BackendAnthropic),
			ai.WithCompletionToken("sk-ant-test"),
		)
		_, err := NewProvider(cfg)
		assert.Error(t, err)

		provider, err := NewProvider(cfg, WithCompleter(staticCompleter{reply: "ok"}))
		require.NoError(t, err)
		reply, err := provider.Completer().Complete(context.Background(), "p", 10)
		require.NoError(t, err)
		assert.Equal(t, "ok", reply)
	})
}
