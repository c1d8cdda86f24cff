// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"

	"github.com/poiesic/colloquy/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// It manages embedder and completer instances.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	completer ai.Completer
	logger    *slog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithCompleter replaces the OpenAI completer, e.g. with an Anthropic one,
// while keeping OpenAI-compatible embeddings.
func WithCompleter(completer ai.Completer) ProviderOption {
	return func(p *Provider) {
		p.completer = completer
	}
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config, opts ...ProviderOption) (ai.AIProvider, error) {
	p := &Provider{
		config: config,
		logger: slog.Default().With("component", "openai-provider"),
	}
	for _, opt := range opts {
		opt(p)
	}

	// A supplied completer owns the completion settings; only embeddings are checked here
	if p.completer == nil {
		if err := config.Validate(); err != nil {
			return nil, err
		}
		completer, err := newCompleter(config)
		if err != nil {
			return nil, err
		}
		p.completer = completer
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	p.embedder = embedder

	return p, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the completion service.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
