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


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Completion backends.
const (
	// BackendOpenAI talks to OpenAI or any OpenAI-compatible server (Ollama, vLLM, LocalAI).
	BackendOpenAI = "openai"
	// BackendAnthropic talks to the Anthropic Messages API.
	BackendAnthropic = "anthropic"
)

// DefaultMaxOutputTokens bounds a single completion.
const DefaultMaxOutputTokens = 4096

// DefaultHost is the local Ollama endpoint used when no host is configured.
const DefaultHost = "http://localhost:11434/v1"

// Default models.
const (
	DefaultEmbeddingModel  = "embeddinggemma"
	DefaultCompletionModel = "qwen2.5:7b"
	// DefaultAnthropicModel replaces DefaultCompletionModel on the anthropic backend.
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// EmbeddingToken is the API key for the embedding service.
	// Local servers don't check it; "none" is sent when empty.
	EmbeddingToken string

	// CompletionBackend selects the completion API: "openai" or "anthropic".
	CompletionBackend string

	// CompletionHost is the base URL for the completion service API.
	// Optional for the anthropic backend.
	CompletionHost string

	// CompletionModel is the model identifier used to answer questions.
	// Example: "qwen2.5:7b", "gpt-4o-mini", "claude-3-5-sonnet-latest"
	CompletionModel string

	// CompletionToken is the API key for the completion service.
	// Required for the anthropic backend.
	CompletionToken string

	// MaxOutputTokens bounds the length of each completion.
	// Default: 4096
	MaxOutputTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithHost sets both embedding and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.CompletionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithCompletionBackend selects the completion backend.
func WithCompletionBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.CompletionBackend = backend
	}
}

// WithEmbeddingToken sets the embedding API key.
func WithEmbeddingToken(token string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingToken = token
	}
}

// WithCompletionToken sets the completion API key.
func WithCompletionToken(token string) ConfigOption {
	return func(c *Config) {
		c.CompletionToken = token
	}
}

// WithMaxOutputTokens sets the completion length bound.
func WithMaxOutputTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxOutputTokens = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and completion use the same host.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:     DefaultHost,
		EmbeddingModel:    DefaultEmbeddingModel,
		CompletionBackend: BackendOpenAI,
		CompletionHost:    DefaultHost,
		CompletionModel:   DefaultCompletionModel,
		MaxOutputTokens:   DefaultMaxOutputTokens,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithCompletionBackend(BackendAnthropic),
//	    WithCompletionModel("claude-3-5-sonnet-latest"),
//	    WithCompletionToken(os.Getenv("ANTHROPIC_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to OpenAI-compatible hosts if missing and
// lowercases the backend name. Anthropic hosts are left as given, except
// that the local default is dropped so the public API endpoint is used.
// The local default model is likewise replaced by DefaultAnthropicModel.
func (c *Config) Normalize() {
	c.CompletionBackend = strings.ToLower(strings.TrimSpace(c.CompletionBackend))
	c.EmbeddingHost = withV1Suffix(c.EmbeddingHost)
	switch c.CompletionBackend {
	case BackendOpenAI:
		c.CompletionHost = withV1Suffix(c.CompletionHost)
	case BackendAnthropic:
		if c.CompletionHost == DefaultHost {
			c.CompletionHost = ""
		}
		if c.CompletionModel == DefaultCompletionModel {
			c.CompletionModel = DefaultAnthropicModel
		}
	}
}

func withV1Suffix(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	// Remove trailing slash if present before adding /v1
	return strings.TrimSuffix(host, "/") + "/v1"
}

// ValidateEmbedding checks only the fields needed to build an embedder.
func (c *Config) ValidateEmbedding() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	if err := c.ValidateEmbedding(); err != nil {
		return err
	}

	switch c.CompletionBackend {
	case BackendOpenAI:
		if c.CompletionHost == "" {
			return errors.New("ai config: CompletionHost is required for the openai backend")
		}
	case BackendAnthropic:
		if c.CompletionToken == "" {
			return errors.New("ai config: CompletionToken is required for the anthropic backend")
		}
	default:
		return fmt.Errorf("ai config: CompletionBackend must be %q or %q, got %q", BackendOpenAI, BackendAnthropic, c.CompletionBackend)
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	if c.MaxOutputTokens <= 0 {
		return errors.New("ai config: MaxOutputTokens must be greater than 0")
	}
	return nil
}
