// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	completer := mock.NewMockCompleter()
//	completer.CompleteFunc = func(ctx context.Context, prompt string, maxTokens int) (string, error) {
//	    return "<context_analysis>none</context_analysis><response>42</response>", nil
//	}
//
//	// Check call counts and captured prompts
//	count := completer.CallCount()
//	last := completer.Prompts()[count-1]
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCompleter: Returns a fixed tagged reply
//   - MockProvider: Aggregates mock embedder and completer
package mock
