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


// Package ai provides abstractions for the AI services colloquy depends on:
// text embeddings for the vector index and text completion for answer
// synthesis.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//   - Embedder: Generates vector embeddings from text
//   - Completer: Produces a completion for a prompt at temperature 0
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible embeddings and completions (Ollama, vLLM, OpenAI)
//   - ai/anthropic: Claude completions
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder,
// anthropic.NewCompleter) return INTERFACE types. Mock constructors
// (mock.NewMockEmbedder, mock.NewMockCompleter) return CONCRETE types so
// tests can inject behavior and read call counts.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//	mockCompleter := mock.NewMockCompleter()     // returns *mock.MockCompleter
//	mockCompleter.CompleteFunc = ...
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	reply, err := provider.Completer().Complete(ctx, prompt, config.MaxOutputTokens)
package ai
