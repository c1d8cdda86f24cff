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


// Package anthropic implements ai.Completer on the Anthropic Messages API.
//
// Anthropic does not serve embeddings, so this package only provides the
// completion half of a provider. Pair it with an OpenAI-compatible embedder:
//
//	config := ai.NewConfig(
//	    ai.WithCompletionBackend(ai.BackendAnthropic),
//	    ai.WithCompletionModel("claude-sonnet-4-5"),
//	    ai.WithCompletionToken(os.Getenv("ANTHROPIC_API_KEY")),
//	)
//	completer, err := anthropic.NewCompleter(config)
//	provider, err := openai.NewProvider(config, openai.WithCompleter(completer))
package anthropic
