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


// Package pipeline answers questions by running retrieval, synthesis and
// response parsing in sequence.
//
// A Pipeline is built once from long-lived collaborators and reused for
// every question. Each call is a single linear pass with no retries and no
// caching:
//
//	validate -> Retrieve(query, topK) -> Synthesize(query, passages) -> Parse(raw, passages)
//
// Callers see either a complete core.StructuredAnswer or an error matching
// one of core.ErrInvalidQuery, core.ErrIndexUnavailable or
// core.ErrCompletionService. Malformed model output is never an error.
//
// A Monitor can observe each stage of a call, for example to trace a query
// from the command line.
package pipeline
