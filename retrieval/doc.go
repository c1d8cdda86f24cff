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


// Package retrieval selects the transcript passages most relevant to a question.
//
// A VectorIndex ranks passages for a query. EmbeddingIndex is the stock
// implementation: it embeds the query and asks a storage.PassageRepository
// for the nearest passages by cosine similarity.
//
// Retriever wraps an index with the query contract used by the pipeline:
// empty queries are rejected before any lookup, the result count defaults
// to core.DefaultTopK, ranking is left entirely to the index, and every
// index failure is reported as core.ErrIndexUnavailable.
package retrieval
