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


// Package storage provides the storage abstraction for indexed passages.
//
// PassageRepository is the read side the query pipeline depends on (through
// retrieval.EmbeddingIndex) and the write side the loader uses. The badger
// subpackage is the only backend.
//
// # Collections
//
// A repository is scoped to one named collection. Collections share a
// backend but never see each other's passages:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	repo, err := badger.NewPassageRepository(backend, "founders")
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Serialization
//
// Passages are encoded with mus-go serializers (see serialization.go).
// Vectors are written as fixed-width float32 values.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
