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


package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a passage repository is not provided.
	ErrRepositoryRequired = errors.New("passage repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrMissingTranscriptColumn is returned when a CSV has no Transcript column.
	ErrMissingTranscriptColumn = errors.New("csv has no Transcript column")

	// ErrInvalidChunking is returned for a non-positive chunk size or an
	// overlap that is negative or not smaller than the chunk size.
	ErrInvalidChunking = errors.New("invalid chunk size or overlap")

	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempts.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbeddingMismatch is returned when the embedder returns a different
	// number of vectors than texts.
	ErrEmbeddingMismatch = errors.New("embedding count does not match passage count")
)
