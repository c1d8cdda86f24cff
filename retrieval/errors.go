package retrieval

import "errors"

var (
	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrRepositoryRequired is returned when a passage repository is not provided.
	ErrRepositoryRequired = errors.New("passage repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyEmbedding is returned when the embedder produces no vector for a query.
	ErrEmptyEmbedding = errors.New("embedder returned an empty vector")
)
