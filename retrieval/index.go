package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/colloquy/ai"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
)

// VectorIndex ranks indexed passages by similarity to a query.
// Results are ordered most similar first and hold at most topK passages.
// Implementations must be safe for concurrent use.
type VectorIndex interface {
	SimilaritySearch(ctx context.Context, query string, topK int) ([]*core.ScoredPassage, error)
}

// EmbeddingIndex is a VectorIndex over a passage repository.
// The query is embedded with the same model used at load time.
type EmbeddingIndex struct {
	repository storage.PassageRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

var _ VectorIndex = (*EmbeddingIndex)(nil)

// IndexOption configures an EmbeddingIndex.
type IndexOption func(*EmbeddingIndex) error

// WithIndexLogger sets a custom logger.
// Default is slog.Default().
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(i *EmbeddingIndex) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// NewEmbeddingIndex creates an index over repository using embedder for queries.
func NewEmbeddingIndex(repository storage.PassageRepository, embedder ai.Embedder, opts ...IndexOption) (*EmbeddingIndex, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	i := &EmbeddingIndex{
		repository: repository,
		embedder:   embedder,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	i.logger = i.logger.With("component", "embedding-index", "collection", repository.Collection())

	return i, nil
}

// SimilaritySearch embeds query and returns the topK nearest passages.
func (i *EmbeddingIndex) SimilaritySearch(ctx context.Context, query string, topK int) ([]*core.ScoredPassage, error) {
	start := time.Now()

	vector, err := i.embedder.EmbedText(ctx, query)
	if err != nil {
		i.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	if len(vector) == 0 {
		return nil, ErrEmptyEmbedding
	}

	matches, err := i.repository.FindSimilar(ctx, vector, topK)
	if err != nil {
		i.logger.Error("error querying for similar passages", "err", err)
		return nil, err
	}

	i.logger.Debug("similarity search complete", "matches", len(matches), "elapsed", time.Since(start))
	return matches, nil
}
