package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/colloquy/ai/mock"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
	"github.com/poiesic/colloquy/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIndex(t *testing.T, texts ...string) (*EmbeddingIndex, *mock.MockEmbedder, *badger.Backend) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	passages := make([]*core.Passage, len(texts))
	for i, text := range texts {
		passages[i] = &core.Passage{
			Source:   "episode-1",
			Position: i,
			Text:     text,
			Vector:   mock.DeterministicVector(text, mock.DefaultDimension),
		}
	}
	if len(passages) > 0 {
		_, err = repo.AddPassages(context.Background(), passages...)
		require.NoError(t, err)
	}

	embedder := mock.NewMockEmbedder()
	index, err := NewEmbeddingIndex(repo, embedder)
	require.NoError(t, err)
	return index, embedder, backend
}

func TestNewEmbeddingIndex(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewEmbeddingIndex(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewEmbeddingIndex(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	index, err := NewEmbeddingIndex(repo, mock.NewMockEmbedder(), WithIndexLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, index)
}

func TestEmbeddingIndexSimilaritySearch(t *testing.T) {
	ctx := context.Background()

	t.Run("exact text ranks first", func(t *testing.T) {
		index, embedder, _ := setupIndex(t,
			"We raised our seed round from angels.",
			"The first hire was a designer.",
			"Pricing was the hardest decision.",
		)

		results, err := index.SimilaritySearch(ctx, "The first hire was a designer.", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "The first hire was a designer.", results[0].Text())
		assert.InDelta(t, 1.0, results[0].Score, 1e-4)
		assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
		assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
		assert.Equal(t, 1, embedder.CallCount())
	})

	t.Run("respects topK", func(t *testing.T) {
		index, _, _ := setupIndex(t, "a", "b", "c", "d")
		results, err := index.SimilaritySearch(ctx, "a", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("empty index", func(t *testing.T) {
		index, _, _ := setupIndex(t)
		results, err := index.SimilaritySearch(ctx, "anything", 8)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("embedder failure", func(t *testing.T) {
		index, embedder, _ := setupIndex(t, "a")
		boom := errors.New("embedding service down")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, boom
		}
		_, err := index.SimilaritySearch(ctx, "a", 1)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty embedding", func(t *testing.T) {
		index, embedder, _ := setupIndex(t, "a")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{}, nil
		}
		_, err := index.SimilaritySearch(ctx, "a", 1)
		assert.ErrorIs(t, err, ErrEmptyEmbedding)
	})

	t.Run("closed backend", func(t *testing.T) {
		index, _, backend := setupIndex(t, "a")
		require.NoError(t, backend.Close())
		_, err := index.SimilaritySearch(ctx, "a", 1)
		assert.ErrorIs(t, err, storage.ErrStorageClosed)
	})
}
