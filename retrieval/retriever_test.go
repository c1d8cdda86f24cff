package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/colloquy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIndex is a VectorIndex returning canned passages.
type stubIndex struct {
	passages []*core.ScoredPassage
	err      error
	delay    time.Duration
	calls    int
	lastTopK int
}

func (s *stubIndex) SimilaritySearch(ctx context.Context, query string, topK int) ([]*core.ScoredPassage, error) {
	s.calls++
	s.lastTopK = topK
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.passages, nil
}

func scored(n int) []*core.ScoredPassage {
	out := make([]*core.ScoredPassage, n)
	for i := range out {
		out[i] = &core.ScoredPassage{
			Passage: &core.Passage{Id: core.ID(i + 1), Text: fmt.Sprintf("passage %d", i+1)},
			Score:   1.0 - float32(i)*0.1,
		}
	}
	return out
}

func TestNewRetriever(t *testing.T) {
	_, err := NewRetriever(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewRetriever(&stubIndex{}, WithDefaultTopK(0))
	assert.Error(t, err)

	_, err = NewRetriever(&stubIndex{}, WithTimeout(-time.Second))
	assert.Error(t, err)

	r, err := NewRetriever(&stubIndex{}, WithDefaultTopK(3), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, 3, r.DefaultTopK())
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns index order", func(t *testing.T) {
		index := &stubIndex{passages: scored(3)}
		r, err := NewRetriever(index)
		require.NoError(t, err)

		results, err := r.Retrieve(ctx, "who?", 5)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, []string{"passage 1", "passage 2", "passage 3"}, core.PassageTexts(results))
		assert.Equal(t, 5, index.lastTopK)
	})

	t.Run("zero topK uses default", func(t *testing.T) {
		index := &stubIndex{passages: scored(10)}
		r, err := NewRetriever(index)
		require.NoError(t, err)

		results, err := r.Retrieve(ctx, "who?", 0)
		require.NoError(t, err)
		assert.Len(t, results, core.DefaultTopK)
		assert.Equal(t, core.DefaultTopK, index.lastTopK)
	})

	t.Run("truncates oversized results", func(t *testing.T) {
		index := &stubIndex{passages: scored(6)}
		r, err := NewRetriever(index)
		require.NoError(t, err)

		results, err := r.Retrieve(ctx, "who?", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"passage 1", "passage 2"}, core.PassageTexts(results))
	})

	t.Run("no matches is an empty slice", func(t *testing.T) {
		r, err := NewRetriever(&stubIndex{})
		require.NoError(t, err)

		results, err := r.Retrieve(ctx, "obscure question", 0)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("invalid queries never reach the index", func(t *testing.T) {
		index := &stubIndex{passages: scored(1)}
		r, err := NewRetriever(index)
		require.NoError(t, err)

		for _, q := range []string{"", "   ", "\n\t"} {
			_, err := r.Retrieve(ctx, q, 1)
			assert.ErrorIs(t, err, core.ErrInvalidQuery)
		}
		_, err = r.Retrieve(ctx, "ok", -1)
		assert.ErrorIs(t, err, core.ErrInvalidQuery)
		assert.Zero(t, index.calls)
	})

	t.Run("index failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		r, err := NewRetriever(&stubIndex{err: cause})
		require.NoError(t, err)

		_, err = r.Retrieve(ctx, "who?", 1)
		assert.ErrorIs(t, err, core.ErrIndexUnavailable)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, core.ErrTimeout)
	})

	t.Run("timeout", func(t *testing.T) {
		r, err := NewRetriever(&stubIndex{delay: time.Second}, WithTimeout(10*time.Millisecond))
		require.NoError(t, err)

		_, err = r.Retrieve(ctx, "who?", 1)
		assert.ErrorIs(t, err, core.ErrIndexUnavailable)
		assert.ErrorIs(t, err, core.ErrTimeout)
	})
}
