package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/colloquy/core"
)

// Retriever selects passages for a question from a VectorIndex.
type Retriever struct {
	index       VectorIndex
	timeout     time.Duration
	defaultTopK int
	logger      *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTimeout bounds each index lookup. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) error {
		if d < 0 {
			return fmt.Errorf("retriever timeout must not be negative, got %s", d)
		}
		r.timeout = d
		return nil
	}
}

// WithDefaultTopK sets the result count used when a caller passes zero.
// Default is core.DefaultTopK.
func WithDefaultTopK(n int) Option {
	return func(r *Retriever) error {
		if n <= 0 {
			return fmt.Errorf("default topK must be positive, got %d", n)
		}
		r.defaultTopK = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over index.
func NewRetriever(index VectorIndex, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	r := &Retriever{
		index:       index,
		defaultTopK: core.DefaultTopK,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever")

	return r, nil
}

// DefaultTopK returns the result count used when a caller passes zero.
func (r *Retriever) DefaultTopK() int {
	return r.defaultTopK
}

// Retrieve returns up to topK passages for query, most relevant first.
// A topK of zero selects the default. Empty queries and negative counts
// fail with core.ErrInvalidQuery before the index is consulted; index
// failures are wrapped as core.ErrIndexUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]*core.ScoredPassage, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := core.ValidateTopK(topK); err != nil {
		return nil, err
	}
	if topK == 0 {
		topK = r.defaultTopK
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	r.logger.Debug("retrieving passages", "query", query, "top_k", topK)

	passages, err := r.index.SimilaritySearch(ctx, query, topK)
	if err != nil {
		err = core.Classify(ctx, core.ErrIndexUnavailable, err)
		r.logger.Error("retrieval failed", "elapsed", time.Since(start), "err", err)
		return nil, err
	}

	if len(passages) > topK {
		passages = passages[:topK]
	}
	if passages == nil {
		passages = []*core.ScoredPassage{}
	}

	r.logger.Debug("retrieved passages", "count", len(passages), "elapsed", time.Since(start))
	return passages, nil
}
