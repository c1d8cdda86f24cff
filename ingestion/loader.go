package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/colloquy/ai"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
)

// DefaultBatchSize is the number of passages embedded per call.
const DefaultBatchSize = 16

// Loader chunks transcripts, embeds the chunks and stores them as passages.
// Embedding batches run concurrently on a worker pool.
type Loader struct {
	repository storage.PassageRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	chunker    *Chunker
	batchSize  int
	retry      RetryPolicy
	logger     *slog.Logger
}

// LoadStats summarizes one Load call.
type LoadStats struct {
	Transcripts int           // transcripts read
	Chunks      int           // passages produced by chunking
	Existing    int           // passages already stored or repeated, not re-embedded
	Added       int           // passages newly stored
	Failed      int           // passages lost to embedding or storage errors
	Elapsed     time.Duration // wall time of the load
}

// Option configures a Loader.
type Option func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if l.pool != nil {
			l.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithBatchSize sets how many passages are embedded per call.
// Default is DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(l *Loader) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", n)
		}
		l.batchSize = n
		return nil
	}
}

// WithChunker sets the transcript chunker.
// Default uses DefaultChunkSize and DefaultChunkOverlap.
func WithChunker(chunker *Chunker) Option {
	return func(l *Loader) error {
		if chunker != nil {
			l.chunker = chunker
		}
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding calls.
// Default is DefaultRetryPolicy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(l *Loader) error {
		if policy.MaxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		l.retry = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader storing into repository.
// Call Release when done to free the worker pool.
func NewLoader(repository storage.PassageRepository, embedder ai.Embedder, opts ...Option) (*Loader, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	if err != nil {
		pool.Release()
		return nil, err
	}

	l := &Loader{
		repository: repository,
		embedder:   embedder,
		pool:       pool,
		chunker:    chunker,
		batchSize:  DefaultBatchSize,
		retry:      DefaultRetryPolicy,
		logger:     slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}
	l.logger = l.logger.With("component", "loader", "collection", repository.Collection())

	return l, nil
}

// Load chunks, embeds and stores transcripts, blocking until every batch
// has finished. Passages already in the collection are skipped without
// being embedded. Batch failures do not stop other batches; they are
// counted in LoadStats.Failed and joined into the returned error.
func (l *Loader) Load(ctx context.Context, transcripts []Transcript) (*LoadStats, error) {
	start := time.Now()
	stats := &LoadStats{Transcripts: len(transcripts)}

	passages, err := l.chunk(transcripts)
	if err != nil {
		return nil, err
	}
	stats.Chunks = len(passages)

	fresh, err := l.unseen(ctx, passages)
	if err != nil {
		return nil, err
	}
	stats.Existing = len(passages) - len(fresh)
	l.logger.Info("loading passages", "transcripts", len(transcripts), "chunks", len(passages), "new", len(fresh))

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)
	record := func(added, failed int, err error) {
		mu.Lock()
		defer mu.Unlock()
		stats.Added += added
		stats.Failed += failed
		if err != nil {
			errs = append(errs, err)
		}
	}

	for batch := range slices.Chunk(fresh, l.batchSize) {
		wg.Add(1)
		submitErr := l.pool.Submit(func() {
			defer wg.Done()
			added, err := l.storeBatch(ctx, batch)
			if err != nil {
				l.logger.Error("error loading batch", "size", len(batch), "err", err)
				record(0, len(batch), err)
				return
			}
			record(added, 0, nil)
		})
		if submitErr != nil {
			wg.Done()
			record(0, len(batch), submitErr)
		}
	}
	wg.Wait()

	stats.Elapsed = time.Since(start)
	l.logger.Info("load complete",
		"added", stats.Added,
		"existing", stats.Existing,
		"failed", stats.Failed,
		"elapsed", stats.Elapsed)

	return stats, errors.Join(errs...)
}

// chunk splits transcripts into passages with content IDs assigned.
func (l *Loader) chunk(transcripts []Transcript) ([]*core.Passage, error) {
	var passages []*core.Passage
	for _, t := range transcripts {
		chunks, err := l.chunker.Split(t.Text)
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", t.Source, err)
		}
		for i, chunk := range chunks {
			p := &core.Passage{Source: t.Source, Position: i, Text: chunk}
			p.AssignID()
			passages = append(passages, p)
		}
	}
	return passages, nil
}

// unseen drops passages already stored, and duplicates within passages.
func (l *Loader) unseen(ctx context.Context, passages []*core.Passage) ([]*core.Passage, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	ids := make([]core.ID, len(passages))
	for i, p := range passages {
		ids[i] = p.Id
	}
	stored, err := l.repository.GetPassages(ctx, ids...)
	if err != nil {
		return nil, err
	}

	seen := make(map[core.ID]bool, len(stored)+len(passages))
	for _, p := range stored {
		seen[p.Id] = true
	}
	fresh := make([]*core.Passage, 0, len(passages))
	for _, p := range passages {
		if seen[p.Id] {
			continue
		}
		seen[p.Id] = true
		fresh = append(fresh, p)
	}
	return fresh, nil
}

// storeBatch embeds one batch, retrying under the loader's policy, and stores it.
func (l *Loader) storeBatch(ctx context.Context, batch []*core.Passage) (int, error) {
	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Text
	}

	var vectors [][]float32
	err := Retry(ctx, l.retry, func() error {
		var err error
		vectors, err = l.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			return fmt.Errorf("%w: %d vectors for %d passages", ErrEmbeddingMismatch, len(vectors), len(texts))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i, p := range batch {
		p.Vector = vectors[i]
	}
	added, err := l.repository.AddPassages(ctx, batch...)
	if err != nil {
		return 0, err
	}
	return len(added), nil
}

// Release releases resources including the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}
