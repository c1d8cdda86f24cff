package badger

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
)

// PassageRepository implements storage.PassageRepository for BadgerDB.
type PassageRepository struct {
	backend    *Backend
	collection string
	prefix     []byte
	logger     *slog.Logger
}

var _ storage.PassageRepository = (*PassageRepository)(nil)

// NewPassageRepository creates a repository scoped to the named collection.
func NewPassageRepository(backend *Backend, collection string) (*PassageRepository, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	return &PassageRepository{
		backend:    backend,
		collection: collection,
		prefix:     makeCollectionPrefix(collection),
		logger:     slog.Default().With("component", "passage-repository", "collection", collection),
	}, nil
}

// Collection returns the collection name.
func (r *PassageRepository) Collection() string {
	return r.collection
}

// Close is a no-op; the backend owns the database handle.
func (r *PassageRepository) Close() error {
	return nil
}

// AddPassages stores passages that are not already present.
func (r *PassageRepository) AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	for _, p := range passages {
		if err := core.ValidatePassage(p); err != nil {
			return nil, err
		}
	}

	added := make([]*core.Passage, 0, len(passages))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, p := range passages {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.AssignID()
			key := makePassageKey(r.collection, p.Id)

			// Skip content we already hold, including duplicates within this batch
			_, err := tx.Get(key)
			if err == nil {
				continue
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			p.InsertedAt = now
			if err := tx.Set(key, storage.MarshalPassage(p)); err != nil {
				return err
			}
			added = append(added, p)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("stored passages", "requested", len(passages), "added", len(added))
	return added, nil
}

// GetPassage retrieves a single passage by ID.
func (r *PassageRepository) GetPassage(ctx context.Context, id core.ID) (*core.Passage, error) {
	var result *core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readPassage(tx, makePassageKey(r.collection, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPassages retrieves multiple passages by their IDs.
func (r *PassageRepository) GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error) {
	var result []*core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			p, err := r.readPassage(tx, makePassageKey(r.collection, id))
			if err != nil {
				return err
			}
			if p != nil {
				result = append(result, p)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeletePassages removes passages by their IDs.
func (r *PassageRepository) DeletePassages(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePassageKey(r.collection, id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountPassages returns the number of passages in the collection.
func (r *PassageRepository) CountPassages(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = r.prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// ScanPassages visits every passage in ID order.
func (r *PassageRepository) ScanPassages(ctx context.Context, fn func(*core.Passage) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = r.prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p *core.Passage
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				p, err = storage.UnmarshalPassage(val)
				return err
			}); err != nil {
				return err
			}
			if err := fn(p); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// FindSimilar ranks passages by cosine similarity to vector.
func (r *PassageRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.ScoredPassage, error) {
	if limit <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	queryNorm := norm(vector)
	results := make([]*core.ScoredPassage, 0, limit)
	skipped := 0

	err := r.ScanPassages(ctx, func(p *core.Passage) error {
		if len(p.Vector) == 0 {
			return nil
		}
		if len(p.Vector) != len(vector) {
			skipped++
			return nil
		}
		results = append(results, &core.ScoredPassage{
			Passage: p,
			Score:   cosineSimilarity(vector, queryNorm, p.Vector),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		r.logger.Warn("skipped passages with mismatched vector dimensions", "count", skipped, "dims", len(vector))
	}

	// Sort by similarity descending, then ID ascending for stable output
	slices.SortFunc(results, func(a, b *core.ScoredPassage) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Passage.Id, b.Passage.Id)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Drop deletes every passage in the collection.
func (r *PassageRepository) Drop(ctx context.Context) error {
	if err := r.backend.DropPrefix(r.prefix); err != nil {
		return err
	}
	r.logger.Info("dropped collection")
	return nil
}

// readPassage reads a passage, returning nil (no error) if the key is absent.
func (r *PassageRepository) readPassage(tx *badger.Txn, key []byte) (*core.Passage, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var p *core.Passage
	err = item.Value(func(val []byte) error {
		var err error
		p, err = storage.UnmarshalPassage(val)
		return err
	})
	return p, err
}

// cosineSimilarity computes the cosine of the angle between a and b.
// aNorm is the precomputed Euclidean norm of a. Returns 0 for zero vectors.
func cosineSimilarity(a []float32, aNorm float64, b []float32) float32 {
	bNorm := norm(b)
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot / (aNorm * bNorm))
}

func norm(v []float32) float64 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	return math.Sqrt(sum)
}
