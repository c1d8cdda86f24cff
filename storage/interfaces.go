package storage

import (
	"context"

	"github.com/poiesic/colloquy/core"
)

// PassageRepository stores indexed transcript passages for one collection
// and answers vector similarity queries over them.
// Implementations must be thread-safe and support concurrent access.
type PassageRepository interface {
	// Collection returns the name of the collection this repository is scoped to.
	Collection() string

	// AddPassages stores passages under content-derived IDs.
	// Sets InsertedAt on stored passages. Passages whose ID already exists
	// are left untouched and omitted from the result.
	// Returns only the passages that were newly stored.
	AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// GetPassage retrieves a single passage by ID.
	// Returns ErrNotFound if the passage doesn't exist.
	GetPassage(ctx context.Context, id core.ID) (*core.Passage, error)

	// GetPassages retrieves multiple passages by their IDs.
	// Returns only the passages that exist (no error for missing passages).
	GetPassages(ctx context.Context, ids ...core.ID) ([]*core.Passage, error)

	// DeletePassages removes passages by their IDs.
	// Returns ErrNotFound if any passage doesn't exist.
	DeletePassages(ctx context.Context, ids ...core.ID) error

	// CountPassages returns the number of passages in the collection.
	CountPassages(ctx context.Context) (int, error)

	// ScanPassages calls fn for every passage in the collection in ID order.
	// Iteration stops at the first error returned by fn.
	ScanPassages(ctx context.Context, fn func(*core.Passage) error) error

	// FindSimilar ranks passages by cosine similarity to vector.
	// Results are ordered by score (highest first), ties by ascending ID,
	// and hold at most limit entries. Passages without vectors are skipped.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.ScoredPassage, error)

	// Drop deletes every passage in the collection.
	Drop(ctx context.Context) error

	// Close releases repository resources. It does not close the backend.
	Close() error
}
