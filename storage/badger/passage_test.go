package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
)

func TestPassageBasics(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	passage := &core.Passage{
		Source:   "episode-100",
		Position: 3,
		Text:     "He read every biography he could find.",
		Vector:   []float32{0.1, 0.2, 0.3},
	}

	added, err := repo.AddPassages(ctx, passage)
	if err != nil {
		t.Fatalf("Failed to add passage: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 passage, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	retrieved, err := repo.GetPassage(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get passage: %v", err)
	}
	if retrieved.Text != passage.Text || retrieved.Source != "episode-100" || retrieved.Position != 3 {
		t.Fatalf("Unexpected passage: %+v", retrieved)
	}
}

func TestAddPassages_Deduplicates(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	first := []*core.Passage{
		{Source: "ep1", Text: "alpha"},
		{Source: "ep1", Text: "beta"},
		{Source: "ep1", Text: "alpha"}, // duplicate within the batch
	}
	added, err := repo.AddPassages(ctx, first...)
	if err != nil {
		t.Fatalf("Failed to add passages: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("Expected 2 new passages, got %d", len(added))
	}

	// Re-adding the same content is a no-op
	again, err := repo.AddPassages(ctx, &core.Passage{Source: "ep1", Text: "beta"})
	if err != nil {
		t.Fatalf("Failed to re-add passage: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("Expected no new passages, got %d", len(again))
	}

	count, err := repo.CountPassages(ctx)
	if err != nil {
		t.Fatalf("Failed to count passages: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 passages, got %d", count)
	}
}

func TestAddPassages_RejectsEmptyText(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	_, err = repo.AddPassages(context.Background(), &core.Passage{Text: "ok"}, &core.Passage{Text: " "})
	if !errors.Is(err, core.ErrInvalidPassage) {
		t.Fatalf("Expected ErrInvalidPassage, got %v", err)
	}

	count, _ := repo.CountPassages(context.Background())
	if count != 0 {
		t.Fatalf("Expected nothing stored after rejected batch, got %d", count)
	}
}

func TestGetAndDeletePassages(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	added, err := repo.AddPassages(ctx,
		&core.Passage{Source: "a", Text: "one"},
		&core.Passage{Source: "a", Text: "two"},
	)
	if err != nil {
		t.Fatalf("Failed to add passages: %v", err)
	}

	missing := core.IDFromContent("nope")
	found, err := repo.GetPassages(ctx, added[0].Id, missing, added[1].Id)
	if err != nil {
		t.Fatalf("Failed to get passages: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 passages, got %d", len(found))
	}

	if _, err := repo.GetPassage(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := repo.DeletePassages(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete passage: %v", err)
	}
	if err := repo.DeletePassages(ctx, added[0].Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}

	count, _ := repo.CountPassages(ctx)
	if count != 1 {
		t.Fatalf("Expected 1 passage, got %d", count)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	founders, err := NewPassageRepository(backend, "founders")
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	other, err := NewPassageRepository(backend, "founders2")
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	ctx := context.Background()
	if _, err := founders.AddPassages(ctx, &core.Passage{Text: "a", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Failed to add passage: %v", err)
	}
	if _, err := other.AddPassages(ctx, &core.Passage{Text: "b", Vector: []float32{1, 0}}, &core.Passage{Text: "c"}); err != nil {
		t.Fatalf("Failed to add passages: %v", err)
	}

	n, _ := founders.CountPassages(ctx)
	if n != 1 {
		t.Fatalf("Expected 1 passage in founders, got %d", n)
	}

	if err := other.Drop(ctx); err != nil {
		t.Fatalf("Failed to drop collection: %v", err)
	}
	n, _ = other.CountPassages(ctx)
	if n != 0 {
		t.Fatalf("Expected dropped collection to be empty, got %d", n)
	}
	n, _ = founders.CountPassages(ctx)
	if n != 1 {
		t.Fatalf("Expected founders untouched by drop, got %d", n)
	}
}

func TestScanPassages(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	for _, text := range []string{"x", "y", "z"} {
		if _, err := repo.AddPassages(ctx, &core.Passage{Text: text}); err != nil {
			t.Fatalf("Failed to add passage: %v", err)
		}
	}

	var last core.ID
	seen := 0
	err = repo.ScanPassages(ctx, func(p *core.Passage) error {
		if p.Id < last {
			t.Errorf("scan out of ID order: %d after %d", p.Id, last)
		}
		last = p.Id
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if seen != 3 {
		t.Fatalf("Expected 3 passages, saw %d", seen)
	}

	stop := errors.New("stop")
	err = repo.ScanPassages(ctx, func(p *core.Passage) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("Expected scan to surface callback error, got %v", err)
	}
}

func TestFindSimilar_NoPassages(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	results, err := repo.FindSimilar(context.Background(), []float32{0.1, 0.2, 0.3}, 10)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected no results, got %d", len(results))
	}
}

func TestFindSimilar_Ranking(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	// "exact" points the same way as the query with a different magnitude;
	// the vectorless and wrong-dimension passages are skipped.
	_, err = repo.AddPassages(ctx,
		&core.Passage{Text: "exact", Vector: []float32{2, 0, 0}},
		&core.Passage{Text: "close", Vector: []float32{0.9, 0.1, 0}},
		&core.Passage{Text: "orthogonal", Vector: []float32{0, 0, 1}},
		&core.Passage{Text: "no vector"},
		&core.Passage{Text: "wrong dims", Vector: []float32{1, 0}},
	)
	if err != nil {
		t.Fatalf("Failed to add passages: %v", err)
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	want := []string{"exact", "close", "orthogonal"}
	for i, w := range want {
		if results[i].Passage.Text != w {
			t.Errorf("result %d = %q, want %q", i, results[i].Passage.Text, w)
		}
	}
	if results[0].Score < 0.999 {
		t.Errorf("Expected cosine of parallel vectors ~1, got %f", results[0].Score)
	}
	for i := 0; i < len(results)-1; i++ {
		if results[i].Score < results[i+1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestFindSimilar_LimitAndTies(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	for _, text := range []string{"t1", "t2", "t3", "t4"} {
		if _, err := repo.AddPassages(ctx, &core.Passage{Text: text, Vector: []float32{1, 1}}); err != nil {
			t.Fatalf("Failed to add passage: %v", err)
		}
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 1}, 2)
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Passage.Id > results[1].Passage.Id {
		t.Error("equal scores should be ordered by ascending ID")
	}

	again, _ := repo.FindSimilar(ctx, []float32{1, 1}, 2)
	for i := range results {
		if again[i].Passage.Id != results[i].Passage.Id {
			t.Error("identical queries should return identical order")
		}
	}

	if _, err := repo.FindSimilar(ctx, []float32{1, 1}, 0); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery for zero limit, got %v", err)
	}
	if _, err := repo.FindSimilar(ctx, nil, 3); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery for empty vector, got %v", err)
	}
}
