package ingestion

import (
	"context"
	"strings"

	"github.com/poiesic/colloquy/core"
	"github.com/poiesic/colloquy/storage"
)

// CorpusStats describes the contents of one collection.
type CorpusStats struct {
	Collection string
	Passages   int
	Sources    int

	// Words counts words across passages. Chunk overlap means words near
	// chunk boundaries are counted more than once.
	Words     int
	Unindexed int // passages stored without a vector
}

// CollectStats scans repository and summarizes its passages.
func CollectStats(ctx context.Context, repository storage.PassageRepository) (*CorpusStats, error) {
	stats := &CorpusStats{Collection: repository.Collection()}
	sources := make(map[string]struct{})

	err := repository.ScanPassages(ctx, func(p *core.Passage) error {
		stats.Passages++
		stats.Words += len(strings.Fields(p.Text))
		if len(p.Vector) == 0 {
			stats.Unindexed++
		}
		sources[p.Source] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.Sources = len(sources)
	return stats, nil
}

// CountWords returns the total word count of transcripts.
func CountWords(transcripts []Transcript) int {
	total := 0
	for _, t := range transcripts {
		total += t.WordCount()
	}
	return total
}
