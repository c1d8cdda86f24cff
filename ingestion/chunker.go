package ingestion

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// Default chunking, in characters.
const (
	DefaultChunkSize    = 2048
	DefaultChunkOverlap = 512
)

// Chunker splits transcripts into overlapping passages.
type Chunker struct {
	size     int
	overlap  int
	splitter textsplitter.TextSplitter
}

// NewChunker creates a chunker producing passages of at most size
// characters, with overlap characters shared between neighbours.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunking, size, overlap)
	}
	return &Chunker{
		size:    size,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}, nil
}

// Split returns the non-blank chunks of text in order.
func (c *Chunker) Split(text string) ([]string, error) {
	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	out := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			out = append(out, chunk)
		}
	}
	return out, nil
}
