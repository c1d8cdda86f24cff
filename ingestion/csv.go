package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSV column names, as written by the transcript scraper.
const (
	ColumnTranscript = "Transcript"
	ColumnVideoURL   = "Video URL"
)

// Transcript is one document to be chunked and loaded.
type Transcript struct {
	// Source identifies where the transcript came from, usually a video URL.
	Source string
	// Text is the full transcript.
	Text string
}

// WordCount returns the number of whitespace-separated words in the transcript.
func (t Transcript) WordCount() int {
	return len(strings.Fields(t.Text))
}

// ReadTranscriptsCSV reads transcripts from CSV with a header row.
// The Transcript column is required. Video URL, when present, becomes the
// Source; otherwise rows are named document_<n> by zero-based row index.
// Rows with a blank transcript are skipped.
func ReadTranscriptsCSV(r io.Reader) ([]Transcript, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingTranscriptColumn
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	textCol, sourceCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColumnTranscript:
			textCol = i
		case ColumnVideoURL:
			sourceCol = i
		}
	}
	if textCol < 0 {
		return nil, ErrMissingTranscriptColumn
	}

	var transcripts []Transcript
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", row, err)
		}

		if textCol >= len(record) || strings.TrimSpace(record[textCol]) == "" {
			continue
		}

		source := fmt.Sprintf("document_%d", row)
		if sourceCol >= 0 && sourceCol < len(record) && strings.TrimSpace(record[sourceCol]) != "" {
			source = strings.TrimSpace(record[sourceCol])
		}
		transcripts = append(transcripts, Transcript{Source: source, Text: record[textCol]})
	}

	return transcripts, nil
}
