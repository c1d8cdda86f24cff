package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTranscriptsCSV(t *testing.T) {
	t.Run("scraper layout", func(t *testing.T) {
		in := "Video URL,Language,Transcript,Available Languages\n" +
			"https://youtu.be/a,en,\"Hello, and welcome.\nToday we talk pricing.\",en\n" +
			"https://youtu.be/b,en,Second episode,en\n"

		got, err := ReadTranscriptsCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "https://youtu.be/a", got[0].Source)
		assert.Equal(t, "Hello, and welcome.\nToday we talk pricing.", got[0].Text)
		assert.Equal(t, "https://youtu.be/b", got[1].Source)
	})

	t.Run("transcript column only", func(t *testing.T) {
		in := "Transcript\nfirst\n\"\"\nthird\n"

		got, err := ReadTranscriptsCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, Transcript{Source: "document_0", Text: "first"}, got[0])
		assert.Equal(t, Transcript{Source: "document_2", Text: "third"}, got[1])
	})

	t.Run("blank url falls back to row name", func(t *testing.T) {
		in := "Video URL,Transcript\n,orphan text\n"

		got, err := ReadTranscriptsCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "document_0", got[0].Source)
	})

	t.Run("byte order mark", func(t *testing.T) {
		in := "\ufeffTranscript\nbody\n"

		got, err := ReadTranscriptsCSV(strings.NewReader(in))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		in := "Video URL,Transcript\nhttps://youtu.be/a\nhttps://youtu.be/b,text\n"

		got, err := ReadTranscriptsCSV(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "https://youtu.be/b", got[0].Source)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadTranscriptsCSV(strings.NewReader("Video URL,Language\nx,en\n"))
		assert.ErrorIs(t, err, ErrMissingTranscriptColumn)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadTranscriptsCSV(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrMissingTranscriptColumn)
	})
}

func TestWordCount(t *testing.T) {
	transcripts := []Transcript{
		{Text: "one two  three"},
		{Text: "\nfour\tfive\n"},
		{Text: ""},
	}
	assert.Equal(t, 3, transcripts[0].WordCount())
	assert.Equal(t, 5, CountWords(transcripts))
}
