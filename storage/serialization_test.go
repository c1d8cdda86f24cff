package storage

import (
	"testing"
	"time"

	"github.com/poiesic/colloquy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestMarshalUnmarshalPassage(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("full passage", func(t *testing.T) {
		p := &core.Passage{
			Id:         core.IDFromContent("ep1\x00text"),
			Source:     "https://example.com/episode/1",
			Position:   12,
			Text:       "He never let a day pass without writing down what he spent.",
			Vector:     []float32{0.25, -0.5, 1, 0},
			InsertedAt: now,
		}

		decoded, err := UnmarshalPassage(MarshalPassage(p))
		require.NoError(t, err)
		assert.Equal(t, p, decoded)
	})

	t.Run("zero time and no vector", func(t *testing.T) {
		p := &core.Passage{Id: 7, Text: "short"}

		decoded, err := UnmarshalPassage(MarshalPassage(p))
		require.NoError(t, err)
		assert.True(t, decoded.InsertedAt.IsZero())
		assert.Nil(t, decoded.Vector)
		assert.Equal(t, "short", decoded.Text)
	})
}

func TestUnmarshalPassage_Invalid(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		_, err := UnmarshalPassage(nil)
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("truncated vector", func(t *testing.T) {
		p := &core.Passage{Id: 1, Text: "abc", Vector: []float32{1, 2, 3}}
		data := MarshalPassage(p)

		_, err := UnmarshalPassage(data[:len(data)-5])
		assert.Error(t, err)
	})
}
