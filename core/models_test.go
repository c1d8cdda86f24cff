package core

import (
	"encoding/json"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestPassage_AssignID(t *testing.T) {
	a := &Passage{Source: "episode-1", Text: "Build the thing people want."}
	b := &Passage{Source: "episode-2", Text: "Build the thing people want."}
	c := &Passage{Source: "episode-1", Text: "Build the thing people want."}

	if a.AssignID() == b.AssignID() {
		t.Error("passages with different sources should not share an ID")
	}
	if a.AssignID() != c.AssignID() {
		t.Error("passages with identical content keys should share an ID")
	}
	if a.Id == 0 {
		t.Error("AssignID should populate Id")
	}
}

func TestNewStructuredAnswer(t *testing.T) {
	t.Run("evidence follows passage order", func(t *testing.T) {
		passages := []*ScoredPassage{
			{Passage: &Passage{Text: "first"}, Score: 0.9},
			{Passage: &Passage{Text: "second"}, Score: 0.5},
		}
		answer := NewStructuredAnswer("why", "what", passages)

		if len(answer.Evidence) != 2 || answer.Evidence[0] != "first" || answer.Evidence[1] != "second" {
			t.Errorf("unexpected evidence: %v", answer.Evidence)
		}
	})

	t.Run("no passages serializes as empty array", func(t *testing.T) {
		answer := NewStructuredAnswer("", AnswerNotFound, nil)
		data, err := json.Marshal(answer)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		want := `{"reasoningTrace":"","answerText":"Tag not found","evidence":[]}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
		if answer.Found() {
			t.Error("sentinel answer should not report Found")
		}
	})
}
