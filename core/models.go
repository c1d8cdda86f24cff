package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for indexed passages.
// It is derived from passage content so reloading the same transcript is idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// AnswerNotFound is the answer text reported when a completion carries no
// answer segment at all.
const AnswerNotFound = "Tag not found"

// Passage is a unit of indexed transcript text.
type Passage struct {
	Id         ID
	Source     string    // Where the transcript came from (e.g. an episode URL)
	Position   int       // Chunk ordinal within the source transcript
	Text       string    // Raw passage text
	Vector     []float32 // Embedding vector used for similarity search
	InsertedAt time.Time // When the passage was written to the index
}

// ContentKey returns the string a passage ID is derived from.
func (p *Passage) ContentKey() string {
	return p.Source + "\x00" + p.Text
}

// AssignID sets the passage ID from its content key.
func (p *Passage) AssignID() ID {
	p.Id = IDFromContent(p.ContentKey())
	return p.Id
}

// ScoredPassage is a passage returned by similarity search together with
// the score the index ranked it by. Higher is more similar.
type ScoredPassage struct {
	Passage *Passage
	Score   float32
}

// Text returns the passage text, or "" for a nil entry.
func (s *ScoredPassage) Text() string {
	if s == nil || s.Passage == nil {
		return ""
	}
	return s.Passage.Text
}

// PassageTexts returns the texts of passages in order.
func PassageTexts(passages []*ScoredPassage) []string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text())
	}
	return texts
}

// StructuredAnswer is the final, typed result of answering one query.
type StructuredAnswer struct {
	ReasoningTrace string   `json:"reasoningTrace"`
	AnswerText     string   `json:"answerText"`
	Evidence       []string `json:"evidence"`
}

// NewStructuredAnswer builds an answer whose evidence is the texts of the
// supplied passages in order. Evidence is never nil.
func NewStructuredAnswer(reasoning, answer string, evidence []*ScoredPassage) *StructuredAnswer {
	return &StructuredAnswer{
		ReasoningTrace: reasoning,
		AnswerText:     answer,
		Evidence:       PassageTexts(evidence),
	}
}

// Found reports whether the completion carried an answer segment.
func (a *StructuredAnswer) Found() bool {
	return a.AnswerText != AnswerNotFound
}
