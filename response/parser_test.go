package response

import (
	"testing"

	"github.com/poiesic/colloquy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evidence(texts ...string) []*core.ScoredPassage {
	out := make([]*core.ScoredPassage, len(texts))
	for i, text := range texts {
		out[i] = &core.ScoredPassage{Passage: &core.Passage{Id: core.ID(i + 1), Text: text}, Score: 0.5}
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantReasoning string
		wantAnswer    string
	}{
		{
			name:          "well formed",
			raw:           "<context_analysis>R</context_analysis><response>42</response>",
			wantReasoning: "R",
			wantAnswer:    "42",
		},
		{
			name:          "truncated answer",
			raw:           "<context_analysis>reasoning here</context_analysis><response>partial answ",
			wantReasoning: "reasoning here",
			wantAnswer:    "partial answ",
		},
		{
			name:          "truncated answer is trimmed",
			raw:           "<response>\n  cut off mid sentence  \n",
			wantReasoning: "",
			wantAnswer:    "cut off mid sentence",
		},
		{
			name:          "no answer tag",
			raw:           "<context_analysis>thinking</context_analysis> I cannot answer.",
			wantReasoning: "thinking",
			wantAnswer:    core.AnswerNotFound,
		},
		{
			name:          "plain text",
			raw:           "Just an unstructured reply.",
			wantReasoning: "",
			wantAnswer:    core.AnswerNotFound,
		},
		{
			name:          "empty reply",
			raw:           "",
			wantReasoning: "",
			wantAnswer:    core.AnswerNotFound,
		},
		{
			name:          "answer before reasoning",
			raw:           "<response>yes</response>\n<context_analysis>because</context_analysis>",
			wantReasoning: "because",
			wantAnswer:    "yes",
		},
		{
			name:          "multiline segments are trimmed",
			raw:           "<context_analysis>\n line one\n line two\n</context_analysis>\n<response>\n\nThe answer\nspans lines.\n\n</response>",
			wantReasoning: "line one\n line two",
			wantAnswer:    "The answer\nspans lines.",
		},
		{
			name:          "first occurrence wins",
			raw:           "<response>first</response><response>second</response>",
			wantReasoning: "",
			wantAnswer:    "first",
		},
		{
			name:          "missing reasoning close tag",
			raw:           "<context_analysis>unfinished <response>ok</response>",
			wantReasoning: "",
			wantAnswer:    "ok",
		},
		{
			name:          "surrounding prose ignored",
			raw:           "Sure! Here you go.\n<response>Done.</response>\nHope that helps.",
			wantReasoning: "",
			wantAnswer:    "Done.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantReasoning, got.ReasoningTrace)
			assert.Equal(t, tt.wantAnswer, got.AnswerText)
			assert.NotNil(t, got.Evidence)
			assert.Empty(t, got.Evidence)
		})
	}
}

func TestParseEvidence(t *testing.T) {
	ev := evidence("alpha", "beta", "gamma")

	t.Run("evidence follows passages in order", func(t *testing.T) {
		got := Parse("<response>42</response>", ev)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, got.Evidence)
	})

	t.Run("evidence kept when structure missing", func(t *testing.T) {
		got := Parse("no tags, but mentions delta", ev)
		assert.Equal(t, core.AnswerNotFound, got.AnswerText)
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, got.Evidence)
	})

	t.Run("parsing is deterministic", func(t *testing.T) {
		raw := "<context_analysis>R</context_analysis><response>partial"
		assert.Equal(t, Parse(raw, ev), Parse(raw, ev))
	})
}

func TestCustomTags(t *testing.T) {
	p := NewParser(WithReasoningTag("thinking"), WithAnswerTag("answer"))
	reasoning, answer := p.Tags()
	assert.Equal(t, "thinking", reasoning)
	assert.Equal(t, "answer", answer)

	got := p.Parse("<thinking>t</thinking><answer>a</answer><response>ignored</response>", nil)
	assert.Equal(t, "t", got.ReasoningTrace)
	assert.Equal(t, "a", got.AnswerText)

	got = p.Parse("<answer>cut", nil)
	assert.Equal(t, "cut", got.AnswerText)

	// Empty tags keep the defaults
	d := NewParser(WithAnswerTag(""), WithReasoningTag(""))
	reasoning, answer = d.Tags()
	assert.Equal(t, DefaultReasoningTag, reasoning)
	assert.Equal(t, DefaultAnswerTag, answer)
}

func TestTagsAreLiteral(t *testing.T) {
	p := NewParser(WithAnswerTag("a.b"))
	got := p.Parse("<aXb>wrong</aXb><a.b>right</a.b>", nil)
	assert.Equal(t, "right", got.AnswerText)
}
