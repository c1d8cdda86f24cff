package response

import (
	"regexp"
	"strings"

	"github.com/poiesic/colloquy/core"
)

// Default marker tags.
const (
	DefaultReasoningTag = "context_analysis"
	DefaultAnswerTag    = "response"
)

// Parser extracts reasoning and answer segments from raw completions.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	reasoningTag string
	answerTag    string
	reasoning    *regexp.Regexp
	answer       *regexp.Regexp
}

// Option configures a Parser.
type Option func(*Parser)

// WithReasoningTag sets the tag holding the reasoning trace.
// Empty values are ignored.
func WithReasoningTag(tag string) Option {
	return func(p *Parser) {
		if tag != "" {
			p.reasoningTag = tag
		}
	}
}

// WithAnswerTag sets the tag holding the final answer.
// Empty values are ignored.
func WithAnswerTag(tag string) Option {
	return func(p *Parser) {
		if tag != "" {
			p.answerTag = tag
		}
	}
}

// NewParser creates a parser for the configured tags.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		reasoningTag: DefaultReasoningTag,
		answerTag:    DefaultAnswerTag,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.reasoning = segmentPattern(p.reasoningTag)
	p.answer = segmentPattern(p.answerTag)
	return p
}

var defaultParser = NewParser()

// Parse parses raw with the default tags.
func Parse(raw string, evidence []*core.ScoredPassage) *core.StructuredAnswer {
	return defaultParser.Parse(raw, evidence)
}

// Tags returns the reasoning and answer tags, in that order.
func (p *Parser) Tags() (reasoning, answer string) {
	return p.reasoningTag, p.answerTag
}

// Parse extracts the reasoning trace and answer from raw and attaches the
// texts of evidence in order. It always returns a non-nil answer.
func (p *Parser) Parse(raw string, evidence []*core.ScoredPassage) *core.StructuredAnswer {
	reasoning, _ := extract(p.reasoning, raw)

	answer, ok := extract(p.answer, raw)
	if !ok {
		answer = p.truncatedAnswer(raw)
	}

	return core.NewStructuredAnswer(reasoning, answer, evidence)
}

// truncatedAnswer recovers an answer whose closing tag was cut off.
func (p *Parser) truncatedAnswer(raw string) string {
	open := "<" + p.answerTag + ">"
	idx := strings.Index(raw, open)
	if idx < 0 {
		return core.AnswerNotFound
	}
	return strings.TrimSpace(raw[idx+len(open):])
}

func segmentPattern(tag string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(tag)
	return regexp.MustCompile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
}

func extract(re *regexp.Regexp, raw string) (string, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
