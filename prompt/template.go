package prompt

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// Template variable names.
const (
	VarQuestion       = "question"
	VarContext        = "context"
	VarExistingAnswer = "existing_answer"
)

var requiredVars = []string{VarQuestion, VarContext}

// Template is a named, validated prompt template.
// Templates are immutable and safe for concurrent use.
type Template struct {
	name string
	text string
	tmpl prompts.PromptTemplate
}

// New parses and validates a template. The text must reference
// {{.question}} and {{.context}} and render cleanly.
func New(name, text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTemplate, name)
	}
	for _, v := range requiredVars {
		if !strings.Contains(text, "."+v) {
			return nil, fmt.Errorf("%w: %s has no {{.%s}}", ErrMissingVariable, name, v)
		}
	}

	t := &Template{
		name: name,
		text: text,
		tmpl: prompts.NewPromptTemplate(text, []string{VarQuestion, VarContext, VarExistingAnswer}),
	}

	// Render once so syntax errors surface at registration, not mid-query
	if _, err := t.Format("q", "c", "a"); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the template's registered name.
func (t *Template) Name() string {
	return t.name
}

// Text returns the raw template text.
func (t *Template) Text() string {
	return t.text
}

// Format renders the template. existingAnswer is empty on a first pass.
func (t *Template) Format(question, context, existingAnswer string) (string, error) {
	out, err := t.tmpl.Format(map[string]any{
		VarQuestion:       question,
		VarContext:        context,
		VarExistingAnswer: existingAnswer,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, t.name, err)
	}
	return out, nil
}

// HasMarkers reports whether the template text contains both the opening
// and closing marker for every tag.
func (t *Template) HasMarkers(tags ...string) bool {
	for _, tag := range tags {
		if !strings.Contains(t.text, "<"+tag+">") || !strings.Contains(t.text, "</"+tag+">") {
			return false
		}
	}
	return true
}
