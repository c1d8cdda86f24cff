package mock

import (
	"context"
	"sync"
)

// DefaultCompletion is returned by MockCompleter when no CompleteFunc is set.
const DefaultCompletion = "<context_analysis>The passages were reviewed.</context_analysis>\n<response>This is a mock answer.</response>"

// MockCompleter is a test double for ai.Completer.
// Every prompt it receives is recorded for later inspection.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, DefaultCompletion is returned.
	CompleteFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

	mu        sync.Mutex
	callCount int
	prompts   []string
	maxTokens []int
}

// NewMockCompleter creates a mock completer with the default reply.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// NewStaticCompleter creates a mock completer that always replies with text.
func NewStaticCompleter(text string) *MockCompleter {
	return &MockCompleter{
		CompleteFunc: func(ctx context.Context, prompt string, maxTokens int) (string, error) {
			return text, nil
		},
	}
}

// Complete records the prompt and returns the configured reply.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.maxTokens = append(m.maxTokens, maxTokens)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, maxTokens)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DefaultCompletion, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// MaxTokens returns the output token bound passed with each call.
func (m *MockCompleter) MaxTokens() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.maxTokens))
	copy(out, m.maxTokens)
	return out
}

// Reset clears recorded calls and any injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.prompts = nil
	m.maxTokens = nil
	m.CompleteFunc = nil
}
