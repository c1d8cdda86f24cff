package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "Ask the customer.", "Ask the customer."},
		{"keeps newlines and tabs", "line one\n\tline two", "line one\n\tline two"},
		{"drops control characters", "bell\x07 and null\x00", "bell and null"},
		{"drops invalid utf8", "ok\xffok", "okok"},
		{"keeps unicode", "Café naïve", "Café naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeText(tt.in))
		})
	}
}

func TestTokenOrNone(t *testing.T) {
	assert.Equal(t, "none", tokenOrNone(""))
	assert.Equal(t, "sk-test", tokenOrNone("sk-test"))
}
