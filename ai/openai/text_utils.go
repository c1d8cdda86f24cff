package openai

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sanitizeText drops invalid UTF-8 and control characters other than
// newlines and tabs. Scraped transcripts occasionally carry both and some
// OpenAI-compatible servers reject them.
func sanitizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// tokenOrNone returns token, or "none" for local servers that don't authenticate.
func tokenOrNone(token string) string {
	if token == "" {
		return "none"
	}
	return token
}
