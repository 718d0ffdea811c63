// Package sanitizer detects markup in user-written text.
package sanitizer

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer checks plain-text fields such as review bodies for HTML
// elements. Text is never rewritten: callers reject markup and store the rest
// exactly as written.
//
// Thread-safe for concurrent use.
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer creates a sanitizer with the strict policy.
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// ContainsMarkup reports whether the strict policy would drop anything from
// text. Stray "<" and "&" that do not form tags or entities are not markup,
// so "I <3 lattes" and "a&amp;b" pass.
func (s *TextSanitizer) ContainsMarkup(text string) bool {
	return html.UnescapeString(s.policy.Sanitize(text)) != html.UnescapeString(text)
}
