package match

import (
	"strings"
	"unicode"
)

// NormalizeName lowercases name, drops every rune that is not a letter,
// digit or space, and collapses runs of whitespace. "Peet's Coffee (Original)"
// becomes "peets coffee original".
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
