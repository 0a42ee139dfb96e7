package parser

import (
	"strings"
	"unicode"
)

// Normalize removes every whitespace character and lower-cases the rest, giving
// the form Parse and ParseLine expect.
func Normalize(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, input)
}
