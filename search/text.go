package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenize splits text into lower-cased word tokens at non-alphanumeric
// boundaries. Hyphenated and punctuated forms split into their parts, so
// "state-of-the-art" yields four tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// truncateOnRune cuts text to at most maxBytes bytes without splitting a
// multi-byte rune.
func truncateOnRune(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
