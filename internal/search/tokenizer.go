package search

import "strings"

// stemSuffixes is the ordered suffix list for the minimal stemmer.
// First match wins; no iteration.
var stemSuffixes = []string{"ing", "ed", "er", "est", "s"}

// Tokenize lowercases text, strips punctuation to whitespace, splits,
// drops terms shorter than 2 characters, and stems each term. Empty text
// yields an empty slice.
func Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		terms = append(terms, stem(f))
	}
	return terms
}

// stem strips one suffix from the fixed list, only when the remainder
// keeps more than 2 characters beyond the suffix length.
func stem(word string) string {
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(word, suffix) && len(word) > len(suffix)+2 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}
