package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WordSet is an immutable set of lowercase words and phrases matched on word boundaries.
type WordSet struct {
	words []string
}

// NewWordSet creates a WordSet. Entries are lowercased and trimmed; empty entries are dropped.
func NewWordSet(words ...string) WordSet {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return WordSet{words: out}
}

// Words returns a copy of the set entries in declaration order.
func (s WordSet) Words() []string {
	return append([]string(nil), s.words...)
}

// Len returns the number of entries.
func (s WordSet) Len() int { return len(s.words) }

// MatchAny reports whether text contains any entry as a whole word or phrase, ignoring case.
func (s WordSet) MatchAny(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range s.words {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in text delimited by non-word characters or the string edges.
func containsWord(text, word string) bool {
	for start := 0; start <= len(text)-len(word); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
