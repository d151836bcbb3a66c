package reply

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences breaks text into whole, trimmed sentences.
// A boundary is a '.', '!' or '?' followed by whitespace and then an uppercase letter,
// a digit or '('. Lowercase continuations ("approx. two hours") never split.
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		next, ok := nextSentenceStart(text, i+1)
		if !ok {
			continue
		}
		out = appendTrimmed(out, text[start:i+1])
		start = next
		i = next - 1
	}
	return appendTrimmed(out, text[start:])
}

// DedupeSentences drops case-insensitive duplicates, keeping the first occurrence in order.
func DedupeSentences(sentences []string) []string {
	seen := make(map[string]struct{}, len(sentences))
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// firstSentence returns the first sentence of the normalized text, or "".
func firstSentence(text string) string {
	sentences := SplitSentences(Normalize(text))
	if len(sentences) == 0 {
		return ""
	}
	return sentences[0]
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// nextSentenceStart skips the whitespace after a terminator at pos and reports where the next
// sentence begins, if the text there clearly opens a new sentence.
func nextSentenceStart(text string, pos int) (int, bool) {
	k := pos
	for k < len(text) {
		r, size := utf8.DecodeRuneInString(text[k:])
		if !unicode.IsSpace(r) {
			break
		}
		k += size
	}
	if k == pos || k >= len(text) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text[k:])
	if unicode.IsUpper(r) || unicode.IsDigit(r) || r == '(' {
		return k, true
	}
	return 0, false
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
