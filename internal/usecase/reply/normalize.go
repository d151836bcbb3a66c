package reply

import (
	"regexp"
	"strings"
)

var (
	quoteReplacer = strings.NewReplacer(
		"\u201c", `"`, "\u201d", `"`,
		"\u2018", "'", "\u2019", "'",
		"\u00a0", " ",
	)

	asteriskRunRegex = regexp.MustCompile(`\*{3,}`)

	// The backend sometimes repeats its fallback sentence back to back.
	repeatedNoInfoRegex = regexp.MustCompile(
		`(?i)(no relevant\b[^.]*?\bfound\.\s*please try rephrasing your question\.)` +
			`(?:\s*no relevant\b[^.]*?\bfound\.\s*please try rephrasing your question\.)+`,
	)

	noInfoRegex = regexp.MustCompile(
		`(?i)^no relevant\b[^.]*?\bfound\.\s*please try rephrasing your question\.?$`,
	)
)

// Normalize converts backend text into its canonical clean form.
// Empty input yields an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := quoteReplacer.Replace(text)
	s = strings.Join(strings.Fields(s), " ")
	s = asteriskRunRegex.ReplaceAllString(s, "**")
	s = stripWrappers(s)
	s = repeatedNoInfoRegex.ReplaceAllString(s, "${1}")
	return s
}

// IsNoInformation reports whether text is the backend's canonical "nothing found" message.
// The phrase is backend-defined; detection is exact on purpose.
func IsNoInformation(text string) bool {
	return noInfoRegex.MatchString(strings.TrimSpace(text))
}

// stripWrappers peels outer quotes, outer bold and stray asterisks until none are left,
// so nested wrappers such as **"text"** come off in a single pass.
func stripWrappers(s string) string {
	for {
		prev := s
		s = stripOuterQuotes(s)
		s = stripOuterBold(s)
		s = stripStrayAsterisks(s)
		if s == prev {
			return s
		}
	}
}

// stripOuterQuotes removes a quote pair only when it wraps the whole text.
func stripOuterQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'') {
		return s
	}
	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, first) >= 0 {
		return s
	}
	return strings.TrimSpace(inner)
}

// stripOuterBold removes a ** pair only when it wraps the whole text.
func stripOuterBold(s string) string {
	if len(s) < 4 || !strings.HasPrefix(s, "**") || !strings.HasSuffix(s, "**") {
		return s
	}
	inner := s[2 : len(s)-2]
	if strings.Contains(inner, "**") {
		return s
	}
	return strings.TrimSpace(inner)
}

// stripStrayAsterisks removes a leading or trailing asterisk run that has no partner elsewhere,
// keeping bold spans such as "**Cone 6** is mid-fire" intact.
func stripStrayAsterisks(s string) string {
	if rest := strings.TrimLeft(s, "*"); rest != s && !strings.Contains(rest, "*") {
		s = strings.TrimSpace(rest)
	}
	if rest := strings.TrimRight(s, "*"); rest != s && !strings.Contains(rest, "*") {
		s = strings.TrimSpace(rest)
	}
	return s
}
