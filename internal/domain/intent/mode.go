// Package intent classifies a free-text question into a response mode.
package intent

import "strings"

// Mode is the requested response length and shape.
type Mode string

// Response modes.
const (
	// Short returns the direct answer only.
	Short Mode = "short"
	// Medium returns the answer followed by supporting bullets.
	Medium Mode = "medium"
	// Long returns a sectioned markdown guide.
	Long Mode = "long"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Short || m == Medium || m == Long
}

// headTermMaxWords is the longest question still treated as a simple lookup.
const headTermMaxWords = 3

var (
	// LongSignals mark procedural or comparative questions.
	LongSignals = NewWordSet(
		"how", "how to", "guide", "tutorial", "technique", "techniques", "steps", "process",
		"build", "make", "recipe", "schedule", "troubleshoot", "fix", "prevent", "best practices",
		"ideas", "examples", "compare", "vs", "advantages", "disadvantages", "pros", "cons",
		"materials", "tools",
	)

	// ShortSignals mark an explicit request for brevity.
	ShortSignals = NewWordSet(
		"short", "brief", "tl;dr", "summary", "one line", "in a sentence", "quick",
	)
)

// Infer maps a question to a Mode.
// Check order is fixed: Long signals win over Short signals, which win over the head-term rule.
func Infer(question string) Mode {
	q := strings.ToLower(question)
	switch {
	case LongSignals.MatchAny(q):
		return Long
	case ShortSignals.MatchAny(q):
		return Short
	case len(strings.Fields(q)) <= headTermMaxWords:
		// Head terms ("celadon") are Medium, not Short. Kept apart from default on purpose.
		return Medium
	default:
		return Medium
	}
}

// IsProcedural reports whether the question carries a Long signal.
func IsProcedural(question string) bool {
	return LongSignals.MatchAny(question)
}
