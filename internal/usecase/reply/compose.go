package reply

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kilnchat/internal/domain/answer"
	"github.com/kailas-cloud/kilnchat/internal/domain/intent"
)

const (
	// minSentenceRunes drops label-like fragments from supporting text.
	minSentenceRunes = 20
	// maxMediumBullets caps supporting sentences across all matches.
	maxMediumBullets = 6
)

// ActionVerbs mark a sentence as a step rather than a key point.
var ActionVerbs = intent.NewWordSet(
	"step", "then", "next", "finally", "ensure", "avoid", "use", "mix", "wedge", "center",
	"pull", "trim", "dry", "bisque", "glaze", "fire", "cool", "inspect", "measure", "program",
	"hold", "soak", "load",
)

// Section headings of the long format.
const (
	headingOverview = "### **Overview**"
	headingSteps    = "### **Key Steps**"
	headingPoints   = "### **Key Points**"
	headingNotes    = "### **Notes & Parameters**"
	headingRelated  = "### **Related Topics**"
)

// ComposeShort returns the normalized answer and nothing else.
func ComposeShort(answerText string) string {
	return Normalize(answerText)
}

// ComposeMedium returns the answer followed by up to six supporting sentences drawn from the
// matches in rank order, rendered as a bullet list.
func ComposeMedium(answerText string, matches []answer.Match) string {
	base := Normalize(answerText)
	support := takeSupporting(matches, maxMediumBullets)
	if len(support) == 0 {
		return base
	}
	if base == "" {
		return bulletList(support)
	}
	return base + "\n\n" + bulletList(support)
}

// ComposeLong returns a sectioned markdown reply: overview, steps or key points,
// notes and related topics. Sections without content are omitted.
func ComposeLong(question, answerText string, matches []answer.Match) string {
	procedural := intent.IsProcedural(question)
	base := Normalize(answerText)

	overview := base
	if overview == "" && len(matches) > 0 {
		overview = firstSentence(matches[0].Description)
	}

	steps, points := partitionSentences(longSources(base, matches))
	related := relatedTopics(matches)

	var sections []string
	if overview != "" {
		sections = append(sections, headingOverview+"\n"+overview)
	}
	if procedural {
		if len(steps) > 0 {
			sections = append(sections, headingSteps+"\n"+bulletList(steps))
		}
		if len(points) > 0 {
			sections = append(sections, headingNotes+"\n"+bulletList(points))
		}
	} else if len(points) > 0 {
		sections = append(sections, headingPoints+"\n"+bulletList(points))
	}
	if len(related) > 0 {
		sections = append(sections, headingRelated+"\n"+bulletList(related))
	}

	out := finalize(strings.Join(sections, "\n\n"))
	if out == "" {
		return base
	}
	return out
}

// takeSupporting folds over matches in rank order (lede, then description) and keeps the first
// limit distinct sentences long enough to carry content.
func takeSupporting(matches []answer.Match, limit int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, limit)
	for _, m := range matches {
		for _, field := range []string{m.Lede, m.Description} {
			for _, s := range DedupeSentences(SplitSentences(Normalize(field))) {
				if len(out) == limit {
					return out
				}
				if !substantial(s) {
					continue
				}
				key := strings.ToLower(s)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, s)
			}
		}
	}
	return out
}

// longSources lists candidate sentences: the answer first, then each match's lede and description.
func longSources(base string, matches []answer.Match) []string {
	out := SplitSentences(base)
	for _, m := range matches {
		out = append(out, SplitSentences(Normalize(m.Lede))...)
		out = append(out, SplitSentences(Normalize(m.Description))...)
	}
	return out
}

// partitionSentences splits substantial sentences into step-like and key-point buckets,
// each deduplicated independently.
func partitionSentences(sentences []string) (steps, points []string) {
	for _, s := range sentences {
		if !substantial(s) {
			continue
		}
		if ActionVerbs.MatchAny(s) {
			steps = append(steps, s)
		} else {
			points = append(points, s)
		}
	}
	return DedupeSentences(steps), DedupeSentences(points)
}

func relatedTopics(matches []answer.Match) []string {
	var out []string
	for _, m := range matches {
		if title := Normalize(m.Title); title != "" {
			out = append(out, "**"+title+"**")
		}
	}
	return DedupeSentences(out)
}

func substantial(s string) bool {
	return utf8.RuneCountInString(s) >= minSentenceRunes
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}
