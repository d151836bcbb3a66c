package reply

import (
	"regexp"
	"strings"
)

// HeadingMarker is the inline token the backend places in front of a section title.
const HeadingMarker = "THH"

var (
	headingRegex = regexp.MustCompile(`[ \t]*\b` + HeadingMarker + `\b:?[ \t]*([^\n.]{1,80})(?:\n|\.)[ \t]*`)

	blankRunRegex = regexp.MustCompile(`\n{3,}`)
)

// ApplyHeadings promotes every "THH <title>" marker, terminated by a newline or period,
// to a bold level-3 heading block.
func ApplyHeadings(text string) string {
	return headingRegex.ReplaceAllStringFunc(text, func(m string) string {
		sub := headingRegex.FindStringSubmatch(m)
		title := strings.TrimSpace(sub[1])
		if title == "" {
			return m
		}
		return "\n\n### **" + title + "**\n\n"
	})
}

// finalize runs the heading pass, collapses blank-line runs to a single blank line and trims.
func finalize(text string) string {
	text = ApplyHeadings(text)
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
