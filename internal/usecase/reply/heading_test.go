package reply

import (
	"strings"
	"testing"
)

func TestApplyHeadings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"period terminated",
			"Intro text. THH Firing Basics. Bisque first.",
			"Intro text.\n\n### **Firing Basics**\n\nBisque first.",
		},
		{
			"newline terminated with colon",
			"THH: Glaze Safety\nAlways wear a respirator.",
			"\n\n### **Glaze Safety**\n\nAlways wear a respirator.",
		},
		{"no marker", "Plain answer.", "Plain answer."},
		{"marker inside word", "THHX is not a marker.", "THHX is not a marker."},
		{"unterminated title", "THH Trailing title", "THH Trailing title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ApplyHeadings(tc.input); got != tc.expected {
				t.Errorf("ApplyHeadings(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestApplyHeadings_Multiple(t *testing.T) {
	got := finalize("THH Clay. Wedge well. THH Kiln. Load evenly.")
	expected := "### **Clay**\n\nWedge well.\n\n### **Kiln**\n\nLoad evenly."
	if got != expected {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestFinalize_CollapsesBlankLines(t *testing.T) {
	got := finalize("\n\nfirst\n\n\n\nsecond\n\n\nthird\n\n")
	if got != "first\n\nsecond\n\nthird" {
		t.Errorf("unexpected result %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Error("blank-line run survived finalize")
	}
}
