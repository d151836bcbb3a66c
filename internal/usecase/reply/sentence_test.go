package reply

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{
			"terminators",
			"Wedge the clay. Then center it! Is it round? (Check twice.) 3 pulls are enough.",
			[]string{"Wedge the clay.", "Then center it!", "Is it round?", "(Check twice.) 3 pulls are enough."},
		},
		{
			"lowercase continuation does not split",
			"Fire for approx. two hours. Done",
			[]string{"Fire for approx. two hours.", "Done"},
		},
		{
			"digit starts a sentence, decimal does not split",
			"Cone 6 is about 2232 F. 1.5 hours of soak helps.",
			[]string{"Cone 6 is about 2232 F.", "1.5 hours of soak helps."},
		},
		{"no whitespace after period", "Cone 6.Bisque first.", []string{"Cone 6.Bisque first."}},
		{"trailing fragment kept", "First part. second part", []string{"First part. second part"}},
		{"multiple terminators", "Wow!! Next step.", []string{"Wow!!", "Next step."}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSentences(tc.input)
			if len(got) == 0 && len(tc.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("SplitSentences(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSplitSentences_NoMidSentenceCuts(t *testing.T) {
	inputs := []string{
		"Wedge the clay. Then center it! Is it round? Trim the foot",
		"Use a 1.5 mm needle tool. (Optional) Score the seams. e.g. slip helps",
		"Cool slowly... Otherwise glazes craze. 1200 C is typical",
	}

	for _, in := range inputs {
		got := SplitSentences(in)
		for i, s := range got {
			if i == len(got)-1 {
				if !strings.HasSuffix(in, s) {
					t.Errorf("last element %q is not the trailing fragment of %q", s, in)
				}
				continue
			}
			last := s[len(s)-1]
			if last != '.' && last != '!' && last != '?' {
				t.Errorf("element %q of %q does not end a sentence", s, in)
			}
		}
		if joined := strings.Join(got, " "); joined != strings.Join(strings.Fields(in), " ") {
			t.Errorf("split lost text: %q vs %q", joined, in)
		}
	}
}

func TestDedupeSentences(t *testing.T) {
	in := []string{"A glaze coat.", "a GLAZE coat.", "Clay body.", "A glaze coat.", "clay body.", "Kiln."}
	got := DedupeSentences(in)
	expected := []string{"A glaze coat.", "Clay body.", "Kiln."}

	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("DedupeSentences = %q, want %q", got, expected)
	}

	seen := make(map[string]bool)
	for _, s := range got {
		key := strings.ToLower(s)
		if seen[key] {
			t.Errorf("duplicate %q in output", s)
		}
		seen[key] = true
	}
}

func TestDedupeSentences_Empty(t *testing.T) {
	if got := DedupeSentences(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %q", got)
	}
}
