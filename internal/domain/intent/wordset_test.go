package intent

import "testing"

func TestWordSet_MatchAny(t *testing.T) {
	s := NewWordSet("fix", "best practices", "tl;dr", "  Glaze ", "")

	tests := []struct {
		text     string
		expected bool
	}{
		{"how do I fix pinholes", true},
		{"FIX crazing", true},
		{"prefix matters", false},
		{"fixing a crack", false},
		{"best practices for reclaim", true},
		{"best practice", false},
		{"tl;dr please", true},
		{"glaze.", true},
		{"glazed ware", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := s.MatchAny(tc.text); got != tc.expected {
			t.Errorf("MatchAny(%q) = %v, want %v", tc.text, got, tc.expected)
		}
	}
}

func TestNewWordSet_NormalizesEntries(t *testing.T) {
	s := NewWordSet("  Glaze ", "", "KILN")
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}
	words := s.Words()
	if words[0] != "glaze" || words[1] != "kiln" {
		t.Errorf("unexpected words: %v", words)
	}

	// Words returns a copy.
	words[0] = "changed"
	if s.Words()[0] != "glaze" {
		t.Error("Words must not expose internal storage")
	}
}
