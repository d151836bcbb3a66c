package intent

import "testing"

func TestInfer(t *testing.T) {
	tests := []struct {
		question string
		expected Mode
	}{
		// Procedural signal is checked first and wins over brevity.
		{"Give me a brief tutorial on throwing bowls", Long},
		{"cone 6", Medium},
		{"Give me a tl;dr on silica", Short},
		{"How do I center clay on the wheel?", Long},
		{"how-to trim a foot ring", Long},
		{"Glaze crawling fix", Long},
		{"stoneware vs porcelain", Long},
		{"quick answer about kiln wash please", Short},
		{"In a sentence, what is bisque ware?", Short},
		{"celadon", Medium},
		{"", Medium},
		{"what temperature does bone dry clay need to reach in a bisque firing", Medium},
		// Word boundaries: "showing" contains "how", "makers" contains "make".
		{"who are famous makers showing celadon pieces today", Medium},
		{"shortcrust", Medium},
	}

	for _, tc := range tests {
		t.Run(tc.question, func(t *testing.T) {
			if got := Infer(tc.question); got != tc.expected {
				t.Errorf("Infer(%q) = %q, want %q", tc.question, got, tc.expected)
			}
		})
	}
}

func TestInfer_Deterministic(t *testing.T) {
	questions := []string{"cone 6", "brief tutorial", "tl;dr silica", "what is grog used for in clay bodies"}
	for _, q := range questions {
		first := Infer(q)
		for i := 0; i < 5; i++ {
			if got := Infer(q); got != first {
				t.Fatalf("Infer(%q) changed between calls: %q then %q", q, first, got)
			}
		}
	}
}

func TestIsProcedural(t *testing.T) {
	if !IsProcedural("Steps to wedge clay") {
		t.Error("expected procedural for 'Steps to wedge clay'")
	}
	if IsProcedural("What is a cone?") {
		t.Error("expected non-procedural for 'What is a cone?'")
	}
}

func TestMode_IsValid(t *testing.T) {
	for _, m := range []Mode{Short, Medium, Long} {
		if !m.IsValid() {
			t.Errorf("expected %q to be valid", m)
		}
	}
	if Mode("verbose").IsValid() {
		t.Error("expected unknown mode to be invalid")
	}
}
