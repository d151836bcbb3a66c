package reply

import "testing"

const noInfo = "No relevant pottery information found. Please try rephrasing your question."

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
		{"collapse whitespace", "  The glaze is   stable at cone 6.  ", "The glaze is stable at cone 6."},
		{"newlines and tabs", "Wedge\n\nthe\tclay.", "Wedge the clay."},
		{"curly quotes", "Use “wax resist” on the ‘foot’ ring.", `Use "wax resist" on the 'foot' ring.`},
		{"non-breaking space", "cone\u00a06", "cone 6"},
		{"outer double quotes", "“Celadon is green.”", "Celadon is green."},
		{"outer single quotes", "'Celadon is green.'", "Celadon is green."},
		{"mismatched quotes kept", `"Celadon is green.'`, `"Celadon is green.'`},
		{"outer bold", "**Whole answer in bold.**", "Whole answer in bold."},
		{
			"separate bold spans at both ends kept",
			"**Cone 6** is mid-fire and **cone 10** is **high**",
			"**Cone 6** is mid-fire and **cone 10** is **high**",
		},
		{"separate quoted phrases at both ends kept", `"Wax" the foot, then "dip"`, `"Wax" the foot, then "dip"`},
		{"apostrophe inside single quotes kept", "'It's leather hard'", "'It's leather hard'"},
		{"nested wrappers", `**"Quoted bold."**`, "Quoted bold."},
		{"asterisk runs", "****Too many**** stars here", "**Too many** stars here"},
		{"inner bold kept", "**Cone 6** is mid-fire.", "**Cone 6** is mid-fire."},
		{"stray leading asterisks", "** dangling emphasis", "dangling emphasis"},
		{"stray trailing asterisk", "ends with a star *", "ends with a star"},
		{"repeated no-info collapsed", noInfo + " " + noInfo + "\n" + noInfo, noInfo},
		{
			"repeated no-info any case",
			"no relevant glaze data found. please try rephrasing your question. " +
				"NO RELEVANT glaze data FOUND. Please try rephrasing your question.",
			"no relevant glaze data found. please try rephrasing your question.",
		},
		{"single no-info kept", noInfo, noInfo},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  The glaze is   stable at cone 6.  ",
		"“Celadon is green.”",
		"**Whole answer in bold.**",
		"****Too many**** stars here",
		"**Cone 6** is mid-fire.",
		"**Cone 6** is mid-fire and **cone 10** is **high**",
		`**"Quoted bold."**`,
		`"*Nested*"`,
		"** dangling emphasis",
		noInfo + " " + noInfo,
		"Plain text without artifacts.",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsNoInformation(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{noInfo, true},
		{"  " + noInfo + "  ", true},
		{"No relevant information found. Please try rephrasing your question.", true},
		{"no relevant kiln information found. please try rephrasing your question", true},
		// Exact backend wording only; paraphrases are not detected.
		{"No relevant information found.", false},
		{"Nothing relevant was found, please rephrase.", false},
		{"Celadon is a green glaze.", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsNoInformation(tc.text); got != tc.expected {
			t.Errorf("IsNoInformation(%q) = %v, want %v", tc.text, got, tc.expected)
		}
	}
}
