package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "output(fo", 9, "fo", 7, 9},
		{"after_comma", "output(a, fo", 12, "fo", 10, 12},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"after_not", "!fo", 3, "fo", 1, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"digits", "x1 + y22", 8, "y22", 5, 8},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		{"negative_cursor", "ab", -1, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`output("ab`, 9, true},
		{`output("ab", c`, 13, false},
		{`x = "a\"b`, 8, true},
		{`x = "a\\" + b`, 12, false},
		{`abc`, 2, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t, "count = 1; total = 2;")

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"keyword", modeEval, "lo", []string{"loop"}},
		{"variable", modeEval, "x = cou", []string{"count"}},
		{"in_string", modeEval, `output("cou`, nil},
		{"empty_word", modeEval, "x = ", nil},
		{"command", modeCtrl, "res", []string{"reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _ := m.computeMatches()

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("computeMatches(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("o", []string{"loop", "output", "count", "total", "other"})

	full := renderCandidateBar(matches, -1, false, 200)
	for _, match := range matches {
		for _, r := range match.Str {
			if !strings.ContainsRune(full, r) {
				t.Fatalf("bar %q missing %q", full, match.Str)
			}
		}
	}

	if strings.Contains(full, "...") {
		t.Errorf("wide bar is ellipsized: %q", full)
	}

	if narrow := renderCandidateBar(matches, -1, false, 12); !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar is not ellipsized: %q", narrow)
	}

	if got := renderCandidateBar(nil, -1, false, 80); got != "" {
		t.Errorf("empty bar = %q", got)
	}
}
