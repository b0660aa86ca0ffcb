//go:build go1.18
// +build go1.18

package tokenizer

import (
	"strings"
	"testing"
)

// FuzzLines tests the tokenizer with random inputs to find edge cases and panics.
// Run with: go test -fuzz=FuzzLines -fuzztime=30s ./internal/tokenizer
func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"\n",
		"\"",
		"\"\"",
		"\"\\",
		"BO_ 1 A: 8 X",
		" SG_ s m1 : 0|8@1+ (1,0) [0|0] \"\" X",
		"VAL_ 1 s 0 \"a\" 1 \"b\" ;",
		"a\r\nb\r\n",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		lines := Lines(input)

		// One entry per physical line, never fewer
		if want := strings.Count(input, "\n") + 1; len(lines) != want {
			t.Fatalf("got %d lines, want %d", len(lines), want)
		}
		for i, line := range lines {
			if line.Number != i+1 {
				t.Fatalf("line %d numbered %d", i+1, line.Number)
			}
			for _, token := range line.Tokens {
				if token == "" {
					t.Fatalf("line %d: empty token", line.Number)
				}
			}
		}
	})
}
