//go:build go1.18
// +build go1.18

package parser

import (
	"testing"

	"github.com/cockroachdb/errors"
)

// FuzzParser tests the parser with random inputs to find edge cases and panics.
// Run with: go test -fuzz=FuzzParser -fuzztime=30s ./internal/parser
func FuzzParser(f *testing.F) {
	seeds := []string{
		"",
		"BO_",
		"BO_ 1 A: 8 X",
		"BO_ 1 A: 8 X\n SG_ S : 0|8@1+ (1,0) [0|255] \"\" X",
		"BO_ 2364540158 EEC1: 8 ECU\n SG_ S M : 0|8@1+ (1,0) [0|255] \"rpm\" X\n SG_ T m1 : 8|8@0- (0.5,-2) [-2|125] \"\" X",
		"BO_ x A: 8 X\n",
		"BO_ 99999999999 A: 8 X\n SG_ S : 0|8@1+ (1,0) [0|255] \"\" X",
		" SG_ S mX : |@ ( ) [ ] \"",
		"VAL_ 1 S 0 \"a\" 1 \"b\" ;",
		"VAL_ 1 S 0 \"a\" 1",
		"BO_ 1 A: 8 X\n SG_ S : 0|8@1+ (NaN,Inf) [0|255] \"\" X\nVAL_ 1 S -1 \"neg\" 9223372036854775808 \"big\" ;",
		"\"unterminated\nBO_ 1 A: 8 X",
		"﻿BO_ 1 A: 8 X\r\n SG_ S : 0|8@1+ (1,0) [0|255] \"\" X\r\n",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// The parser should never panic, regardless of input
		result, err := NewParser(input).Parse()
		if err != nil {
			if !errors.Is(err, ErrNoMessages) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			return
		}
		if len(result.Messages) == 0 {
			t.Fatal("successful parse without messages")
		}
		for _, p := range result.Problems {
			if p.Severity.Rank() == 0 {
				t.Fatalf("problem with unknown severity: %+v", p)
			}
			if p.Line < 1 {
				t.Fatalf("problem without a line: %+v", p)
			}
		}
		for _, msg := range result.Messages {
			if msg.IsExtendedFrame != (msg.PGN != nil) {
				t.Fatalf("message %q: extended=%v but pgn=%v", msg.Name, msg.IsExtendedFrame, msg.PGN)
			}
			for _, sig := range msg.Signals {
				if sig.Multiplexer.Role == "" {
					t.Fatalf("signal %q without multiplexer role", sig.Name)
				}
			}
		}
	})
}
