package dbc

import (
	"fmt"

	"github.com/shapestone/shape-dbc/internal/canid"
	"github.com/shapestone/shape-dbc/internal/parser"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrNoMessages indicates input without a single decodable BO_ line.
	ErrNoMessages = parser.ErrNoMessages

	// ErrMultiplexer indicates an SG_ multiplexer token other than "M" or "m<N>".
	ErrMultiplexer = parser.ErrMultiplexer

	// ErrNotNumeric indicates a CAN identifier that is not a base-10 integer.
	ErrNotNumeric = canid.ErrNotNumeric

	// ErrOutOfRange indicates a CAN identifier wider than 32 bits.
	ErrOutOfRange = canid.ErrOutOfRange
)

// ProblemsError reports the problems that failed a Check.
type ProblemsError struct {
	// Threshold is the lowest severity that was counted.
	Threshold Severity
	// Problems at or above Threshold, in detection order.
	Problems []Problem
}

// Error returns the first problem and the number of others.
func (e *ProblemsError) Error() string {
	if len(e.Problems) == 0 {
		return "no problems"
	}
	return fmt.Sprintf("DBC has %d problem(s) at or above %s, first: %s", len(e.Problems), e.Threshold, e.Problems[0])
}
