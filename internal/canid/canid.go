// Package canid splits CAN identifiers into the fields of the parameter-group
// addressing scheme used on heavy-vehicle networks (J1939 style).
//
// Layout of an extended (29-bit) identifier:
//
//	bits 26-28  priority (3 bits)
//	bits  8-25  parameter group number (18 bits)
//	bits  0-7   source address (8 bits)
//
// DBC files mark extended identifiers by setting bit 31; that bit is outside
// every field mask and does not influence the decomposition.
package canid

import (
	"math/bits"
	"strconv"

	"github.com/cockroachdb/errors"
)

const (
	// MaxStandardID is the largest 11-bit identifier.
	MaxStandardID = 0x7FF
	// ExtendedFlag is the bit DBC files set on extended identifiers.
	ExtendedFlag = 0x80000000

	priorityShift = 26
	priorityMask  = 0x7
	pgnShift      = 8
	pgnMask       = 0x3FFFF
	sourceMask    = 0xFF
)

var (
	// ErrNotNumeric indicates an identifier token that is not a base-10 integer.
	ErrNotNumeric = errors.New("CAN identifier is not a number")

	// ErrOutOfRange indicates an identifier that does not fit in 32 bits.
	ErrOutOfRange = errors.New("CAN identifier does not fit in 32 bits")
)

// Identifier is a decomposed CAN identifier.
// Priority, PGN and Source are only meaningful when Extended is true.
type Identifier struct {
	Raw      uint32
	Extended bool
	Priority uint8
	PGN      uint32
	Source   uint8
}

// Parse reads a base-10 identifier token.
// Non-numeric input yields ErrNotNumeric, numeric input above 32 bits ErrOutOfRange.
func Parse(token string) (uint32, error) {
	v, err := strconv.ParseUint(token, 10, 32)
	if err == nil {
		return uint32(v), nil
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return 0, errors.Wrapf(ErrOutOfRange, "identifier %q", token)
	}
	return 0, errors.Wrapf(ErrNotNumeric, "identifier %q", token)
}

// IsExtended reports whether id needs more than 11 bits.
func IsExtended(id uint32) bool {
	return bits.Len32(id) > 11
}

// Split decomposes id. Standard identifiers are returned with only Raw set.
func Split(id uint32) Identifier {
	ident := Identifier{Raw: id, Extended: IsExtended(id)}
	if !ident.Extended {
		return ident
	}

	ident.Priority = uint8((id >> priorityShift) & priorityMask)
	ident.PGN = (id >> pgnShift) & pgnMask
	ident.Source = uint8(id & sourceMask)
	return ident
}

// SplitToken parses and decomposes an identifier token in one step.
func SplitToken(token string) (Identifier, error) {
	id, err := Parse(token)
	if err != nil {
		return Identifier{}, err
	}
	return Split(id), nil
}

// Compose builds the 29-bit identifier for a priority, PGN and source address.
// Values wider than their fields are truncated to the field width.
func Compose(priority uint8, pgn uint32, source uint8) uint32 {
	return (uint32(priority)&priorityMask)<<priorityShift |
		(pgn&pgnMask)<<pgnShift |
		uint32(source)&sourceMask
}
