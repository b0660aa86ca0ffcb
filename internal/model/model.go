// Package model holds the decoded representation of a DBC file.
package model

import "fmt"

// Message is one BO_ record with the signals declared below it.
type Message struct {
	CanID uint32 `json:"canId" yaml:"canId"`
	// Name is the raw message name, Label its snake_case form.
	Name            string  `json:"name" yaml:"name"`
	Label           string  `json:"label" yaml:"label"`
	IsExtendedFrame bool    `json:"isExtendedFrame" yaml:"isExtendedFrame"`
	Priority        *uint8  `json:"priority,omitempty" yaml:"priority,omitempty"`
	PGN             *uint32 `json:"pgn,omitempty" yaml:"pgn,omitempty"`
	SourceAddress   *uint8  `json:"source,omitempty" yaml:"source,omitempty"`
	// DataLength is the payload size in bytes.
	DataLength int      `json:"dlc" yaml:"dlc"`
	Signals    []Signal `json:"signals" yaml:"signals"`
	SourceLine int      `json:"lineInDbc" yaml:"lineInDbc"`
}

// Signal returns the first signal named name.
func (m *Message) Signal(name string) (*Signal, bool) {
	for i := range m.Signals {
		if m.Signals[i].Name == name {
			return &m.Signals[i], true
		}
	}
	return nil, false
}

// Signal is one SG_ record.
type Signal struct {
	Name string `json:"name" yaml:"name"`
	// Label combines the owning message label and the signal name.
	Label       string      `json:"label" yaml:"label"`
	Multiplexer Multiplexer `json:"multiplexer" yaml:"multiplexer"`
	StartBit    int         `json:"startBit" yaml:"startBit"`
	BitLength   int         `json:"bitLength" yaml:"bitLength"`
	ByteOrder   ByteOrder   `json:"byteOrder" yaml:"byteOrder"`
	IsSigned    bool        `json:"isSigned" yaml:"isSigned"`
	Factor      float64     `json:"factor" yaml:"factor"`
	Offset      float64     `json:"offset" yaml:"offset"`
	Minimum     float64     `json:"min" yaml:"min"`
	Maximum     float64     `json:"max" yaml:"max"`
	Unit        string      `json:"unit" yaml:"unit"`
	// States maps raw values to labels; empty unless a VAL_ record was linked.
	States     map[int64]string `json:"states" yaml:"states"`
	SourceLine int              `json:"lineInDbc" yaml:"lineInDbc"`
}

// MultiplexerRole describes how a signal takes part in multiplexing.
type MultiplexerRole string

const (
	MultiplexerNone        MultiplexerRole = "none"
	MultiplexerSwitch      MultiplexerRole = "switch"
	MultiplexerMultiplexed MultiplexerRole = "multiplexed"
)

// Multiplexer is the multiplexer indicator of a signal.
// Index is only meaningful for MultiplexerMultiplexed.
type Multiplexer struct {
	Role  MultiplexerRole `json:"role" yaml:"role"`
	Index int             `json:"index" yaml:"index"`
}

// String returns the DBC spelling of the indicator ("", "M" or "m<N>").
func (m Multiplexer) String() string {
	switch m.Role {
	case MultiplexerSwitch:
		return "M"
	case MultiplexerMultiplexed:
		return fmt.Sprintf("m%d", m.Index)
	default:
		return ""
	}
}

// ByteOrder is the bit numbering of a signal.
type ByteOrder string

const (
	LittleEndian ByteOrder = "little_endian" // @1, Intel
	BigEndian    ByteOrder = "big_endian"    // @0, Motorola
)

// ValueTable is a VAL_ record waiting to be linked to its signal.
type ValueTable struct {
	// MessageID is only usable when ValidID is set.
	MessageID  uint32
	ValidID    bool
	SignalName string
	States     map[int64]string
	SourceLine int
}
