package dbc

import "github.com/shapestone/shape-dbc/internal/canid"

// Identifier is a CAN identifier split into priority, PGN and source address.
type Identifier = canid.Identifier

// SplitCANID decomposes id. Identifiers that fit in 11 bits are standard
// frames and carry no priority, PGN or source.
//
//	id := dbc.SplitCANID(2364540158)
//	// id.Priority == 3, id.PGN == 61444, id.Source == 254
func SplitCANID(id uint32) Identifier {
	return canid.Split(id)
}

// ParseCANID reads and decomposes a base-10 identifier as written in a BO_ line.
func ParseCANID(token string) (Identifier, error) {
	return canid.SplitToken(token)
}

// ComposeCANID builds the 29-bit identifier from its parts.
func ComposeCANID(priority uint8, pgn uint32, source uint8) uint32 {
	return canid.Compose(priority, pgn, source)
}
