// Package board defines the bitboard representation of an Othello position.
//
// A Position is a small value type. Copying it is how the search gets its
// scratch state: nothing in this package mutates a Position through a pointer.
package board

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	Width   = 8
	Squares = Width * Width

	// NoCoord marks "no square", e.g. the last placement after a pass.
	NoCoord = -1
)

// Side is one of the two players.
type Side int8

const (
	Black Side = iota
	White
)

func (s Side) Opponent() Side {
	if s == Black {
		return White
	}
	return Black
}

func (s Side) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "unknown"
	}
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "black":
		*s = Black
	case "white":
		*s = White
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

// Position is the complete board state needed for rules, evaluation and search.
//
// Occupied and Candidates are maintained incrementally by Placed; they are
// never rescanned from the bitboards during play.
type Position struct {
	Black uint64
	White uint64

	// Occupied is Black|White.
	Occupied uint64
	// Candidates holds empty squares adjacent to an occupied square. It is a
	// superset of the legal moves for either side.
	Candidates uint64
	// Empties counts the squares still empty.
	Empties int
}

// Start returns the canonical starting position: White on e4 and d5, Black on
// d4 and e5.
func Start() Position {
	p := Position{Empties: Squares}
	for _, c := range []int{Coord(4, 3), Coord(3, 4)} {
		p.White |= Bit(c)
		p = p.Placed(c)
	}
	for _, c := range []int{Coord(3, 3), Coord(4, 4)} {
		p.Black |= Bit(c)
		p = p.Placed(c)
	}
	return p
}

// FromBitboards builds a consistent Position from two disc masks. Squares held
// by both sides are given to Black.
func FromBitboards(black, white uint64) Position {
	white &^= black
	p := Position{Black: black, White: white, Empties: Squares}
	occ := black | white
	for occ != 0 {
		c := bits.TrailingZeros64(occ)
		occ &= occ - 1
		p = p.Placed(c)
	}
	return p
}

// Placed records a disc placement at coord: candidates and occupancy are
// updated and one empty square is consumed. The disc bits themselves are the
// caller's business (see rules.ApplyMove).
func (p Position) Placed(coord int) Position {
	p.Candidates, p.Occupied = UpdateCandidates(p.Candidates, p.Occupied, coord)
	p.Empties--
	return p
}

// UpdateCandidates marks every in-board neighbour of coord as a candidate,
// adds coord to the occupied mask and strips occupied squares from the
// candidate mask.
func UpdateCandidates(candidates, occupied uint64, coord int) (uint64, uint64) {
	for d, off := range Directions {
		if SquaresToEdge[coord][d] > 0 {
			candidates |= Bit(coord + off)
		}
	}
	occupied |= Bit(coord)
	candidates &^= occupied
	return candidates, occupied
}

// Bits returns the disc mask for side.
func (p Position) Bits(side Side) uint64 {
	if side == Black {
		return p.Black
	}
	return p.White
}

// Count returns the number of discs side has on the board.
func (p Position) Count(side Side) int {
	return bits.OnesCount64(p.Bits(side))
}

// At reports which side occupies coord, if any.
func (p Position) At(coord int) (Side, bool) {
	switch {
	case p.Black&Bit(coord) != 0:
		return Black, true
	case p.White&Bit(coord) != 0:
		return White, true
	default:
		return Black, false
	}
}

func (p Position) IsCandidate(coord int) bool {
	return p.Candidates&Bit(coord) != 0
}

// String renders the board top row first: B/W discs, '+' candidates, '.' empty.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < Width; row++ {
		sb.WriteByte(byte('1' + row))
		for col := 0; col < Width; col++ {
			c := Coord(row, col)
			sb.WriteByte(' ')
			switch {
			case p.Black&Bit(c) != 0:
				sb.WriteByte('B')
			case p.White&Bit(c) != 0:
				sb.WriteByte('W')
			case p.Candidates&Bit(c) != 0:
				sb.WriteByte('+')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
