package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Directions are the eight ray offsets on the flattened 8x8 index:
// down, up, left, right, down-left, up-right, down-right, up-left.
var Directions = [8]int{8, -8, -1, 1, 7, -7, 9, -9}

// SquaresToEdge[c][d] is how many steps from c along Directions[d] stay on
// the board.
var SquaresToEdge [Squares][8]int

func init() {
	for c := 0; c < Squares; c++ {
		row, col := c/Width, c%Width
		down := Width - 1 - row
		up := row
		left := col
		right := Width - 1 - col
		SquaresToEdge[c] = [8]int{
			down,
			up,
			left,
			right,
			min(down, left),
			min(up, right),
			min(down, right),
			min(up, left),
		}
	}
}

// Bit returns the single-square mask for coord.
func Bit(coord int) uint64 {
	return 1 << uint(coord)
}

// Coord converts a zero-based row and column to a square index.
func Coord(row, col int) int {
	return row*Width + col
}

func OnBoard(coord int) bool {
	return coord >= 0 && coord < Squares
}

// Name returns the algebraic name of coord ("a1" is square 0, "h8" is 63).
func Name(coord int) string {
	if !OnBoard(coord) {
		return "--"
	}
	return string([]byte{byte('a' + coord%Width), byte('1' + coord/Width)})
}

// Parse accepts either an algebraic name ("d3") or a bare square index ("19").
func Parse(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' {
		return Coord(int(s[1]-'1'), int(s[0]-'a')), nil
	}
	c, err := strconv.Atoi(s)
	if err != nil {
		return NoCoord, fmt.Errorf("parse coordinate %q: not a square name or index", s)
	}
	if !OnBoard(c) {
		return NoCoord, fmt.Errorf("parse coordinate %q: out of range", s)
	}
	return c, nil
}
