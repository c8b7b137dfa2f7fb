package rules

import (
	"errors"
	"fmt"

	"github.com/brensch/othello/board"
)

// ErrIllegalMove is returned by Play when the placement does not bracket any
// opponent disc or the square is taken.
var ErrIllegalMove = errors.New("illegal move")

// CanFlank reports whether a disc placed on coord would bracket at least one
// run of opp discs with an own disc. The square must be empty.
func CanFlank(coord int, own, opp uint64) bool {
	if (own|opp)&board.Bit(coord) != 0 {
		return false
	}
	for d, off := range board.Directions {
		n := board.SquaresToEdge[coord][d]
		sq := coord
		for step := 1; step < n; step++ {
			sq += off
			if opp&board.Bit(sq) == 0 {
				break
			}
			if own&board.Bit(sq+off) != 0 {
				return true
			}
		}
	}
	return false
}

// IsLegalMove is CanFlank from side's perspective.
func IsLegalMove(coord int, side board.Side, black, white uint64) bool {
	if !board.OnBoard(coord) {
		return false
	}
	if side == board.Black {
		return CanFlank(coord, black, white)
	}
	return CanFlank(coord, white, black)
}

// Flips returns the union of every opp run bracketed by a disc placed on
// coord. Runs ending at an empty square or the edge contribute nothing.
func Flips(coord int, own, opp uint64) uint64 {
	var flips uint64
	for d, off := range board.Directions {
		n := board.SquaresToEdge[coord][d]
		sq := coord
		var run uint64
		for step := 1; step < n; step++ {
			sq += off
			if opp&board.Bit(sq) == 0 {
				break
			}
			run |= board.Bit(sq)
			if own&board.Bit(sq+off) != 0 {
				flips |= run
				break
			}
		}
	}
	return flips
}

// ApplyMove places side's disc on coord and flips every bracketed run. It
// does not check legality: an illegal coord still gets a disc.
func ApplyMove(coord int, side board.Side, black, white uint64) (uint64, uint64) {
	if side == board.Black {
		f := Flips(coord, black, white)
		return (black ^ f) | board.Bit(coord), white ^ f
	}
	f := Flips(coord, white, black)
	return black ^ f, (white ^ f) | board.Bit(coord)
}

// Place is ApplyMove plus candidate, occupancy and empties bookkeeping.
func Place(pos board.Position, coord int, side board.Side) board.Position {
	pos.Black, pos.White = ApplyMove(coord, side, pos.Black, pos.White)
	return pos.Placed(coord)
}

// Play is the checked form of Place.
func Play(pos board.Position, coord int, side board.Side) (board.Position, error) {
	if !IsLegalMove(coord, side, pos.Black, pos.White) {
		return pos, fmt.Errorf("%s at %s: %w", side, board.Name(coord), ErrIllegalMove)
	}
	return Place(pos, coord, side), nil
}

// LegalMoves returns the mask of squares side may play.
func LegalMoves(pos board.Position, side board.Side) uint64 {
	own, opp := pos.Bits(side), pos.Bits(side.Opponent())
	var moves uint64
	for c := 0; c < board.Squares; c++ {
		if pos.Candidates&board.Bit(c) != 0 && CanFlank(c, own, opp) {
			moves |= board.Bit(c)
		}
	}
	return moves
}

// GetLegalMoves lists side's legal squares in ascending order.
func GetLegalMoves(pos board.Position, side board.Side) []int {
	moves := LegalMoves(pos, side)
	out := make([]int, 0, 16)
	for c := 0; c < board.Squares; c++ {
		if moves&board.Bit(c) != 0 {
			out = append(out, c)
		}
	}
	return out
}

func HasAnyLegalMove(pos board.Position, side board.Side) bool {
	own, opp := pos.Bits(side), pos.Bits(side.Opponent())
	for c := 0; c < board.Squares; c++ {
		if pos.Candidates&board.Bit(c) != 0 && CanFlank(c, own, opp) {
			return true
		}
	}
	return false
}

// IsGameOver reports whether the board is full or neither side can move.
func IsGameOver(pos board.Position) bool {
	if pos.Empties <= 0 {
		return true
	}
	return !HasAnyLegalMove(pos, board.Black) && !HasAnyLegalMove(pos, board.White)
}

// Winner returns the side with more discs. ok is false on a draw.
func Winner(pos board.Position) (side board.Side, ok bool) {
	b, w := pos.Count(board.Black), pos.Count(board.White)
	switch {
	case b > w:
		return board.Black, true
	case w > b:
		return board.White, true
	default:
		return board.Black, false
	}
}

// GetResult scores a finished game for side: 1 win, 0.5 draw, 0 loss.
func GetResult(pos board.Position, side board.Side) float32 {
	w, ok := Winner(pos)
	switch {
	case !ok:
		return 0.5
	case w == side:
		return 1
	default:
		return 0
	}
}
