// Package eval scores Othello positions for the search.
package eval

import (
	"github.com/brensch/othello/board"
	"github.com/brensch/othello/rules"
)

const (
	// GameOverDiscPoints scales the disc balance of a finished game so that
	// any decided result outranks every mid-game score.
	GameOverDiscPoints = 3_000_000
	// EndGameDiscPoints scales the disc balance once fewer than
	// EndGameEmpties squares remain.
	EndGameDiscPoints = 1000
	EndGameEmpties    = 14
	// MobilityPoints is awarded per legal move.
	MobilityPoints = 100
)

// Weights is the positional value of each square, a1 first.
var Weights = [board.Squares]int{
	1000, -100, 150, 100, 100, 150, -100, 1000,
	-100, -200, 20, 20, 20, 20, -200, -100,
	150, 20, 15, 15, 15, 15, 20, 150,
	100, 20, 15, 10, 10, 15, 20, 100,
	100, 20, 15, 10, 10, 15, 20, 100,
	150, 20, 15, 15, 15, 15, 20, 150,
	-100, -200, 20, 20, 20, 20, -200, -100,
	1000, -100, 150, 100, 100, 150, -100, 1000,
}

// Evaluate scores a position for the owner of mine. A finished game
// (no empties, or stalemate) is scored on disc balance alone.
func Evaluate(empties int, mine, theirs uint64, stalemate bool) int {
	var balance, mobility, positional int
	for c := 0; c < board.Squares; c++ {
		bit := board.Bit(c)
		switch {
		case mine&bit != 0:
			balance++
			positional += Weights[c]
		case theirs&bit != 0:
			balance--
			positional -= Weights[c]
		default:
			if rules.CanFlank(c, mine, theirs) {
				mobility += MobilityPoints
			}
			if rules.CanFlank(c, theirs, mine) {
				mobility -= MobilityPoints
			}
		}
	}

	if empties <= 0 || stalemate {
		return balance * GameOverDiscPoints
	}
	if empties < EndGameEmpties {
		balance *= EndGameDiscPoints
	}
	return balance + mobility + positional
}

// ForSide evaluates pos from side's perspective.
func ForSide(pos board.Position, side board.Side, stalemate bool) int {
	return Evaluate(pos.Empties, pos.Bits(side), pos.Bits(side.Opponent()), stalemate)
}
