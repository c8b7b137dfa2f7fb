package search

import (
	"math"
	"math/bits"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/eval"
	"github.com/brensch/othello/rules"
)

// Stats counts the work done below one call. Callers sum the values returned
// by their children.
type Stats struct {
	Nodes     int `json:"nodes"`
	PrunesMax int `json:"prunes_max"`
	PrunesMin int `json:"prunes_min"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Nodes:     s.Nodes + o.Nodes,
		PrunesMax: s.PrunesMax + o.PrunesMax,
		PrunesMin: s.PrunesMin + o.PrunesMin,
	}
}

func (s Stats) Prunes() int { return s.PrunesMax + s.PrunesMin }

// minimax scores pos for me. maximizing says whether me is to move. passed
// is set when the previous ply was a forced pass; a second pass in a row
// ends the game.
func minimax(pos board.Position, me board.Side, depth int, maximizing bool, alpha, beta int, passed bool) (int, Stats) {
	st := Stats{Nodes: 1}
	if depth <= 0 || pos.Empties <= 0 {
		return eval.ForSide(pos, me, false), st
	}

	toMove := me
	best := math.MinInt
	if !maximizing {
		toMove = me.Opponent()
		best = math.MaxInt
	}
	own, opp := pos.Bits(toMove), pos.Bits(toMove.Opponent())

	moved := false
	for m := pos.Candidates; m != 0; m &= m - 1 {
		c := bits.TrailingZeros64(m)
		if !rules.CanFlank(c, own, opp) {
			continue
		}
		moved = true

		score, cs := minimax(rules.Place(pos, c, toMove), me, depth-1, !maximizing, alpha, beta, false)
		st = st.Add(cs)

		if maximizing {
			best = max(best, score)
			if best >= beta {
				st.PrunesMax++
				break
			}
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			if best <= alpha {
				st.PrunesMin++
				break
			}
			beta = min(beta, best)
		}
	}

	if moved {
		return best, st
	}
	if passed {
		return eval.ForSide(pos, me, true), st
	}
	score, cs := minimax(pos, me, depth-1, !maximizing, alpha, beta, true)
	return score, st.Add(cs)
}
