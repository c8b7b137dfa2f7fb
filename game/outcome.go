package game

import (
	"github.com/brensch/othello/board"
	"github.com/brensch/othello/rules"
	"github.com/brensch/othello/search"
)

// Outcome is what one RequestMove or RunEngineTurn call did to the game.
//
// Accepted is true only when the caller's own move was applied: a human move
// for RequestMove, the engine's move for RunEngineTurn. Placed is the square
// filled by the call (board.NoCoord if none). Messages are in display order.
type Outcome struct {
	Accepted bool           `json:"accepted"`
	Placed   int            `json:"placed"`
	Turn     board.Side     `json:"turn"`
	State    State          `json:"state"`
	White    int            `json:"white"`
	Black    int            `json:"black"`
	Messages []string       `json:"messages,omitempty"`
	Redraw   bool           `json:"redraw"`
	GameOver bool           `json:"game_over"`
	Winner   board.Side     `json:"winner"`
	Draw     bool           `json:"draw"`
	Search   *search.Result `json:"search,omitempty"`
}

func (g *Game) outcome() Outcome {
	out := Outcome{
		Placed:   board.NoCoord,
		Turn:     g.turn,
		State:    g.state,
		White:    g.pos.Count(board.White),
		Black:    g.pos.Count(board.Black),
		GameOver: g.state == GameOver,
	}
	if out.GameOver {
		w, ok := rules.Winner(g.pos)
		out.Winner = w
		out.Draw = !ok
	}
	return out
}
