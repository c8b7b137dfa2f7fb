package eval

import (
	"math/rand"
	"testing"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/rules"
)

func TestEvaluate_Start(t *testing.T) {
	pos := board.Start()
	// Symmetric start: no balance, equal mobility, equal weights.
	if got := ForSide(pos, board.White, false); got != 0 {
		t.Fatalf("start score=%d want=0\n%s", got, pos)
	}
}

func TestEvaluate_TerminalDominates(t *testing.T) {
	// Black: 5 discs on row 1, White: none. Terminal by flag.
	var mine uint64
	for c := 0; c < 5; c++ {
		mine |= board.Bit(c)
	}
	terminal := Evaluate(0, mine, 0, false)
	if terminal != 5*GameOverDiscPoints {
		t.Fatalf("terminal=%d want=%d", terminal, 5*GameOverDiscPoints)
	}
	if got := Evaluate(30, mine, 0, true); got != terminal {
		t.Fatalf("stalemate=%d want=%d", got, terminal)
	}

	// Every corner and edge for mine is as good as a mid-game board gets.
	var best uint64
	for c := 0; c < board.Squares; c++ {
		if Weights[c] > 0 {
			best |= board.Bit(c)
		}
	}
	if nt := Evaluate(5, best, 0, false); nt >= terminal {
		t.Fatalf("non-terminal=%d >= terminal=%d", nt, terminal)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		pos := board.Start()
		side := board.White
		for n := rng.Intn(50); n > 0 && !rules.IsGameOver(pos); n-- {
			moves := rules.GetLegalMoves(pos, side)
			if len(moves) > 0 {
				pos = rules.Place(pos, moves[rng.Intn(len(moves))], side)
			}
			side = side.Opponent()
		}
		if pos.Empties <= 0 {
			continue
		}
		if got := ForSide(pos, board.Black, false); got >= terminal {
			t.Fatalf("random position scored %d >= terminal %d\n%s", got, terminal, pos)
		}
	}
}

func TestEvaluate_EndGameScaling(t *testing.T) {
	mine := board.Bit(27) | board.Bit(28)
	theirs := board.Bit(35)
	mid := Evaluate(EndGameEmpties, mine, theirs, false)
	late := Evaluate(EndGameEmpties-1, mine, theirs, false)
	if late-mid != EndGameDiscPoints-1 {
		t.Fatalf("late-mid=%d want=%d", late-mid, EndGameDiscPoints-1)
	}
}

func TestEvaluate_Antisymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a := rng.Uint64()
		b := rng.Uint64() &^ a
		empties := rng.Intn(61)
		if x, y := Evaluate(empties, a, b, false), Evaluate(empties, b, a, false); x != -y {
			t.Fatalf("eval(a,b)=%d eval(b,a)=%d", x, y)
		}
	}
}

func TestWeights_Symmetric(t *testing.T) {
	for r := 0; r < board.Width; r++ {
		for c := 0; c < board.Width; c++ {
			w := Weights[board.Coord(r, c)]
			for _, m := range [][2]int{{r, 7 - c}, {7 - r, c}, {c, r}} {
				if Weights[board.Coord(m[0], m[1])] != w {
					t.Fatalf("weight(%d,%d)=%d mirror(%d,%d)=%d", r, c, w, m[0], m[1], Weights[board.Coord(m[0], m[1])])
				}
			}
		}
	}
}
