package board

import (
	"math/bits"
	"testing"
)

func checkInvariants(t *testing.T, p Position) {
	t.Helper()
	if p.Black&p.White != 0 {
		t.Fatalf("overlap=%x\n%s", p.Black&p.White, p)
	}
	if p.Occupied != p.Black|p.White {
		t.Fatalf("occupied=%x want=%x\n%s", p.Occupied, p.Black|p.White, p)
	}
	if p.Candidates&p.Occupied != 0 {
		t.Fatalf("candidates overlap occupied=%x\n%s", p.Candidates&p.Occupied, p)
	}
	if n := bits.OnesCount64(p.Occupied) + p.Empties; n != Squares {
		t.Fatalf("discs+empties=%d want=%d\n%s", n, Squares, p)
	}
}

func TestStart(t *testing.T) {
	p := Start()
	checkInvariants(t, p)

	if p.Empties != 60 {
		t.Fatalf("empties=%d want=60", p.Empties)
	}
	if got := p.Count(Black); got != 2 {
		t.Fatalf("black=%d want=2", got)
	}
	if got := p.Count(White); got != 2 {
		t.Fatalf("white=%d want=2", got)
	}
	for _, tc := range []struct {
		name string
		side Side
	}{
		{"d4", Black}, {"e5", Black}, {"e4", White}, {"d5", White},
	} {
		c, err := Parse(tc.name)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.name, err)
		}
		side, ok := p.At(c)
		if !ok || side != tc.side {
			t.Fatalf("%s side=%v ok=%v want=%v\n%s", tc.name, side, ok, tc.side, p)
		}
	}

	// The 4x4 block around the centre minus the centre itself.
	if got := bits.OnesCount64(p.Candidates); got != 12 {
		t.Fatalf("candidates=%d want=12\n%s", got, p)
	}
}

func TestUpdateCandidates_Corner(t *testing.T) {
	cand, occ := UpdateCandidates(0, 0, 0)
	want := Bit(1) | Bit(8) | Bit(9)
	if cand != want {
		t.Fatalf("candidates=%x want=%x", cand, want)
	}
	if occ != Bit(0) {
		t.Fatalf("occupied=%x want=%x", occ, Bit(0))
	}

	// Filling a neighbour removes it from the candidate set.
	cand, occ = UpdateCandidates(cand, occ, 1)
	if cand&Bit(1) != 0 {
		t.Fatalf("occupied square 1 still a candidate: %x", cand)
	}
	if cand&Bit(2) == 0 || cand&Bit(10) == 0 {
		t.Fatalf("neighbours of 1 missing: %x", cand)
	}
	if occ != Bit(0)|Bit(1) {
		t.Fatalf("occupied=%x", occ)
	}
}

func TestUpdateCandidates_NoWrap(t *testing.T) {
	// h1 (7) must not mark a1 of the next row (8), and a2 (8) must not mark h1.
	cand, _ := UpdateCandidates(0, 0, 7)
	if cand&Bit(8) != 0 {
		t.Fatalf("wrapped from h1 to a2: %x", cand)
	}
	cand, _ = UpdateCandidates(0, 0, 8)
	if cand&Bit(7) != 0 || cand&Bit(15) != 0 {
		t.Fatalf("wrapped from a2: %x", cand)
	}
}

func TestSquaresToEdge(t *testing.T) {
	tests := []struct {
		coord int
		want  [8]int
	}{
		{0, [8]int{7, 0, 0, 7, 0, 0, 7, 0}},
		{63, [8]int{0, 7, 7, 0, 0, 0, 0, 7}},
		{Coord(3, 3), [8]int{4, 3, 3, 4, 3, 3, 4, 3}},
		{7, [8]int{7, 0, 7, 0, 7, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := SquaresToEdge[tt.coord]; got != tt.want {
			t.Fatalf("coord=%s edge=%v want=%v", Name(tt.coord), got, tt.want)
		}
	}
}

func TestFromBitboards(t *testing.T) {
	start := Start()
	p := FromBitboards(start.Black, start.White)
	if p != start {
		t.Fatalf("rebuilt=%+v want=%+v", p, start)
	}

	p = FromBitboards(Bit(0)|Bit(1), Bit(1)|Bit(2))
	checkInvariants(t, p)
	if p.White != Bit(2) {
		t.Fatalf("white=%x want=%x", p.White, Bit(2))
	}
}

func TestNameParse(t *testing.T) {
	for c := 0; c < Squares; c++ {
		got, err := Parse(Name(c))
		if err != nil || got != c {
			t.Fatalf("roundtrip %d name=%s got=%d err=%v", c, Name(c), got, err)
		}
	}
	if Name(19) != "d3" {
		t.Fatalf("name(19)=%s want=d3", Name(19))
	}
	if c, err := Parse(" 44 "); err != nil || c != 44 {
		t.Fatalf("parse index c=%d err=%v", c, err)
	}
	for _, bad := range []string{"", "i1", "a9", "64", "-1", "d33"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("parse %q: expected error", bad)
		}
	}
}

func TestSideOpponent(t *testing.T) {
	if Black.Opponent() != White || White.Opponent() != Black {
		t.Fatalf("opponent mapping broken")
	}
}
