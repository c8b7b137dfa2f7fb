package report

import (
	"context"
	"testing"

	"github.com/brensch/othello/store"
)

func gameRows(id, winner string, plies int) []store.MoveRow {
	rows := make([]store.MoveRow, plies)
	for i := range rows {
		rows[i] = store.MoveRow{
			GameID:     id,
			Ply:        int32(i),
			Side:       "white",
			Coord:      int32(19 + i),
			Move:       "d3",
			Depth:      int32(2 + i),
			Nodes:      100,
			ElapsedUs:  2000,
			Winner:     winner,
			FinalBlack: 30,
			FinalWhite: 30,
			Source:     "test",
		}
	}
	rows[0].Depth = 0
	rows[0].Random = true
	rows[plies-1].Coord = -1
	rows[plies-1].Move = "pass"
	return rows
}

func TestSummarise(t *testing.T) {
	dir := t.TempDir()
	if _, err := store.WriteGameParquet(dir, gameRows("a", "black", 3)); err != nil {
		t.Fatalf("write a: %v", err)
	}
	bw, err := store.NewBatchWriter(dir)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, rows := range [][]store.MoveRow{gameRows("b", "draw", 2), gameRows("c", "black", 4)} {
		if err := bw.WriteGame(rows); err != nil {
			t.Fatalf("write %s: %v", rows[0].GameID, err)
		}
	}
	if _, err := bw.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	db, err := Open([]string{dir})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	totals, err := Summarise(ctx, db)
	if err != nil {
		t.Fatalf("summarise: %v", err)
	}
	if totals.Games != 3 || totals.BlackWins != 2 || totals.Draws != 1 || totals.WhiteWins != 0 {
		t.Fatalf("totals=%+v", totals)
	}
	if totals.AvgPlies != 3 {
		t.Fatalf("avg plies=%v want=3", totals.AvgPlies)
	}
	if totals.AvgElapseMs != 2 {
		t.Fatalf("avg ms=%v want=2", totals.AvgElapseMs)
	}

	games, err := Games(ctx, db, 10)
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("games=%d want=3", len(games))
	}
	for _, g := range games {
		if g.Passes != 1 {
			t.Fatalf("game %s passes=%d want=1", g.GameID, g.Passes)
		}
		if g.GameID == "c" && (g.Plies != 4 || g.MaxDepth != 5) {
			t.Fatalf("game c=%+v", g)
		}
	}
}

func TestOpen_NoRoots(t *testing.T) {
	if _, err := Open([]string{" ", ""}); err == nil {
		t.Fatalf("expected error without roots")
	}
}

func TestEscapeSQLString(t *testing.T) {
	if got := escapeSQLString("it's"); got != "it''s" {
		t.Fatalf("escape=%q", got)
	}
}
