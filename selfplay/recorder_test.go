package selfplay

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brensch/othello/store"
)

func playFinished(t *testing.T, cfg Config, n int) []Finished {
	t.Helper()
	cfg.Games = n
	cfg.Workers = 1
	cfg.Seed = 5
	out := make(chan Finished, n)
	if err := Run(context.Background(), cfg, out); err != nil {
		t.Fatalf("run: %v", err)
	}
	close(out)
	var games []Finished
	for f := range out {
		games = append(games, f)
	}
	return games
}

func TestRecorder_PerGame(t *testing.T) {
	dir := t.TempDir()
	games := playFinished(t, fastConfig(), 2)
	rec := NewRecorder(RecorderConfig{OutDir: dir, PerGame: true})
	for _, f := range games {
		if err := rec.Record(f); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(rec.Files()) != 2 || rec.Games() != 2 {
		t.Fatalf("files=%v games=%d", rec.Files(), rec.Games())
	}
	for i, f := range games {
		want := filepath.Join(dir, f.Result.GameID+".parquet")
		if rec.Files()[i] != want {
			t.Fatalf("file %d=%s want=%s", i, rec.Files()[i], want)
		}
		rows, err := store.ReadParquet(want)
		if err != nil || len(rows) != f.Result.Plies {
			t.Fatalf("read rows=%d plies=%d err=%v", len(rows), f.Result.Plies, err)
		}
	}
}

func TestRecorder_BatchRotationAndDrain(t *testing.T) {
	dir := t.TempDir()
	games := playFinished(t, fastConfig(), 5)
	rec := NewRecorder(RecorderConfig{OutDir: dir, GamesPerFile: 2})

	in := make(chan Finished, len(games)+1)
	for _, f := range games {
		in <- f
	}
	in <- Finished{Result: GameResult{GameID: "broken"}}
	close(in)
	if err := rec.Drain(in); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if rec.Games() != 5 || len(rec.Files()) != 3 {
		t.Fatalf("games=%d files=%v", rec.Games(), rec.Files())
	}
	total := 0
	for _, path := range rec.Files() {
		info, err := store.ReadFileInfo(path)
		if err != nil {
			t.Fatalf("info %s: %v", path, err)
		}
		total += len(info.GameIDs)
		if info.BlackWins+info.WhiteWins+info.Draws != len(info.GameIDs) {
			t.Fatalf("tally=%+v", info)
		}
	}
	if total != 5 {
		t.Fatalf("games in files=%d want=5", total)
	}
}
