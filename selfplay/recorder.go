package selfplay

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brensch/othello/store"
)

type RecorderConfig struct {
	OutDir string
	// GamesPerFile rotates batch files; ignored when PerGame is set.
	GamesPerFile int
	// PerGame writes every game to its own <game_id>.parquet instead of
	// batching.
	PerGame bool
	Logger  zerolog.Logger
}

// Recorder persists finished games. It is not safe for concurrent use; feed
// it from a single goroutine with Drain.
type Recorder struct {
	cfg   RecorderConfig
	batch *store.BatchWriter

	games int
	files []string
}

func NewRecorder(cfg RecorderConfig) *Recorder {
	if cfg.GamesPerFile <= 0 {
		cfg.GamesPerFile = 50
	}
	return &Recorder{cfg: cfg}
}

// Record stores one game. In batch mode the file is published once it holds
// GamesPerFile games.
func (r *Recorder) Record(f Finished) error {
	if r.cfg.PerGame {
		path, err := store.WriteGameParquet(r.cfg.OutDir, f.Rows)
		if err != nil {
			return fmt.Errorf("record game %s: %w", f.Result.GameID, err)
		}
		r.games++
		r.files = append(r.files, path)
		r.cfg.Logger.Debug().Str("path", path).Int("rows", len(f.Rows)).Msg("game written")
		return nil
	}

	if r.batch == nil {
		bw, err := store.NewBatchWriter(r.cfg.OutDir)
		if err != nil {
			return err
		}
		r.batch = bw
	}
	if err := r.batch.WriteGame(f.Rows); err != nil {
		return fmt.Errorf("record game %s: %w", f.Result.GameID, err)
	}
	r.games++
	if r.batch.Games() >= r.cfg.GamesPerFile {
		return r.flush()
	}
	return nil
}

func (r *Recorder) flush() error {
	if r.batch == nil {
		return nil
	}
	b, err := r.batch.Finalize()
	r.batch = nil
	if err != nil {
		return err
	}
	if b.Path != "" {
		r.files = append(r.files, b.Path)
		r.cfg.Logger.Info().Str("path", b.Path).Int("games", b.Games).Int("rows", b.Rows).Msg("parquet flush ok")
	}
	return nil
}

// Close publishes any partly filled batch.
func (r *Recorder) Close() error { return r.flush() }

// Games is the number of games recorded so far.
func (r *Recorder) Games() int { return r.games }

// Files lists the published parquet files in order.
func (r *Recorder) Files() []string { return r.files }

// Drain records every game from in until it is closed, then closes r. A game
// that fails to record is logged and skipped.
func (r *Recorder) Drain(in <-chan Finished) error {
	for f := range in {
		if err := r.Record(f); err != nil {
			r.cfg.Logger.Error().Err(err).Msg("record game")
		}
	}
	return r.Close()
}
