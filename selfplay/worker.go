// Package selfplay plays the engine against itself and records every ply.
package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/rules"
	"github.com/brensch/othello/search"
	"github.com/brensch/othello/store"
)

type Config struct {
	// Games to play in total; 0 plays until the context is cancelled.
	Games   int
	Workers int
	// RandomPlies opening plies are chosen uniformly from the legal moves so
	// that games diverge.
	RandomPlies int
	Search      search.Config
	// Seed makes a run reproducible. 0 derives seeds from the clock.
	Seed   int64
	Source string
	Logger zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Games:       100,
		Workers:     4,
		RandomPlies: 4,
		Search:      search.Config{MaxDepth: 6, TimeBudget: 200 * time.Millisecond},
		Source:      "selfplay",
		Logger:      zerolog.Nop(),
	}
}

type GameResult struct {
	GameID string
	// Winner is "black", "white" or "draw".
	Winner string
	Black  int
	White  int
	Plies  int
}

// Finished is one completed game handed to the writer.
type Finished struct {
	Rows   []store.MoveRow
	Result GameResult
}

// PlayGame plays one full game from the standard opening. A cancelled context
// abandons the game and returns ctx.Err().
func PlayGame(ctx context.Context, gameID string, seed int64, cfg Config) ([]store.MoveRow, GameResult, error) {
	rng := rand.New(rand.NewSource(seed))
	searchCtx := cfg.Logger.WithContext(ctx)

	pos := board.Start()
	side := board.White
	rows := make([]store.MoveRow, 0, 64)
	sides := make([]board.Side, 0, 64)

	for ply := 0; !rules.IsGameOver(pos); ply++ {
		if err := ctx.Err(); err != nil {
			return nil, GameResult{GameID: gameID, Plies: ply}, err
		}

		row := store.MoveRow{
			GameID:  gameID,
			Ply:     int32(ply),
			Side:    side.String(),
			Coord:   board.NoCoord,
			Move:    "pass",
			Black:   pos.Black,
			White:   pos.White,
			Empties: int32(pos.Empties),
			Source:  cfg.Source,
		}

		moves := rules.GetLegalMoves(pos, side)
		coord := board.NoCoord
		switch {
		case len(moves) == 0:
		case ply < cfg.RandomPlies:
			coord = moves[rng.Intn(len(moves))]
			row.Random = true
		default:
			res := search.Search(searchCtx, pos, side, cfg.Search)
			coord = res.Move
			row.Score = int64(res.Score)
			row.Depth = int32(res.Depth)
			row.Nodes = int64(res.Stats.Nodes)
			row.PrunesMax = int64(res.Stats.PrunesMax)
			row.PrunesMin = int64(res.Stats.PrunesMin)
			row.ElapsedUs = res.Elapsed.Microseconds()
		}

		if coord != board.NoCoord {
			pos = rules.Place(pos, coord, side)
			row.Coord = int32(coord)
			row.Move = board.Name(coord)
		}
		rows = append(rows, row)
		sides = append(sides, side)
		side = side.Opponent()
	}

	result := GameResult{
		GameID: gameID,
		Winner: "draw",
		Black:  pos.Count(board.Black),
		White:  pos.Count(board.White),
		Plies:  len(rows),
	}
	if w, ok := rules.Winner(pos); ok {
		result.Winner = w.String()
	}
	for i := range rows {
		rows[i].Winner = result.Winner
		rows[i].FinalBlack = int32(result.Black)
		rows[i].FinalWhite = int32(result.White)
		rows[i].Result = rules.GetResult(pos, sides[i])
	}
	return rows, result, nil
}

// Run plays cfg.Games games on cfg.Workers goroutines and sends each finished
// game to out. It returns when all games are done or ctx is cancelled; out is
// not closed.
func Run(ctx context.Context, cfg Config, out chan<- Finished) error {
	workers := max(cfg.Workers, 1)
	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; cfg.Games <= 0 || i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				seed := baseSeed + int64(i)*1000003
				gameID := fmt.Sprintf("selfplay_%d_%d", baseSeed, i)
				rows, res, err := PlayGame(ctx, gameID, seed, cfg)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("game %s: %w", gameID, err)
				}
				cfg.Logger.Info().
					Int("worker", w).
					Str("game", gameID).
					Str("winner", res.Winner).
					Int("black", res.Black).
					Int("white", res.White).
					Int("plies", res.Plies).
					Msg("game finished")

				select {
				case out <- Finished{Rows: rows, Result: res}:
				case <-ctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	return g.Wait()
}
