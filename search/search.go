// Package search picks moves with iterative-deepening alpha-beta minimax.
//
// Each depth replays the root moves best-first from a MaxHeap filled with the
// scores of the previous depth, so the strongest lines tighten the window
// early. The clock and the context are only consulted between depths: a
// single deep iteration may overrun the budget.
package search

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/rs/zerolog"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/rules"
)

const (
	DefaultMaxDepth   = 10
	DefaultTimeBudget = time.Second
)

// Config bounds one Search call.
type Config struct {
	MaxDepth   int
	TimeBudget time.Duration
}

func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth, TimeBudget: DefaultTimeBudget}
}

// Result is the outcome of a Search. Move is board.NoCoord when the side had
// no legal move. Depth is the last completed iteration; an iteration of depth
// d looks d+1 plies ahead, the root move plus d replies.
type Result struct {
	Move    int           `json:"move"`
	Score   int           `json:"score"`
	Depth   int           `json:"depth"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Empties int           `json:"empties"`
	Stats   Stats         `json:"stats"`
}

// Status renders the one-line diagnostic shown after an engine move.
func (r Result) Status() string {
	return fmt.Sprintf("nodes %d | %dms | depth %d | prunes %d/%d | best %d | empties %d",
		r.Stats.Nodes, r.Elapsed.Milliseconds(), r.Depth, r.Stats.PrunesMax, r.Stats.PrunesMin, r.Score, r.Empties)
}

// Search chooses a move for side. Depth 1 always completes, so a legal move
// is returned whenever one exists even if ctx is already done.
func Search(ctx context.Context, pos board.Position, side board.Side, cfg Config) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	res := Result{Move: board.NoCoord, Empties: pos.Empties}

	legal := rules.LegalMoves(pos, side)
	if legal == 0 {
		res.Elapsed = time.Since(start)
		return res
	}
	only := bits.OnesCount64(legal) == 1

	order := NewMaxHeap(bits.OnesCount64(pos.Candidates))
	for m := pos.Candidates; m != 0; m &= m - 1 {
		c := bits.TrailingZeros64(m)
		if err := order.Insert(Entry{Priority: c, Payload: c}); err != nil {
			logger.Error().Err(err).Str("square", board.Name(c)).Msg("seed move order")
			break
		}
	}

	maxDepth := max(cfg.MaxDepth, 1)
	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && (time.Since(start) >= cfg.TimeBudget || ctx.Err() != nil) {
			break
		}

		next := NewMaxHeap(order.Size())
		alpha, beta := math.MinInt, math.MaxInt
		bestMove, bestScore := board.NoCoord, math.MinInt
		var stats Stats

		for !order.IsEmpty() {
			e, _ := order.Pop()
			c := e.Payload
			if !rules.IsLegalMove(c, side, pos.Black, pos.White) {
				continue
			}
			child := rules.Place(pos, c, side)
			// The reply is always searched: depth counts plies below the root move.
			score, st := minimax(child, side, depth, false, alpha, beta, false)
			stats = stats.Add(st)
			if err := next.Insert(Entry{Priority: score, Payload: c}); err != nil {
				logger.Error().Err(err).Str("square", board.Name(c)).Msg("reorder moves")
			}

			if score > bestScore {
				bestMove, bestScore = c, score
			}
			alpha = max(alpha, score)
		}
		order = next

		res.Move, res.Score, res.Depth = bestMove, bestScore, depth
		res.Stats = res.Stats.Add(stats)
		logger.Debug().
			Int("depth", depth).
			Str("best", board.Name(bestMove)).
			Int("score", bestScore).
			Int("nodes", stats.Nodes).
			Dur("elapsed", time.Since(start)).
			Msg("deepening-iteratively")

		if only || depth+1 >= pos.Empties {
			break
		}
	}

	res.Elapsed = time.Since(start)
	return res
}
