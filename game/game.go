// Package game runs one human-versus-engine Othello game.
//
// A Game owns the live board.Position and the turn/pass bookkeeping. Every
// top-level call returns an Outcome describing what changed; adapters render
// from it and from the query methods. A Game is not safe for concurrent use.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/rules"
	"github.com/brensch/othello/search"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrGameOver          = errors.New("game is over")
	ErrNotHumanTurn      = errors.New("not the human's turn")
	ErrNotEngineTurn     = errors.New("not the engine's turn")
)

const (
	MsgForcedSkip = "Player forced to skip!"
	MsgNoMoves    = "NO MOVES"
)

type State int

const (
	AwaitingHumanMove State = iota
	EngineToMove
	GameOver
)

func (s State) String() string {
	switch s {
	case AwaitingHumanMove:
		return "awaiting_human_move"
	case EngineToMove:
		return "engine_to_move"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{AwaitingHumanMove, EngineToMove, GameOver} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", b)
}

type Config struct {
	// Human is the side played through RequestMove. The engine plays the other.
	Human  board.Side
	Search search.Config
	Logger zerolog.Logger
}

// DefaultConfig has the human on White, which moves first.
func DefaultConfig() Config {
	return Config{
		Human:  board.White,
		Search: search.DefaultConfig(),
		Logger: zerolog.Nop(),
	}
}

type Game struct {
	cfg        Config
	pos        board.Position
	turn       board.Side
	state      State
	lastPlaced int
	// passed is set when the previous turn ended in a pass.
	passed bool
}

// New starts a game from the standard opening with White to move.
func New(cfg Config) *Game {
	return NewFromPosition(board.Start(), board.White, cfg)
}

// NewFromPosition starts a game from an arbitrary position.
func NewFromPosition(pos board.Position, toMove board.Side, cfg Config) *Game {
	g := &Game{
		cfg:        cfg,
		pos:        pos,
		turn:       toMove,
		lastPlaced: board.NoCoord,
	}
	g.state = g.stateForTurn()
	if rules.IsGameOver(pos) {
		g.state = GameOver
	}
	return g
}

func (g *Game) Turn() board.Side             { return g.turn }
func (g *Game) State() State                 { return g.state }
func (g *Game) Human() board.Side            { return g.cfg.Human }
func (g *Game) Engine() board.Side           { return g.cfg.Human.Opponent() }
func (g *Game) Position() board.Position     { return g.pos }
func (g *Game) LastPlaced() int              { return g.lastPlaced }
func (g *Game) Bitboard(s board.Side) uint64 { return g.pos.Bits(s) }
func (g *Game) Score(s board.Side) int       { return g.pos.Count(s) }

// Winner reports the leader by disc count. ok is false on a level board.
func (g *Game) Winner() (board.Side, bool) { return rules.Winner(g.pos) }

// LegalMoves lists the squares the side to move may play.
func (g *Game) LegalMoves() []int {
	if g.state == GameOver {
		return nil
	}
	return rules.GetLegalMoves(g.pos, g.turn)
}

// RequestMove plays the human's disc on coord.
//
// An illegal square is rejected with Accepted=false while the human still has
// a legal move somewhere. Without any legal move the human is skipped and the
// engine moves straight away; a second skip in a row ends the game.
func (g *Game) RequestMove(ctx context.Context, coord int) (Outcome, error) {
	if g.state == GameOver {
		return g.outcome(), ErrGameOver
	}
	if !board.OnBoard(coord) {
		return g.outcome(), fmt.Errorf("square %d: %w", coord, ErrInvalidCoordinate)
	}
	if g.turn != g.cfg.Human {
		return g.outcome(), ErrNotHumanTurn
	}

	human := g.cfg.Human
	if rules.IsLegalMove(coord, human, g.pos.Black, g.pos.White) {
		g.commit(coord, human)
		out := g.outcome()
		out.Accepted = true
		out.Placed = coord
		out.Redraw = true
		if g.state == GameOver {
			out.Messages = append(out.Messages, "GAME OVER "+resultLine(g.pos))
		}
		return out, nil
	}

	if rules.HasAnyLegalMove(g.pos, human) {
		return g.outcome(), nil
	}

	if g.passed {
		g.state = GameOver
		out := g.outcome()
		out.Redraw = true
		out.Messages = append(out.Messages, "STALEMATE "+resultLine(g.pos))
		g.cfg.Logger.Info().Str("result", resultLine(g.pos)).Msg("stalemate")
		return out, nil
	}

	g.passed = true
	g.lastPlaced = board.NoCoord
	g.turn = g.Engine()
	g.state = EngineToMove
	out, err := g.RunEngineTurn(ctx)
	out.Accepted = false
	out.Messages = append([]string{MsgForcedSkip}, out.Messages...)
	return out, err
}

// RunEngineTurn searches for and commits the engine's move. When the engine
// has no legal move the turn passes back to the human with Placed=NoCoord.
func (g *Game) RunEngineTurn(ctx context.Context) (Outcome, error) {
	if g.state == GameOver {
		return g.outcome(), ErrGameOver
	}
	if g.turn == g.cfg.Human {
		return g.outcome(), ErrNotEngineTurn
	}

	if ctx == nil {
		ctx = context.Background()
	}
	engine := g.Engine()
	res := search.Search(g.cfg.Logger.WithContext(ctx), g.pos, engine, g.cfg.Search)

	if res.Move == board.NoCoord {
		if g.passed {
			g.state = GameOver
			out := g.outcome()
			out.Redraw = true
			out.Search = &res
			out.Messages = append(out.Messages, "STALEMATE "+resultLine(g.pos))
			return out, nil
		}
		g.passed = true
		g.lastPlaced = board.NoCoord
		g.turn = g.cfg.Human
		g.state = AwaitingHumanMove
		out := g.outcome()
		out.Redraw = true
		out.Search = &res
		out.Messages = append(out.Messages, MsgNoMoves)
		return out, nil
	}

	g.commit(res.Move, engine)
	g.cfg.Logger.Info().
		Str("side", engine.String()).
		Str("move", board.Name(res.Move)).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Int("nodes", res.Stats.Nodes).
		Dur("elapsed", res.Elapsed).
		Msg("engine move")

	out := g.outcome()
	out.Accepted = true
	out.Placed = res.Move
	out.Redraw = true
	out.Search = &res
	out.Messages = append(out.Messages, res.Status())
	if g.state == GameOver {
		out.Messages = append(out.Messages, "GAME OVER "+resultLine(g.pos))
	}
	return out, nil
}

func (g *Game) commit(coord int, side board.Side) {
	g.pos = rules.Place(g.pos, coord, side)
	g.lastPlaced = coord
	g.passed = false
	g.turn = side.Opponent()
	g.state = g.stateForTurn()
	if rules.IsGameOver(g.pos) {
		g.state = GameOver
	}
}

func (g *Game) stateForTurn() State {
	if g.turn == g.cfg.Human {
		return AwaitingHumanMove
	}
	return EngineToMove
}

func resultLine(pos board.Position) string {
	b, w := pos.Count(board.Black), pos.Count(board.White)
	winner, ok := rules.Winner(pos)
	if !ok {
		return fmt.Sprintf("draw %d-%d", w, b)
	}
	return fmt.Sprintf("%s wins %d-%d", winner, max(b, w), min(b, w))
}
