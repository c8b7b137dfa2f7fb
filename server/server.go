// Package server exposes games over a websocket, one game per connection.
//
// Client messages:
//
//	{"type":"move","coord":19}   or   {"type":"move","square":"d3"}
//	{"type":"reset"}
//	{"type":"state"}
//
// Server messages are {"type":"state"|"outcome"|"error","payload":{...}}. An
// outcome is always followed by the resulting state.
package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/game"
)

type Config struct {
	// Game is the template used for every new session.
	Game game.Config
	// EngineDelay is waited between an accepted human move and the engine's
	// reply so clients can show the human move first.
	EngineDelay time.Duration
	Logger      zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Game:        game.DefaultConfig(),
		EngineDelay: 500 * time.Millisecond,
		Logger:      zerolog.Nop(),
	}
}

type Server struct {
	cfg      Config
	sessions atomic.Int64
	nextID   atomic.Int64
}

func New(cfg Config) *Server {
	return &Server{cfg: cfg}
}

// Handler returns the HTTP routes: /healthz and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Sessions is the number of open websocket sessions.
func (s *Server) Sessions() int64 { return s.sessions.Load() }

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int64  `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Sessions: s.Sessions()})
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type clientMessage struct {
	Type   string `json:"type"`
	Coord  *int   `json:"coord,omitempty"`
	Square string `json:"square,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type statePayload struct {
	Black      uint64     `json:"black,string"`
	White      uint64     `json:"white,string"`
	BlackCount int        `json:"black_count"`
	WhiteCount int        `json:"white_count"`
	Turn       board.Side `json:"turn"`
	Human      board.Side `json:"human"`
	State      game.State `json:"state"`
	LastPlaced int        `json:"last_placed"`
	Legal      []int      `json:"legal"`
	Rows       []string   `json:"rows"`
}

func snapshot(g *game.Game) statePayload {
	pos := g.Position()
	rows := make([]string, board.Width)
	for r := 0; r < board.Width; r++ {
		row := make([]byte, board.Width)
		for c := 0; c < board.Width; c++ {
			switch side, ok := pos.At(board.Coord(r, c)); {
			case !ok:
				row[c] = '.'
			case side == board.Black:
				row[c] = 'B'
			default:
				row[c] = 'W'
			}
		}
		rows[r] = string(row)
	}
	legal := g.LegalMoves()
	if legal == nil {
		legal = []int{}
	}
	return statePayload{
		Black:      pos.Black,
		White:      pos.White,
		BlackCount: pos.Count(board.Black),
		WhiteCount: pos.Count(board.White),
		Turn:       g.Turn(),
		Human:      g.Human(),
		State:      g.State(),
		LastPlaced: g.LastPlaced(),
		Legal:      legal,
		Rows:       rows,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
