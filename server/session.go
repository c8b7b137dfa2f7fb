package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/game"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteWait        = 10 * time.Second
)

type session struct {
	id     int64
	cfg    Config
	logger zerolog.Logger

	mu   sync.Mutex
	game *game.Game

	send    chan []byte
	engines sync.WaitGroup
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id := s.nextID.Add(1)
	sess := &session{
		id:     id,
		cfg:    s.cfg,
		logger: s.cfg.Logger.With().Int64("session", id).Logger(),
		game:   game.New(s.cfg.Game),
		send:   make(chan []byte, 32),
	}
	s.sessions.Add(1)
	defer s.sessions.Add(-1)
	sess.logger.Info().Str("remote", r.RemoteAddr).Msg("session opened")

	ctx, cancel := context.WithCancel(r.Context())
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := writeWSWithHeartbeat(ctx, conn, sess.send); err != nil {
			sess.logger.Debug().Err(err).Msg("write loop ended")
		}
		cancel()
	}()

	sess.mu.Lock()
	sess.sendState()
	sess.mu.Unlock()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			sess.sendError(fmt.Errorf("decode message: %w", err))
			continue
		}
		sess.handle(ctx, msg)
	}

	cancel()
	sess.engines.Wait()
	<-writerDone
	sess.logger.Info().Msg("session closed")
}

func (s *session) handle(ctx context.Context, msg clientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case "state":
		s.sendState()
	case "reset":
		s.game = game.New(s.cfg.Game)
		s.sendState()
		s.maybeRunEngine(ctx)
	case "move":
		coord, err := msg.coord()
		if err != nil {
			s.sendError(err)
			return
		}
		out, err := s.game.RequestMove(ctx, coord)
		if err != nil {
			s.sendError(err)
			return
		}
		s.sendOutcome(out)
		s.maybeRunEngine(ctx)
	default:
		s.sendError(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// maybeRunEngine starts the engine's reply in the background when it is the
// engine's turn. Caller holds s.mu.
func (s *session) maybeRunEngine(ctx context.Context) {
	if s.game.State() != game.EngineToMove {
		return
	}
	g := s.game
	s.engines.Add(1)
	go func() {
		defer s.engines.Done()
		if s.cfg.EngineDelay > 0 {
			select {
			case <-time.After(s.cfg.EngineDelay):
			case <-ctx.Done():
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		// A reset while waiting replaced the game.
		if s.game != g || g.State() != game.EngineToMove {
			return
		}
		out, err := g.RunEngineTurn(ctx)
		if err != nil {
			s.sendError(err)
			return
		}
		s.sendOutcome(out)
	}()
}

func (m clientMessage) coord() (int, error) {
	if m.Coord != nil {
		return *m.Coord, nil
	}
	if m.Square != "" {
		c, err := board.Parse(m.Square)
		if err != nil {
			return board.NoCoord, fmt.Errorf("%w: %v", game.ErrInvalidCoordinate, err)
		}
		return c, nil
	}
	return board.NoCoord, fmt.Errorf("move without coord: %w", game.ErrInvalidCoordinate)
}

func (s *session) sendOutcome(out game.Outcome) {
	s.sendJSON(wsMessage{Type: "outcome", Payload: mustMarshal(out)})
	s.sendState()
	if out.GameOver {
		w, _ := s.game.Winner()
		s.logger.Info().
			Bool("draw", out.Draw).
			Str("winner", w.String()).
			Int("black", out.Black).
			Int("white", out.White).
			Msg("game over")
	}
}

func (s *session) sendState() {
	s.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(snapshot(s.game))})
}

func (s *session) sendError(err error) {
	if !errors.Is(err, game.ErrNotHumanTurn) {
		s.logger.Debug().Err(err).Msg("request rejected")
	}
	s.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorPayload{Error: err.Error()})})
}

func (s *session) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn().Str("type", msg.Type).Msg("send buffer full, dropping message")
	}
}

func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
