package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/othello/board"
	"github.com/brensch/othello/game"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Width(2)
	blackStyle  = cellStyle.Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#2e7d32"))
	whiteStyle  = cellStyle.Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2e7d32"))
	emptyStyle  = cellStyle.Foreground(lipgloss.Color("#1b5e20")).Background(lipgloss.Color("#2e7d32"))
	legalStyle  = cellStyle.Foreground(lipgloss.Color("#fdd835")).Background(lipgloss.Color("#2e7d32"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("#0277bd"))
	lastStyle   = lipgloss.NewStyle().Underline(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	msgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#90caf9"))
)

// snapshot is what the view draws. It is captured by whichever command
// currently owns the game so View never touches the game itself.
type snapshot struct {
	pos   board.Position
	turn  board.Side
	state game.State
	last  int
	legal uint64
}

func snap(g *game.Game) snapshot {
	var legal uint64
	if g.State() == game.AwaitingHumanMove {
		for _, c := range g.LegalMoves() {
			legal |= board.Bit(c)
		}
	}
	return snapshot{
		pos:   g.Position(),
		turn:  g.Turn(),
		state: g.State(),
		last:  g.LastPlaced(),
		legal: legal,
	}
}

type moveDoneMsg struct {
	out    game.Outcome
	err    error
	snap   snapshot
	engine bool
	coord  int
}

type engineDueMsg struct{}

type model struct {
	ctx   context.Context
	cfg   game.Config
	delay time.Duration

	g        *game.Game
	view     snapshot
	cursor   int
	busy     bool
	messages []string
}

func newModel(ctx context.Context, cfg game.Config, delay time.Duration) model {
	g := game.New(cfg)
	return model{
		ctx:    ctx,
		cfg:    cfg,
		delay:  delay,
		g:      g,
		view:   snap(g),
		cursor: board.Coord(2, 3),
	}
}

func (m model) Init() tea.Cmd {
	return m.scheduleEngine()
}

// scheduleEngine returns a delayed engine turn when it is the engine's move.
func (m *model) scheduleEngine() tea.Cmd {
	if m.view.state != game.EngineToMove {
		return nil
	}
	m.busy = true
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return engineDueMsg{} })
}

func humanMoveCmd(ctx context.Context, g *game.Game, coord int) tea.Cmd {
	return func() tea.Msg {
		out, err := g.RequestMove(ctx, coord)
		return moveDoneMsg{out: out, err: err, snap: snap(g), coord: coord}
	}
}

func engineMoveCmd(ctx context.Context, g *game.Game) tea.Cmd {
	return func() tea.Msg {
		out, err := g.RunEngineTurn(ctx)
		return moveDoneMsg{out: out, err: err, snap: snap(g), engine: true, coord: board.NoCoord}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case engineDueMsg:
		return m, engineMoveCmd(m.ctx, m.g)
	case moveDoneMsg:
		m.busy = false
		m.view = msg.snap
		if msg.err != nil {
			m.addMessage(msg.err.Error())
		}
		if !msg.engine && msg.err == nil && !msg.out.Accepted && len(msg.out.Messages) == 0 {
			m.addMessage("illegal move at " + board.Name(msg.coord))
		}
		m.addMessage(msg.out.Messages...)
		return m, m.scheduleEngine()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor = moveCursor(m.cursor, -1, 0)
	case "down", "j":
		m.cursor = moveCursor(m.cursor, 1, 0)
	case "left", "h":
		m.cursor = moveCursor(m.cursor, 0, -1)
	case "right", "l":
		m.cursor = moveCursor(m.cursor, 0, 1)
	case "n":
		if m.busy {
			return m, nil
		}
		m.g = game.New(m.cfg)
		m.view = snap(m.g)
		m.messages = nil
		return m, m.scheduleEngine()
	case "enter", " ":
		if m.busy || m.view.state != game.AwaitingHumanMove {
			return m, nil
		}
		m.busy = true
		return m, humanMoveCmd(m.ctx, m.g, m.cursor)
	}
	return m, nil
}

func moveCursor(c, dRow, dCol int) int {
	row := (c/board.Width + dRow + board.Width) % board.Width
	col := (c%board.Width + dCol + board.Width) % board.Width
	return board.Coord(row, col)
}

func (m *model) addMessage(lines ...string) {
	m.messages = append(m.messages, lines...)
	if len(m.messages) > 6 {
		m.messages = m.messages[len(m.messages)-6:]
	}
}

func (m model) View() string {
	var b strings.Builder
	human := m.cfg.Human
	b.WriteString(titleStyle.Render(fmt.Sprintf("Othello  you: %s  engine: %s", human, human.Opponent())))
	b.WriteString("\n\n   a b c d e f g h\n")
	for row := 0; row < board.Width; row++ {
		fmt.Fprintf(&b, " %d ", row+1)
		for col := 0; col < board.Width; col++ {
			b.WriteString(m.renderCell(board.Coord(row, col)))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nblack %d  white %d  ", m.view.pos.Count(board.Black), m.view.pos.Count(board.White))
	switch {
	case m.view.state == game.GameOver:
		b.WriteString("game over")
	case m.busy && m.view.state == game.EngineToMove:
		b.WriteString("engine thinking...")
	default:
		fmt.Fprintf(&b, "%s to move", m.view.turn)
	}
	b.WriteString("\n\n")

	for _, line := range m.messages {
		b.WriteString(msgStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("\narrows/hjkl move  enter play  n new game  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderCell(c int) string {
	style := emptyStyle
	glyph := "."
	if side, ok := m.view.pos.At(c); ok {
		glyph = "●"
		style = whiteStyle
		if side == board.Black {
			style = blackStyle
		}
	} else if m.view.legal&board.Bit(c) != 0 {
		glyph = "·"
		style = legalStyle
	}
	if c == m.view.last {
		style = style.Inherit(lastStyle)
	}
	if c == m.cursor {
		style = style.Background(cursorStyle.GetBackground())
	}
	return style.Render(glyph)
}
