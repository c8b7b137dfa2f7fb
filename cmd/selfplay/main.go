package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/othello/envflag"
	"github.com/brensch/othello/logging"
	"github.com/brensch/othello/search"
	"github.com/brensch/othello/selfplay"
)

type GameUpdate struct {
	Result selfplay.GameResult
	Rows   int
}

type model struct {
	gamesPlayed int
	totalRows   int
	blackWins   int
	whiteWins   int
	draws       int
	startTime   time.Time
	recentGames []string
	updates     chan GameUpdate
}

func initialModel(updates chan GameUpdate) model {
	return model{
		startTime: time.Now(),
		updates:   updates,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func waitForUpdate(updates chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return u
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		return m, tickCmd()
	case GameUpdate:
		m.gamesPlayed++
		m.totalRows += msg.Rows
		switch msg.Result.Winner {
		case "black":
			m.blackWins++
		case "white":
			m.whiteWins++
		default:
			m.draws++
		}
		line := fmt.Sprintf("%s: %s %d-%d in %d plies", msg.Result.GameID, msg.Result.Winner, msg.Result.Black, msg.Result.White, msg.Result.Plies)
		m.recentGames = append([]string{line}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := float64(m.gamesPlayed) / duration.Seconds()
	if duration.Seconds() < 1 {
		gamesPerSec = 0
	}

	s := fmt.Sprintf("Games Played: %d\n", m.gamesPlayed)
	s += fmt.Sprintf("Rows:         %d\n", m.totalRows)
	s += fmt.Sprintf("Black/White/Draw: %d/%d/%d\n", m.blackWins, m.whiteWins, m.draws)
	s += fmt.Sprintf("Duration:     %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Games/Sec:    %.2f\n\n", gamesPerSec)

	s += "Recent Games:\n"
	for _, g := range m.recentGames {
		s += g + "\n"
	}

	s += "\nPress q to quit.\n"
	return s
}

func main() {
	outDir := flag.String("out-dir", envflag.String("out-dir", "data/selfplay"), "Output directory for parquet batches")
	workers := flag.Int("workers", envflag.Int("workers", 4), "Number of self-play workers")
	games := flag.Int("games", envflag.Int("games", 100), "Games to play; 0 runs until interrupted")
	gamesPerFlush := flag.Int("games-per-flush", envflag.Int("games-per-flush", 50), "Games per parquet file")
	perGame := flag.Bool("per-game", envflag.Bool("per-game", false), "Write each game to its own <game_id>.parquet")
	randomPlies := flag.Int("random-plies", envflag.Int("random-plies", 4), "Opening plies chosen at random")
	seed := flag.Int64("seed", envflag.Int64("seed", 0), "Base seed; 0 uses the clock")
	maxDepth := flag.Int("max-depth", envflag.Int("max-depth", 6), "Search depth limit")
	timeBudget := flag.Duration("time-budget", envflag.Duration("time-budget", 200*time.Millisecond), "Search time budget per move")
	dashboard := flag.Bool("dashboard", envflag.Bool("dashboard", false), "Show a terminal dashboard instead of log lines")
	logLevel := flag.String("log-level", envflag.String("log-level", "info"), "Log level")
	logFile := flag.String("log-file", envflag.String("log-file", ""), "Write logs here (defaults to selfplay.log with -dashboard)")
	flag.Parse()

	if *dashboard && *logFile == "" {
		*logFile = "selfplay.log"
	}
	logger, closeLog, err := logging.New(logging.Options{Level: *logLevel, Pretty: true, File: *logFile})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLog()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	cfg := selfplay.DefaultConfig()
	cfg.Games = *games
	cfg.Workers = *workers
	cfg.RandomPlies = *randomPlies
	cfg.Seed = *seed
	cfg.Search = search.Config{MaxDepth: *maxDepth, TimeBudget: *timeBudget}
	cfg.Logger = logger

	finished := make(chan selfplay.Finished, *workers)
	writeReqs := make(chan selfplay.Finished, (*workers)*4)
	updates := make(chan GameUpdate, *workers)

	rec := selfplay.NewRecorder(selfplay.RecorderConfig{
		OutDir:       *outDir,
		GamesPerFile: *gamesPerFlush,
		PerGame:      *perGame,
		Logger:       logger,
	})
	writerDone := make(chan struct{})
	go func() {
		if err := rec.Drain(writeReqs); err != nil {
			logger.Error().Err(err).Msg("final parquet flush failed")
		}
		close(writerDone)
	}()

	runErr := make(chan error, 1)
	go func() {
		runErr <- selfplay.Run(ctx, cfg, finished)
		close(finished)
	}()

	go func() {
		defer close(updates)
		defer close(writeReqs)
		for f := range finished {
			writeReqs <- f
			select {
			case updates <- GameUpdate{Result: f.Result, Rows: len(f.Rows)}:
			default:
			}
		}
	}()

	logger.Info().Int("workers", cfg.Workers).Int("games", cfg.Games).Str("out", *outDir).Msg("starting self-play")

	if *dashboard {
		p := tea.NewProgram(initialModel(updates), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			logger.Error().Err(err).Msg("dashboard")
		}
		cancel()
	} else {
		for range updates {
		}
	}

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("self-play failed")
	}
	<-writerDone
	logger.Info().Int("games", rec.Games()).Int("files", len(rec.Files())).Msg("shutdown complete")
}
