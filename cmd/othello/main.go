// Command othello plays one human against the engine in the terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/othello/envflag"
	"github.com/brensch/othello/game"
	"github.com/brensch/othello/logging"
	"github.com/brensch/othello/search"
)

func main() {
	human := flag.String("human", envflag.String("human", "white"), "Your side: white (moves first) or black")
	maxDepth := flag.Int("max-depth", envflag.Int("max-depth", search.DefaultMaxDepth), "Search depth limit")
	timeBudget := flag.Duration("time-budget", envflag.Duration("time-budget", search.DefaultTimeBudget), "Search time budget per move")
	delay := flag.Duration("delay", envflag.Duration("delay", 500*time.Millisecond), "Pause before the engine replies")
	logLevel := flag.String("log-level", envflag.String("log-level", "debug"), "Log level")
	logFile := flag.String("log-file", envflag.String("log-file", "othello.log"), "Log file; the terminal is taken by the board")
	flag.Parse()

	logger, closeLog, err := logging.New(logging.Options{Level: *logLevel, Pretty: true, File: *logFile})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLog()

	cfg := game.DefaultConfig()
	if err := cfg.Human.UnmarshalText([]byte(*human)); err != nil {
		log.Fatalf("human side: %v", err)
	}
	cfg.Search = search.Config{MaxDepth: *maxDepth, TimeBudget: *timeBudget}
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(newModel(ctx, cfg, *delay), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("ui")
	}
}
