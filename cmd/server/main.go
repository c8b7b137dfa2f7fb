// Command server plays Othello against connected websocket clients.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/othello/envflag"
	"github.com/brensch/othello/logging"
	"github.com/brensch/othello/search"
	"github.com/brensch/othello/server"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	listen := fs.String("listen", envflag.String("listen", ":8080"), "Listen address")
	delay := fs.Duration("delay", envflag.Duration("delay", 500*time.Millisecond), "Pause before the engine replies")
	maxDepth := fs.Int("max-depth", envflag.Int("max-depth", search.DefaultMaxDepth), "Search depth limit")
	timeBudget := fs.Duration("time-budget", envflag.Duration("time-budget", search.DefaultTimeBudget), "Search time budget per move")
	human := fs.String("human", envflag.String("human", "white"), "Side played by the client: white or black")
	logLevel := fs.String("log-level", envflag.String("log-level", "info"), "Log level")
	pretty := fs.Bool("pretty", envflag.Bool("pretty", false), "Console log output instead of JSON")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Level: *logLevel, Pretty: *pretty})
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLog()

	cfg := server.DefaultConfig()
	if err := cfg.Game.Human.UnmarshalText([]byte(*human)); err != nil {
		log.Fatalf("human side: %v", err)
	}
	cfg.Game.Search = search.Config{MaxDepth: *maxDepth, TimeBudget: *timeBudget}
	cfg.Game.Logger = logger
	cfg.EngineDelay = *delay
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              *listen,
		Handler:           server.New(cfg).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().
		Str("listen", *listen).
		Str("human", cfg.Game.Human.String()).
		Str("engine", cfg.Game.Human.Opponent().String()).
		Int("max_depth", *maxDepth).
		Dur("time_budget", *timeBudget).
		Msg("othello server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
