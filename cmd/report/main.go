// Command report prints win rates and search effort for recorded games.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brensch/othello/envflag"
	"github.com/brensch/othello/report"
)

func main() {
	roots := flag.String("roots", envflag.String("roots", "data/selfplay"), "Comma-separated directories of parquet batches")
	limit := flag.Int("limit", envflag.Int("limit", 20), "Games to list")
	timeout := flag.Duration("timeout", envflag.Duration("timeout", time.Minute), "Query timeout")
	flag.Parse()

	db, err := report.Open(strings.Split(*roots, ","))
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	totals, err := report.Summarise(ctx, db)
	if err != nil {
		log.Fatalf("summarise: %v", err)
	}
	fmt.Printf("games %d  black %d  white %d  draws %d\n", totals.Games, totals.BlackWins, totals.WhiteWins, totals.Draws)
	fmt.Printf("avg plies %.1f  avg depth %.2f  avg search %.1fms\n\n", totals.AvgPlies, totals.AvgDepth, totals.AvgElapseMs)

	games, err := report.Games(ctx, db, *limit)
	if err != nil {
		log.Fatalf("games: %v", err)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tSOURCE\tPLIES\tPASSES\tWINNER\tBLACK\tWHITE\tMAX DEPTH\tAVG NODES")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\t%.0f\n",
			g.GameID, g.Source, g.Plies, g.Passes, g.Winner, g.FinalBlack, g.FinalWhite, g.MaxDepth, g.AvgNodes)
	}
	_ = tw.Flush()
}
