// Package report summarises recorded self-play games with DuckDB.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Open returns an in-memory DuckDB with a "moves" view over every parquet
// file below roots. Files sitting directly in a tmp/ directory are in-flight
// batches and are excluded.
func Open(roots []string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	_, _ = db.Exec("PRAGMA threads=4")

	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		glob := filepath.Join(root, "**", "*.parquet")
		globs = append(globs, "'"+escapeSQLString(glob)+"'")
	}
	if len(globs) == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("no parquet roots given")
	}

	sqlText := `CREATE OR REPLACE VIEW moves AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT regexp_matches(filename, '[/\\]tmp[/\\][^/\\]*$')`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create moves view: %w", err)
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

type GameSummary struct {
	GameID     string
	Source     string
	Plies      int
	Passes     int
	Winner     string
	FinalBlack int
	FinalWhite int
	MaxDepth   int
	AvgNodes   float64
	File       string
}

type Totals struct {
	Games       int
	BlackWins   int
	WhiteWins   int
	Draws       int
	AvgPlies    float64
	AvgDepth    float64
	AvgElapseMs float64
}

// Games lists one row per game, newest file first, at most limit rows.
func Games(ctx context.Context, db *sql.DB, limit int) ([]GameSummary, error) {
	query := `SELECT
			game_id,
			MIN(source)::VARCHAR,
			COUNT(*)::INTEGER,
			SUM(CASE WHEN coord < 0 THEN 1 ELSE 0 END)::INTEGER,
			MIN(winner)::VARCHAR,
			MIN(final_black)::INTEGER,
			MIN(final_white)::INTEGER,
			MAX(depth)::INTEGER,
			COALESCE(AVG(nodes) FILTER (WHERE depth > 0), 0)::DOUBLE,
			MIN(filename)::VARCHAR
		FROM moves
		GROUP BY game_id
		ORDER BY MIN(filename) DESC, game_id
		LIMIT ` + strconv.Itoa(max(limit, 0))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.GameID, &g.Source, &g.Plies, &g.Passes, &g.Winner,
			&g.FinalBlack, &g.FinalWhite, &g.MaxDepth, &g.AvgNodes, &g.File); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Summarise aggregates win counts and search effort across all games.
func Summarise(ctx context.Context, db *sql.DB) (Totals, error) {
	query := `WITH games AS (
			SELECT game_id, MIN(winner) AS winner, COUNT(*) AS plies
			FROM moves
			GROUP BY game_id
		),
		searched AS (
			SELECT AVG(depth)::DOUBLE AS avg_depth, AVG(elapsed_us)::DOUBLE / 1000.0 AS avg_ms
			FROM moves
			WHERE depth > 0
		)
		SELECT
			COUNT(*)::INTEGER,
			COALESCE(SUM(CASE WHEN winner = 'black' THEN 1 ELSE 0 END), 0)::INTEGER,
			COALESCE(SUM(CASE WHEN winner = 'white' THEN 1 ELSE 0 END), 0)::INTEGER,
			COALESCE(SUM(CASE WHEN winner = 'draw' THEN 1 ELSE 0 END), 0)::INTEGER,
			COALESCE(AVG(plies), 0)::DOUBLE,
			COALESCE((SELECT avg_depth FROM searched), 0)::DOUBLE,
			COALESCE((SELECT avg_ms FROM searched), 0)::DOUBLE
		FROM games`

	var t Totals
	err := db.QueryRowContext(ctx, query).Scan(&t.Games, &t.BlackWins, &t.WhiteWins, &t.Draws,
		&t.AvgPlies, &t.AvgDepth, &t.AvgElapseMs)
	if err != nil {
		return Totals{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}
