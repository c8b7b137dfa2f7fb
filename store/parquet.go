package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

const schemaName = "othello_move_row_v1"

// MoveRow is one ply of a recorded game.
//
// Black and White are the bitboards before the move. Coord is -1 for a pass.
// Winner and the final counts are repeated on every row of the game so a
// single file can be summarised without a join.
type MoveRow struct {
	GameID  string `parquet:"game_id,dict"`
	Ply     int32  `parquet:"ply"`
	Side    string `parquet:"side,dict"`
	Coord   int32  `parquet:"coord"`
	Move    string `parquet:"move,dict"`
	Black   uint64 `parquet:"black"`
	White   uint64 `parquet:"white"`
	Empties int32  `parquet:"empties"`

	// Random marks opening moves picked at random instead of searched.
	Random    bool  `parquet:"random"`
	Score     int64 `parquet:"score"`
	Depth     int32 `parquet:"depth"`
	Nodes     int64 `parquet:"nodes"`
	PrunesMax int64 `parquet:"prunes_max"`
	PrunesMin int64 `parquet:"prunes_min"`
	ElapsedUs int64 `parquet:"elapsed_us"`

	Winner     string `parquet:"winner,dict"`
	FinalBlack int32  `parquet:"final_black"`
	FinalWhite int32  `parquet:"final_white"`
	// Result is the final score for Side: 1 win, 0.5 draw, 0 loss.
	Result float32 `parquet:"result"`
	Source string  `parquet:"source,dict"`
}

// Metadata keys written next to the schema name.
const (
	metaGameIDs   = "game_ids"
	metaBlackWins = "black_wins"
	metaWhiteWins = "white_wins"
	metaDraws     = "draws"
)

var (
	ErrEmptyGame = errors.New("game has no rows")
	ErrMixedGame = errors.New("rows span more than one game")
)

// checkGame verifies rows are the plies of exactly one game, in order, and
// returns its ID.
func checkGame(rows []MoveRow) (string, error) {
	if len(rows) == 0 {
		return "", ErrEmptyGame
	}
	id := rows[0].GameID
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("game id %q: not usable as a file name", id)
	}
	for i, r := range rows {
		if r.GameID != id {
			return "", fmt.Errorf("row %d game %q in game %q: %w", i, r.GameID, id, ErrMixedGame)
		}
		if int(r.Ply) != i {
			return "", fmt.Errorf("game %s: row %d has ply %d", id, i, r.Ply)
		}
	}
	return id, nil
}

// WriteGameParquet writes one finished game to outDir/<game_id>.parquet. The
// file is built under outDir/tmp and renamed into place, so readers globbing
// outDir never see a partial game.
func WriteGameParquet(outDir string, rows []MoveRow) (string, error) {
	id, err := checkGame(rows)
	if err != nil {
		return "", err
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := id + ".parquet"
	outPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name)

	var t tally
	t.add(id, rows[0].Winner)
	opts := append([]parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	}, t.options()...)

	if err := parquet.WriteFile(tmpPath, rows, opts...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return outPath, nil
}

// tally is the per-file game bookkeeping stored as key-value metadata.
type tally struct {
	gameIDs   []string
	blackWins int
	whiteWins int
	draws     int
}

func (t *tally) add(gameID, winner string) {
	t.gameIDs = append(t.gameIDs, gameID)
	switch winner {
	case "black":
		t.blackWins++
	case "white":
		t.whiteWins++
	default:
		t.draws++
	}
}

func (t *tally) metadata() map[string]string {
	return map[string]string{
		metaGameIDs:   strings.Join(t.gameIDs, ","),
		metaBlackWins: strconv.Itoa(t.blackWins),
		metaWhiteWins: strconv.Itoa(t.whiteWins),
		metaDraws:     strconv.Itoa(t.draws),
	}
}

func (t *tally) options() []parquet.WriterOption {
	var opts []parquet.WriterOption
	for k, v := range t.metadata() {
		opts = append(opts, parquet.KeyValueMetadata(k, v))
	}
	return opts
}

// FileInfo is the game bookkeeping read back from a file's metadata.
type FileInfo struct {
	Rows      int64
	GameIDs   []string
	BlackWins int
	WhiteWins int
	Draws     int
}

func openParquet(path string) (*os.File, *parquet.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open parquet: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat parquet: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("open parquet: %w", err)
	}
	if v, ok := pf.Lookup("schema"); ok && v != schemaName {
		f.Close()
		return nil, nil, fmt.Errorf("read parquet %s: unexpected schema %q", path, v)
	}
	return f, pf, nil
}

// ReadFileInfo returns the games recorded in a file without reading rows.
func ReadFileInfo(path string) (FileInfo, error) {
	f, pf, err := openParquet(path)
	if err != nil {
		return FileInfo{}, err
	}
	defer f.Close()

	info := FileInfo{Rows: pf.NumRows()}
	if ids, ok := pf.Lookup(metaGameIDs); ok && ids != "" {
		info.GameIDs = strings.Split(ids, ",")
	}
	for key, dst := range map[string]*int{
		metaBlackWins: &info.BlackWins,
		metaWhiteWins: &info.WhiteWins,
		metaDraws:     &info.Draws,
	} {
		v, ok := pf.Lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return FileInfo{}, fmt.Errorf("read parquet %s: metadata %s=%q: %w", path, key, v, err)
		}
		*dst = n
	}
	return info, nil
}

// ReadParquet loads every row of a file written by this package.
func ReadParquet(path string) ([]MoveRow, error) {
	f, pf, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[MoveRow](pf)
	defer reader.Close()

	rows := make([]MoveRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows[:n], nil
}
