package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Batch describes a published batch file.
type Batch struct {
	Path  string
	Rows  int
	Games int
	// GameIDs are in write order and are also stored in the file metadata.
	GameIDs []string
}

// BatchWriter streams whole games into one parquet file under outDir/tmp and
// publishes it to outDir on Finalize. Each file's metadata lists its game IDs
// and win tally, see ReadFileInfo.
type BatchWriter struct {
	outDir  string
	name    string
	tmpPath string

	file   *os.File
	writer *parquet.GenericWriter[MoveRow]

	rows  int
	tally tally
}

func NewBatchWriter(outDir string) (*BatchWriter, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("batch_%d.parquet", time.Now().UnixNano())
	tmpPath := filepath.Join(tmpDir, name)
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	w := parquet.NewGenericWriter[MoveRow](f,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	)
	return &BatchWriter{
		outDir:  outDir,
		name:    name,
		tmpPath: tmpPath,
		file:    f,
		writer:  w,
	}, nil
}

func (b *BatchWriter) TmpPath() string { return b.tmpPath }
func (b *BatchWriter) Games() int      { return len(b.tally.gameIDs) }
func (b *BatchWriter) Rows() int       { return b.rows }

// WriteGame appends every ply of one finished game. Rows from several games,
// or plies out of order, are rejected before anything is written.
func (b *BatchWriter) WriteGame(rows []MoveRow) error {
	if b.writer == nil {
		return fmt.Errorf("batch writer is closed")
	}
	id, err := checkGame(rows)
	if err != nil {
		return err
	}
	if _, err := b.writer.Write(rows); err != nil {
		return fmt.Errorf("write game %s: %w", id, err)
	}
	b.rows += len(rows)
	b.tally.add(id, rows[0].Winner)
	return nil
}

// Finalize writes the game metadata, closes the file and moves it into
// outDir. With no games written the tmp file is removed and Batch.Path is
// empty.
func (b *BatchWriter) Finalize() (Batch, error) {
	if b.writer == nil {
		return Batch{}, nil
	}
	for k, v := range b.tally.metadata() {
		b.writer.SetKeyValueMetadata(k, v)
	}
	closeErr := b.writer.Close()
	b.writer = nil
	_ = b.file.Sync()
	fileErr := b.file.Close()
	b.file = nil
	if closeErr != nil {
		return Batch{}, fmt.Errorf("close parquet writer: %w", closeErr)
	}
	if fileErr != nil {
		return Batch{}, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if b.rows == 0 {
		_ = os.Remove(b.tmpPath)
		return Batch{}, nil
	}
	outPath := filepath.Join(b.outDir, b.name)
	if err := os.Rename(b.tmpPath, outPath); err != nil {
		return Batch{}, fmt.Errorf("rename parquet: %w", err)
	}
	return Batch{Path: outPath, Rows: b.rows, Games: b.Games(), GameIDs: b.tally.gameIDs}, nil
}
