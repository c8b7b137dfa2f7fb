package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "othello.log")
	logger, closeFn, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug().Int("depth", 3).Msg("deepening-iteratively")
	logger.Trace().Msg("hidden")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"depth":3`) || !strings.Contains(out, "deepening-iteratively") {
		t.Fatalf("log=%q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("trace line written at debug level: %q", out)
	}
}

func TestNew_Level(t *testing.T) {
	logger, _, err := New(Options{Level: "warn"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level=%v", logger.GetLevel())
	}
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("bad level accepted")
	}
}
