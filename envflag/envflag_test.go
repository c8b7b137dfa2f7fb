package envflag

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if got := Key("max-depth"); got != "OTHELLO_MAX_DEPTH" {
		t.Fatalf("key=%s", got)
	}
}

func TestDefaultsAndOverrides(t *testing.T) {
	if got := String("listen", ":8080"); got != ":8080" {
		t.Fatalf("unset string=%q", got)
	}

	t.Setenv("OTHELLO_LISTEN", ":9000")
	t.Setenv("OTHELLO_MAX_DEPTH", "7")
	t.Setenv("OTHELLO_SEED", "123456789012")
	t.Setenv("OTHELLO_TIME_BUDGET", "250ms")
	t.Setenv("OTHELLO_DASHBOARD", "yes")
	t.Setenv("OTHELLO_WORKERS", "many")
	t.Setenv("OTHELLO_DELAY", "soon")

	if got := String("listen", ":8080"); got != ":9000" {
		t.Fatalf("string=%q", got)
	}
	if got := Int("max-depth", 10); got != 7 {
		t.Fatalf("int=%d", got)
	}
	if got := Int64("seed", 0); got != 123456789012 {
		t.Fatalf("int64=%d", got)
	}
	if got := Duration("time-budget", time.Second); got != 250*time.Millisecond {
		t.Fatalf("duration=%v", got)
	}
	if got := Bool("dashboard", false); !got {
		t.Fatalf("bool=%v", got)
	}

	// Unparseable values fall back to the default.
	if got := Int("workers", 4); got != 4 {
		t.Fatalf("bad int=%d", got)
	}
	if got := Duration("delay", time.Second); got != time.Second {
		t.Fatalf("bad duration=%v", got)
	}
}
