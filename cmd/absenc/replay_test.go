package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yunginnanet/ftdi-absenc/pkg/config"
)

func TestReadReplay(t *testing.T) {
	t.Run("Columns", func(t *testing.T) {
		cols, err := readReplay(strings.NewReader("# enc1 enc2\n1020 500\n\n1019 510\n5 520\n"), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cols) != 2 || len(cols[0]) != 3 || cols[0][2] != 5 || cols[1][1] != 510 {
			t.Errorf("unexpected columns: %v", cols)
		}
	})

	t.Run("WrongWidth", func(t *testing.T) {
		if _, err := readReplay(strings.NewReader("1 2 3\n"), 2); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("NotANumber", func(t *testing.T) {
		if _, err := readReplay(strings.NewReader("1 x\n"), 2); err == nil {
			t.Error("expected error")
		}
	})
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.txt")
	if err := os.WriteFile(path, []byte("1020\n1019\n5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	if err := replay(cfg, options{replayPath: path, every: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cols, err := readReplay(strings.NewReader("1020\n1019\n5\n"), 1)
	if err != nil {
		t.Fatal(err)
	}
	poller := newPoller(cfg, replaySources(cols), 0)
	for range cols[0] {
		poller.Tick()
	}
	if r := poller.Snapshot()[0]; r.Turns != 1 {
		t.Errorf("expected 1 turn, got %s", r)
	}
}
