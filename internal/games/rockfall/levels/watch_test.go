package levels_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/rockfall/internal/games/rockfall/levels"
)

func TestWatcherReportsLevelFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := levels.NewWatcher(nil, dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "ignored.txt", "x")
	path := writeFile(t, dir, "tiny.yaml", tinyLevel)

	timeout := time.After(3 * time.Second)
	for {
		select {
		case got := <-w.Events:
			if filepath.Ext(got) != ".yaml" {
				t.Fatalf("unexpected event for %s", got)
			}
			if got == path {
				return
			}
		case err := <-w.Errors:
			t.Fatalf("watcher error: %v", err)
		case <-timeout:
			t.Fatal("no event for level file")
		}
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := levels.NewWatcher(nil, t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events still open after Close")
	}
}
