package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		if !ok {
			t.Fatal("watcher channel closed")
		}
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
	return ""
}

func TestWatcherEmitsReports(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "week-01.pdf")
	touch(t, existing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    150 * time.Millisecond,
		Logger:      quietLogger(),
	})
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	if got := next(t, events); got != existing {
		t.Errorf("initial scan emitted %q, want %q", got, existing)
	}

	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".tmp.pdf"))
	created := filepath.Join(root, "week-02.pdf")
	touch(t, created)
	if err := os.WriteFile(created, []byte("%PDF-1.4\n%%EOF"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := next(t, events); got != created {
		t.Errorf("watcher emitted %q, want %q", got, created)
	}
	select {
	case p := <-events:
		t.Errorf("unexpected second event %q", p)
	case <-time.After(400 * time.Millisecond):
	}

	cancel()
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(5 * time.Second):
		t.Fatal("events channel not closed after cancel")
	}
}

func TestWatcherRequiresRoots(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{Logger: quietLogger()}); err == nil {
		t.Fatal("expected error without roots")
	}
}
