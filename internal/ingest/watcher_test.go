package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForPath(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				t.Fatal("event channel closed early")
			}
			if p == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestStartWatcherEmitsNewFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Root: dir, Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	path := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, evCh, path)
}

func TestStartWatcherIgnoresDisallowedExt(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Root: dir})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	allowed := filepath.Join(dir, "after.pdf")
	if err := os.WriteFile(allowed, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Only the allowed file surfaces.
	waitForPath(t, evCh, allowed)
}

func TestStartWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "already.jpg")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Root: dir, InitialScan: true})
	if err != nil {
		t.Fatal(err)
	}
	waitForPath(t, evCh, existing)
}

func TestStartWatcherRequiresRoot(t *testing.T) {
	if _, _, err := StartWatcher(context.Background(), WatchConfig{}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestStartWatcherClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	evCh, _, err := StartWatcher(ctx, WatchConfig{Root: dir})
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.After(10 * time.Second)
	for {
		select {
		case _, ok := <-evCh:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel did not close after cancel")
		}
	}
}
