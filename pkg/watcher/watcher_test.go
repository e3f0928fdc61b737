package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesToLastCallback(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var ran atomic.Int32
	var last atomic.Int32
	done := make(chan struct{}, 1)

	for i := 1; i <= 5; i++ {
		i := i
		d.Trigger(func() {
			ran.Add(1)
			last.Store(int32(i))
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback never ran")
	}
	time.Sleep(50 * time.Millisecond)

	if got := ran.Load(); got != 1 {
		t.Errorf("Expected 1 run, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("Expected last trigger to win, got %d", got)
	}
}

func TestDebouncer_FlushAndCancel(t *testing.T) {
	d := NewDebouncer(time.Hour)
	ran := false
	d.Trigger(func() { ran = true })

	if !d.Pending() {
		t.Fatal("Expected pending callback")
	}
	if !d.Flush() {
		t.Fatal("Expected Flush to run the pending callback")
	}
	if !ran {
		t.Error("Flush did not run callback")
	}
	if d.Flush() {
		t.Error("Second Flush should be a no-op")
	}

	d.Trigger(func() { t.Error("cancelled callback ran") })
	d.Cancel()
	if d.Pending() {
		t.Error("Cancel left a pending callback")
	}
}

func TestDebouncer_NegativeDurationRunsInline(t *testing.T) {
	d := NewDebouncer(-1)
	ran := false
	d.Trigger(func() { ran = true })
	if !ran {
		t.Error("Expected immediate run for negative duration")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	if got := NewDebouncer(0).Duration(); got != DefaultDebounceDuration {
		t.Errorf("Duration() = %v, want %v", got, DefaultDebounceDuration)
	}
}

func TestFileWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("breakpoints: {xs: 0}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	w, err := NewFileWatcher(path, 20*time.Millisecond, func(p string) { changed <- p }, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	// An unrelated file in the same directory must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("breakpoints: {xs: 0, sm: 80}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != w.Path() {
			t.Errorf("OnChange path = %s, want %s", got, w.Path())
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
