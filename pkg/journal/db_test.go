package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "data", "journal.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// clock returns a fake clock advanced by step on every call.
func clock(start time.Time, steps ...time.Duration) func() time.Time {
	now := start
	i := 0
	return func() time.Time {
		t := now
		if i < len(steps) {
			now = now.Add(steps[i])
			i++
		}
		return t
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := j.Record(&Entry{Breakpoint: "md", Direction: "up", FromWidth: 90, ToWidth: 120, Active: "md"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	first := j.Session()
	j.Close()

	j2, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()
	if j2.Session() == first {
		t.Error("Expected a fresh session id on reopen")
	}
	entries, err := j2.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Session != first || entries[0].ToWidth != 120 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestObserver_RecordsTrackerCrossings(t *testing.T) {
	j := openTest(t)
	width := 500
	tr := breakpoints.New(nil, viewport.Func(func() int { return width }), breakpoints.Options{
		Observers: []breakpoints.Observer{j},
	}).Init(breakpoints.Default)
	width = 1300
	tr.Refresh()

	entries, err := j.SessionEntries(j.Session())
	if err != nil {
		t.Fatalf("SessionEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 crossings, got %d", len(entries))
	}
	for i, want := range []string{"sm", "md", "lg"} {
		e := entries[i]
		if e.Breakpoint != want || e.Direction != "up" || e.Active != "lg" {
			t.Errorf("entry %d = %+v", i, e)
		}
		if e.FromWidth != 500 || e.ToWidth != 1300 {
			t.Errorf("entry %d widths = %d->%d", i, e.FromWidth, e.ToWidth)
		}
	}
}

func TestDwell(t *testing.T) {
	j := openTest(t)
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	// Timestamps: t0, t0+10s, t0+10s, t0+40s, t0+50s
	j.now = clock(start, 10*time.Second, 0, 30*time.Second, 10*time.Second)

	record := func(bp, dir, active string) {
		t.Helper()
		if err := j.Record(&Entry{Breakpoint: bp, Direction: dir, Active: active}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	record("sm", "up", "sm")   // t0: sm active
	record("md", "up", "md")   // +10s: sm dwelled 10s
	record("lg", "up", "lg")   // same notification, no dwell for md
	record("lg", "down", "md") // +30s: lg dwelled 30s
	record("md", "down", "sm") // +10s: md dwelled 10s

	stats, err := j.Dwell()
	if err != nil {
		t.Fatalf("Dwell: %v", err)
	}
	byName := map[string]DwellStat{}
	for _, s := range stats {
		byName[s.Breakpoint] = s
	}

	if got := byName["lg"]; got.Count != 1 || got.Total != 30*time.Second {
		t.Errorf("lg = %+v", got)
	}
	if got := byName["sm"]; got.Count != 1 || got.Mean != 10*time.Second {
		t.Errorf("sm = %+v", got)
	}
	if got := byName["md"]; got.Count != 1 || got.Max != 10*time.Second {
		t.Errorf("md = %+v", got)
	}
	if stats[0].Breakpoint != "lg" {
		t.Errorf("Expected lg first by total, got %s", stats[0].Breakpoint)
	}
}

func TestSummarise(t *testing.T) {
	s := summarise("md", []float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Count != 8 || s.Total != 40*time.Second || s.Mean != 5*time.Second || s.Max != 9*time.Second {
		t.Errorf("summary = %+v", s)
	}
	if s.StdDev <= 0 {
		t.Errorf("Expected positive stddev, got %v", s.StdDev)
	}
	if one := summarise("xs", []float64{3}); one.StdDev != 0 {
		t.Errorf("single sample stddev = %v", one.StdDev)
	}
}
