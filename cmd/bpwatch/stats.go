package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kraitsura/bpwatch/pkg/journal"
	"github.com/kraitsura/bpwatch/pkg/logging"
)

func runStats(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("stats", stderr)
	var cf configFlags
	cf.register(fs)
	path := fs.String("journal", "", "journal database (default journal.path from config)")
	recent := fs.Int("recent", 0, "also list this many recent crossings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}
	if *path == "" {
		*path = cfg.Journal.Path
	}
	if *path == "" {
		return errors.New("no journal: pass -journal or set journal.path")
	}

	j, err := journal.Open(*path, logging.Discard())
	if err != nil {
		return err
	}
	defer j.Close()

	stats, err := j.Dwell()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintln(stdout, "no dwell data yet")
	} else {
		fmt.Fprintln(stdout, dwellTable(stats))
	}

	if *recent > 0 {
		entries, err := j.Recent(*recent)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(stdout, "%s %s %s %d -> %d (now %s)\n",
				e.CreatedAt.Format(time.DateTime), e.Breakpoint, e.Direction, e.FromWidth, e.ToWidth, e.Active)
		}
	}
	return nil
}

func dwellTable(stats []journal.DwellStat) string {
	round := func(d time.Duration) string { return d.Round(time.Millisecond).String() }
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("breakpoint", "periods", "total", "mean", "stddev", "max")
	for _, s := range stats {
		t.Row(s.Breakpoint, strconv.Itoa(s.Count), round(s.Total), round(s.Mean), round(s.StdDev), round(s.Max))
	}
	return t.String()
}
