package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/journal"
	"github.com/kraitsura/bpwatch/pkg/logging"
	"github.com/kraitsura/bpwatch/pkg/trace"
)

// runReplay feeds a recorded width trace through the tracker.
func runReplay(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("replay", stderr)
	var cf configFlags
	cf.register(fs)
	journalPath := fs.String("journal", "", "also record the replayed crossings here")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("replay needs one trace file")
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}

	samples, err := trace.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	log := logging.New(stderr, cfg.Log.Level, cfg.Log.Debug)
	var observers []breakpoints.Observer
	if *journalPath != "" {
		j, err := journal.Open(*journalPath, log)
		if err != nil {
			return err
		}
		defer j.Close()
		observers = append(observers, j)
	}

	events, err := trace.Replay(cfg.Breakpoints, samples, log, observers...)
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Fprintf(stdout, "#%d %s\n", e.Sample, crossingLine(e.Crossing, e.Active))
	}
	fmt.Fprintf(stdout, "%d samples, %d crossings\n", len(samples), len(events))
	return nil
}
