package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/config"
	"github.com/kraitsura/bpwatch/pkg/export"
	"github.com/kraitsura/bpwatch/pkg/journal"
	"github.com/kraitsura/bpwatch/pkg/logging"
	"github.com/kraitsura/bpwatch/pkg/metrics"
	"github.com/kraitsura/bpwatch/pkg/ui"
	"github.com/kraitsura/bpwatch/pkg/watcher"
)

func runWatch(ctx context.Context, args []string, _, stderr io.Writer) error {
	fs := newFlagSet("watch", stderr)
	var cf configFlags
	cf.register(fs)
	journalPath := fs.String("journal", "", "record crossings to this sqlite database")
	metricsAddr := fs.String("metrics-addr", "", "serve /metrics and /status on this address")
	logFile := fs.String("log", "", "append logs to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := cf.load()
	if err != nil {
		return err
	}
	if *journalPath != "" {
		cfg.Journal.Path = *journalPath
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	log, logCloser, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	reg := prometheus.NewRegistry()
	observers := []breakpoints.Observer{metrics.NewRecorder(reg)}
	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path, log)
		if err != nil {
			return err
		}
		defer j.Close()
		observers = append(observers, j)
	}

	m := ui.NewModel(ui.Options{
		Thresholds: cfg.Breakpoints,
		Debounce:   cfg.Resize.Debounce,
		Gutter:     cfg.Viewport.Gutter,
		Compensate: cfg.Viewport.Compensate,
		Logger:     log,
		Observers:  observers,
	})
	tracker := m.Tracker()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Path != "" {
		path := cfg.Path
		fw, err := watcher.NewFileWatcher(path, cfg.Resize.Debounce, func(string) {
			ts, err := config.LoadThresholds(path)
			if err == nil && ts == nil {
				return
			}
			p.Send(ui.ReloadMsg{Thresholds: ts, Err: err})
		}, log)
		if err != nil {
			return err
		}
		g.Go(func() error { return fw.Run(gctx) })
	}
	if cfg.Metrics.Addr != "" {
		srv := export.NewServer(cfg.Metrics.Addr, reg, export.TrackerStatus(tracker), log)
		g.Go(func() error { return srv.Run(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run watch screen: %w", err)
		}
		return nil
	})

	log.Info("watching", "thresholds", cfg.Breakpoints.String(), "config", cfg.Path)
	return g.Wait()
}
