package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/logging"
	"github.com/kraitsura/bpwatch/pkg/resize"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

// runFollow prints one line per crossing without taking over the screen.
func runFollow(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("follow", stderr)
	var cf configFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}

	log := logging.New(stderr, cfg.Log.Level, cfg.Log.Debug)
	fd := int(os.Stdout.Fd())
	notifier := resize.NewNotifier(cfg.Resize.Debounce, log)
	tracker := breakpoints.New(notifier, viewport.Terminal{Fd: fd}, breakpoints.Options{Logger: log})

	report := func(c breakpoints.Crossing) {
		fmt.Fprintln(stdout, crossingLine(c, tracker.Current()))
	}
	for _, name := range cfg.Breakpoints.Names() {
		tracker.Up(name, report).Down(name, report)
	}
	tracker.Init(cfg.Breakpoints)
	defer tracker.Destroy()

	fmt.Fprintf(stdout, "%s at %d columns\n", tracker.Current(), tracker.Width())
	return notifier.Watch(ctx, resize.TerminalQuery(fd))
}
