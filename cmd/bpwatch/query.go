package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/logging"
	"github.com/kraitsura/bpwatch/pkg/ui"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

func runQuery(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("query", stderr)
	var cf configFlags
	cf.register(fs)
	width := fs.Int("width", 0, "evaluate at this width instead of the terminal's")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}

	var vp viewport.Viewport = viewport.Stdout()
	if *width > 0 {
		vp = viewport.Static(*width)
	}
	tracker := breakpoints.New(nil, vp, breakpoints.Options{Logger: logging.Discard()}).Init(cfg.Breakpoints)

	query := strings.Join(fs.Args(), " ")
	if query == "" {
		query = "current"
	}
	hintUnknownNames(stderr, query, tracker.Thresholds())

	out, err := ui.Eval(tracker, query)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}

// hintUnknownNames warns about breakpoint names in the query argument that
// are not configured. The query still runs with its usual result.
func hintUnknownNames(w io.Writer, query string, ts breakpoints.Thresholds) {
	_, arg, ok := strings.Cut(strings.TrimSpace(query), " ")
	if !ok {
		return
	}
	names := ts.Names()
	for _, name := range strings.Split(arg, ",") {
		name = strings.TrimSpace(name)
		if name == "" || ts.Index(name) >= 0 {
			continue
		}
		if s := ui.Suggest(name, names); s != "" {
			fmt.Fprintf(w, "unknown breakpoint %q (did you mean %q?)\n", name, s)
		} else {
			fmt.Fprintf(w, "unknown breakpoint %q\n", name)
		}
	}
}
