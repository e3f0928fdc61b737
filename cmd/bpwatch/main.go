package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/config"
)

const version = "0.1.0"

const usage = `Usage: bpwatch [command] [options]

Follows the terminal width and reports breakpoint crossings.

Commands:
  watch    interactive breakpoint monitor (default)
  follow   print crossings as the terminal is resized
  query    evaluate current, is, max, min, to or from
  replay   run a recorded width trace through the breakpoints
  ruler    render the breakpoints as SVG and PNG
  init     write a config file interactively
  stats    dwell time per breakpoint from the journal
  version  print the version

Run 'bpwatch <command> -h' for command options.
`

type command func(ctx context.Context, args []string, stdout, stderr io.Writer) error

var commands = map[string]command{
	"watch":  runWatch,
	"follow": runFollow,
	"query":  runQuery,
	"replay": runReplay,
	"ruler":  runRuler,
	"init":   runInit,
	"stats":  runStats,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	name := "watch"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		name, args = args[0], args[1:]
	}
	switch name {
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	case "version":
		fmt.Fprintf(stdout, "bpwatch version %s\n", version)
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", name)
	}
	return cmd(ctx, args, stdout, stderr)
}

// configFlags are shared by every command that reads breakpoints.
type configFlags struct {
	path        string
	breakpoints string
}

func (c *configFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.path, "config", "", "config file (default $HOME/.config/bpwatch/config.yaml)")
	fs.StringVar(&c.breakpoints, "breakpoints", "", `breakpoints, e.g. "xs:0,sm:80,md:100"`)
}

func (c *configFlags) load() (config.Config, error) {
	cfg, err := config.Load(c.path)
	if err != nil {
		return config.Config{}, err
	}
	if c.breakpoints != "" {
		ts, err := config.ParseThresholds(c.breakpoints)
		if err != nil {
			return config.Config{}, fmt.Errorf("-breakpoints: %w", err)
		}
		cfg.Breakpoints = ts
	}
	return cfg, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func crossingLine(c breakpoints.Crossing, current string) string {
	return fmt.Sprintf("%s %s %d -> %d (now %s)", c.Name, c.Direction, c.From, c.To, current)
}
