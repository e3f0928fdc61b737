package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/config"
)

var presets = map[string]breakpoints.Thresholds{
	"terminal": breakpoints.Terminal,
	"web":      breakpoints.Default,
}

// initAnswers holds the form values as strings so huh can edit them.
type initAnswers struct {
	Breakpoints string
	Debounce    string
	Gutter      string
	Compensate  bool
	Journal     string
}

func (a initAnswers) config() (config.Config, error) {
	c := config.Default()
	ts, err := config.ParseThresholds(a.Breakpoints)
	if err != nil {
		return c, err
	}
	c.Breakpoints = ts
	if c.Resize.Debounce, err = time.ParseDuration(a.Debounce); err != nil {
		return c, fmt.Errorf("debounce: %w", err)
	}
	if c.Viewport.Gutter, err = strconv.Atoi(a.Gutter); err != nil {
		return c, fmt.Errorf("gutter: %w", err)
	}
	c.Viewport.Compensate = a.Compensate
	c.Journal.Path = a.Journal
	return c, nil
}

func runInit(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("init", stderr)
	out := fs.String("o", config.DefaultPath(), "config file to write")
	preset := fs.String("preset", "terminal", "starting breakpoints: terminal or web")
	yes := fs.Bool("yes", false, "write the preset without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ts, ok := presets[*preset]
	if !ok {
		return fmt.Errorf("unknown preset %q", *preset)
	}

	d := config.Default()
	a := initAnswers{
		Breakpoints: ts.String(),
		Debounce:    d.Resize.Debounce.String(),
		Gutter:      strconv.Itoa(d.Viewport.Gutter),
		Compensate:  d.Viewport.Compensate,
	}
	if !*yes {
		if err := initForm(&a).RunWithContext(ctx); err != nil {
			return fmt.Errorf("init form: %w", err)
		}
	}

	c, err := a.config()
	if err != nil {
		return err
	}
	if err := config.Save(*out, c); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", *out)
	return nil
}

func initForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Breakpoints").
				Description("name:min pairs in ascending order").
				Value(&a.Breakpoints).
				Validate(func(s string) error {
					_, err := config.ParseThresholds(s)
					return err
				}),
			huh.NewInput().
				Title("Resize debounce").
				Value(&a.Debounce).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Scrollbar gutter (columns)").
				Value(&a.Gutter).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err == nil && n < 0 {
						err = errors.New("gutter must not be negative")
					}
					return err
				}),
			huh.NewConfirm().
				Title("Compensate for the scrollbar?").
				Value(&a.Compensate),
			huh.NewInput().
				Title("Journal database").
				Description("leave empty to disable").
				Value(&a.Journal),
		),
	)
}
