package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/kraitsura/bpwatch/pkg/export"
)

func runRuler(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("ruler", stderr)
	var cf configFlags
	cf.register(fs)
	svgPath := fs.String("svg", "", "write an SVG ruler here")
	pngPath := fs.String("png", "", "write a PNG ruler here")
	marker := fs.Int("width", -1, "mark this viewport width")
	size := fs.Int("size", 800, "image width in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *svgPath == "" && *pngPath == "" {
		return errors.New("ruler needs -svg or -png")
	}
	cfg, err := cf.load()
	if err != nil {
		return err
	}

	r := export.NewRuler(cfg.Breakpoints)
	r.Marker = *marker
	if *size > 0 {
		r.Width = *size
	}

	g, _ := errgroup.WithContext(ctx)
	if *svgPath != "" {
		g.Go(func() error { return writeFile(*svgPath, r.WriteSVG) })
	}
	if *pngPath != "" {
		g.Go(func() error { return writeFile(*pngPath, r.WritePNG) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, p := range []string{*svgPath, *pngPath} {
		if p != "" {
			fmt.Fprintf(stdout, "wrote %s\n", p)
		}
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
