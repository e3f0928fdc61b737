// Package export renders breakpoint rulers to image files and serves live
// breakpoint state over HTTP.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

// Palette colours segments in order, wrapping around.
var Palette = []string{"#6272A4", "#8BE9FD", "#50FA7B", "#FFB86C", "#FF79C6", "#BD93F9"}

const (
	colorBackground = "#282A36"
	colorText       = "#F8F8F2"
	colorMarker     = "#FF5555"
)

// Ruler lays out thresholds on a horizontal scale.
type Ruler struct {
	Thresholds breakpoints.Thresholds
	// Width and Height are the image size in pixels.
	Width  int
	Height int
	// Marker is the current viewport width, drawn as a vertical line.
	// Negative disables it.
	Marker int
}

// Segment is one breakpoint band in image coordinates.
type Segment struct {
	Name   string
	Min    int
	X      int
	Width  int
	Color  string
	Active bool
}

// NewRuler returns a ruler with the default image size and no marker.
func NewRuler(ts breakpoints.Thresholds) Ruler {
	return Ruler{Thresholds: ts, Width: 800, Height: 80, Marker: -1}
}

// scaleMax is the width value mapped to the right edge: a quarter beyond the
// last threshold, or the marker if it is further out.
func (r Ruler) scaleMax() int {
	hi := 1
	if n := len(r.Thresholds); n > 0 {
		last := r.Thresholds[n-1].Min
		hi = max(last+last/4, 1)
	}
	if r.Marker >= hi {
		hi = r.Marker + 1
	}
	return hi
}

func (r Ruler) x(value int) int {
	return value * r.Width / r.scaleMax()
}

// Segments returns the bands in threshold order.
func (r Ruler) Segments() []Segment {
	active := ""
	if r.Marker >= 0 {
		active = r.Thresholds.Resolve(r.Marker)
	}
	segs := make([]Segment, len(r.Thresholds))
	for i, t := range r.Thresholds {
		x0 := r.x(t.Min)
		x1 := r.Width
		if i+1 < len(r.Thresholds) {
			x1 = r.x(r.Thresholds[i+1].Min)
		}
		segs[i] = Segment{
			Name:   t.Name,
			Min:    t.Min,
			X:      x0,
			Width:  x1 - x0,
			Color:  Palette[i%len(Palette)],
			Active: t.Name == active,
		}
	}
	return segs
}

// WriteSVG renders the ruler as SVG.
func (r Ruler) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)
	canvas.Start(r.Width, r.Height)
	canvas.Rect(0, 0, r.Width, r.Height, "fill:"+colorBackground)

	band := r.Height / 2
	top := r.Height / 8
	for _, s := range r.Segments() {
		style := "fill:" + s.Color
		if s.Active {
			style += ";stroke:" + colorText + ";stroke-width:2"
		}
		canvas.Rect(s.X, top, s.Width, band, style)
		canvas.Text(s.X+4, top+band/2+4, s.Name, "fill:"+colorBackground+";font-family:monospace;font-size:12px")
		canvas.Text(s.X+2, top+band+14, strconv.Itoa(s.Min), "fill:"+colorText+";font-family:monospace;font-size:10px")
	}
	if r.Marker >= 0 {
		mx := r.x(r.Marker)
		canvas.Line(mx, 0, mx, r.Height, "stroke:"+colorMarker+";stroke-width:2")
	}
	canvas.End()
	return bw.Flush()
}

// WritePNG renders the ruler as PNG.
func (r Ruler) WritePNG(w io.Writer) error {
	dc := gg.NewContext(r.Width, r.Height)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	band := float64(r.Height / 2)
	top := float64(r.Height / 8)
	for _, s := range r.Segments() {
		dc.SetHexColor(s.Color)
		dc.DrawRectangle(float64(s.X), top, float64(s.Width), band)
		dc.Fill()
		if s.Active {
			dc.SetHexColor(colorText)
			dc.SetLineWidth(2)
			dc.DrawRectangle(float64(s.X)+1, top+1, float64(s.Width)-2, band-2)
			dc.Stroke()
		}
		dc.SetHexColor(colorBackground)
		dc.DrawString(s.Name, float64(s.X)+4, top+band/2+4)
		dc.SetHexColor(colorText)
		dc.DrawString(strconv.Itoa(s.Min), float64(s.X)+2, top+band+14)
	}
	if r.Marker >= 0 {
		mx := float64(r.x(r.Marker))
		dc.SetHexColor(colorMarker)
		dc.SetLineWidth(2)
		dc.DrawLine(mx, 0, mx, float64(r.Height))
		dc.Stroke()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
