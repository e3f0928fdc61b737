// Package viewport answers "how wide is the screen right now".
package viewport

import (
	"os"

	"golang.org/x/term"
)

// DefaultWidth is reported when the terminal size cannot be read.
const DefaultWidth = 80

// Viewport reports the current width.
type Viewport interface {
	Width() int
}

// Static is a fixed width.
type Static int

// Width returns the fixed value.
func (s Static) Width() int { return int(s) }

// Func adapts a function to Viewport.
type Func func() int

// Width calls f.
func (f Func) Width() int { return f() }

// Terminal reads the width of the terminal attached to Fd.
type Terminal struct {
	Fd int
}

// Stdout returns a Terminal for the process's standard output.
func Stdout() Terminal {
	return Terminal{Fd: int(os.Stdout.Fd())}
}

// Width returns the column count, or DefaultWidth if Fd is not a terminal.
func (t Terminal) Width() int {
	w, _, err := term.GetSize(t.Fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Compensated adds Gutter to the base width while Overflowing reports true.
// A UI whose content scrolls loses a column to its scrollbar; compensating
// keeps breakpoints aligned with the full window width.
type Compensated struct {
	Base        Viewport
	Gutter      int
	Overflowing func() bool
}

// Width returns the base width, plus the gutter when content overflows.
func (c Compensated) Width() int {
	w := c.Base.Width()
	if c.Gutter > 0 && c.Overflowing != nil && c.Overflowing() {
		w += c.Gutter
	}
	return w
}
