package ui

import (
	"sync"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

// Layout breakpoints for the watch screen itself.
const (
	// BreakpointNarrow is the width below which ruler minimums are hidden.
	BreakpointNarrow = breakpoints.ColumnsNarrow

	// BreakpointMedium is the width above which the summary shows To/From.
	BreakpointMedium = breakpoints.ColumnsMedium
)

// Panel dimension constraints.
const (
	// ChromeHeight is the rows used by header, ruler, summary, divider,
	// prompt and footer.
	ChromeHeight = 8

	// MinLogHeight is the minimum height of the crossing log.
	MinLogHeight = 3

	// ScrollbarWidth is the columns taken by the log scrollbar.
	ScrollbarWidth = 1
)

// Frame is the content geometry shared between the model and the width
// query of its tracker. While the crossing log scrolls, its scrollbar takes
// a column away from the content.
type Frame struct {
	mu       sync.Mutex
	content  int
	overflow bool
	gutter   int
}

// NewFrame returns a frame for a terminal that is width columns wide.
func NewFrame(width int) *Frame {
	return &Frame{content: width, gutter: ScrollbarWidth}
}

// ContentWidth is the width left for content.
func (f *Frame) ContentWidth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content
}

// Overflowing reports whether the scrollbar is visible.
func (f *Frame) Overflowing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overflow
}

// Gutter is the scrollbar width.
func (f *Frame) Gutter() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gutter
}

// SetGutter changes the scrollbar width.
func (f *Frame) SetGutter(g int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g < 0 {
		g = 0
	}
	f.gutter = g
}

func (f *Frame) update(width int, overflow bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overflow = overflow && f.gutter > 0
	f.content = width
	if f.overflow {
		f.content = width - f.gutter
	}
}

// Viewport returns the width query for a tracker driven by this frame.
// With compensate the scrollbar column is added back, so breakpoints follow
// the full terminal width.
func (f *Frame) Viewport(compensate bool) viewport.Viewport {
	base := viewport.Func(f.ContentWidth)
	if !compensate {
		return base
	}
	return viewport.Compensated{Base: base, Gutter: f.Gutter(), Overflowing: f.Overflowing}
}
