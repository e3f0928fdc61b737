// Package breakpoints detects when a viewport width crosses named
// thresholds and dispatches callbacks for the direction of the crossing.
package breakpoints

import (
	"strconv"
	"strings"
)

// Terminal column thresholds for responsive TUI layouts.
const (
	// ColumnsNarrow is the width below which a TUI should use its minimal layout.
	ColumnsNarrow = 80

	// ColumnsMedium is the width above which dual-panel layouts fit.
	ColumnsMedium = 100

	// ColumnsWide is the width for expanded layouts.
	ColumnsWide = 140
)

// Threshold is a named minimum width.
type Threshold struct {
	Name string `yaml:"name" json:"name"`
	Min  int    `yaml:"min" json:"min"`
}

// Thresholds is an ordered list of breakpoints, ascending by Min.
// The order defines To/From ranges and the fallback breakpoint.
type Thresholds []Threshold

// Default is the classic pixel breakpoint set.
var Default = Thresholds{
	{Name: "xs", Min: 0},
	{Name: "sm", Min: 600},
	{Name: "md", Min: 960},
	{Name: "lg", Min: 1240},
}

// Terminal is a breakpoint set in terminal columns.
var Terminal = Thresholds{
	{Name: "xs", Min: 0},
	{Name: "sm", Min: ColumnsNarrow},
	{Name: "md", Min: ColumnsMedium},
	{Name: "lg", Min: ColumnsWide},
}

// Names returns the breakpoint names in definition order.
func (ts Thresholds) Names() []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Index returns the position of name, or -1.
func (ts Thresholds) Index(name string) int {
	for i, t := range ts {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// Resolve returns the name of the largest threshold whose Min is <= width.
// When every threshold is above width the first-defined name is returned.
// An empty set resolves to "".
func (ts Thresholds) Resolve(width int) string {
	if len(ts) == 0 {
		return ""
	}
	idx := -1
	for i, t := range ts {
		if width >= t.Min {
			idx = i
		}
	}
	if idx < 0 {
		idx = 0
	}
	return ts[idx].Name
}

// Crossed returns the direction of a move from prev to width and the names
// of the thresholds crossed, in the order they were traversed. An equal
// width counts as Up and crosses nothing.
func (ts Thresholds) Crossed(prev, width int) (Direction, []string) {
	var points []string
	if width >= prev {
		for _, t := range ts {
			if t.Min > prev && width >= t.Min {
				points = append(points, t.Name)
			}
		}
		return Up, points
	}

	for _, t := range ts {
		if t.Min <= prev && width < t.Min {
			points = append(points, t.Name)
		}
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return Down, points
}

// To lists names from the first threshold up to and including name.
// If name is unknown every name is returned.
func (ts Thresholds) To(name string) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.Name)
		if t.Name == name {
			break
		}
	}
	return out
}

// From lists names from name (inclusive) to the last threshold.
// If name is unknown the result is empty.
func (ts Thresholds) From(name string) []string {
	var out []string
	started := false
	for _, t := range ts {
		if t.Name == name {
			started = true
		}
		if started {
			out = append(out, t.Name)
		}
	}
	return out
}

// String renders the set as "xs:0, sm:600".
func (ts Thresholds) String() string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Name + ":" + strconv.Itoa(t.Min)
	}
	return strings.Join(parts, ", ")
}

func (ts Thresholds) clone() Thresholds {
	if ts == nil {
		return nil
	}
	out := make(Thresholds, len(ts))
	copy(out, ts)
	return out
}
