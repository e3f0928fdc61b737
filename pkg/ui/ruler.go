package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
)

// renderRuler draws the thresholds as coloured bands across width columns
// with the active band highlighted and a caret under the current width.
func renderRuler(ts breakpoints.Thresholds, current string, measured, width int) string {
	if width <= 0 || len(ts) == 0 {
		return ""
	}
	scale := ts[len(ts)-1].Min
	scale = max(scale+scale/4, measured+1, 1)
	col := func(v int) int { return v * width / scale }

	var bands, labels strings.Builder
	for i, t := range ts {
		x0 := col(t.Min)
		x1 := width
		if i+1 < len(ts) {
			x1 = col(ts[i+1].Min)
		}
		w := x1 - x0
		if w <= 0 {
			continue
		}
		style := lipgloss.NewStyle().
			Background(SegmentColors[i%len(SegmentColors)]).
			Foreground(ColorBg)
		if t.Name == current {
			style = style.Bold(true).Underline(true)
		}
		name := runewidth.Truncate(t.Name, w, "")
		bands.WriteString(style.Render(runewidth.FillRight(name, w)))

		label := ""
		if width >= BreakpointNarrow {
			label = strconv.Itoa(t.Min)
		}
		labels.WriteString(runewidth.FillRight(runewidth.Truncate(label, w, ""), w))
	}

	caret := max(min(col(measured), width-1), 0)
	marker := strings.Repeat(" ", caret) + lipgloss.NewStyle().Foreground(ColorDanger).Bold(true).Render("▲")

	lines := []string{bands.String(), marker}
	if width >= BreakpointNarrow {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorMuted).Render(labels.String()))
	}
	return strings.Join(lines, "\n")
}
