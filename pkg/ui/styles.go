package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgSubtle    = lipgloss.Color("#363949")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorSubtext     = lipgloss.Color("#BFBFBF")
	ColorMuted       = lipgloss.Color("#6272A4")

	ColorPrimary = lipgloss.Color("#BD93F9")
	ColorInfo    = lipgloss.Color("#8BE9FD")
	ColorSuccess = lipgloss.Color("#50FA7B")
	ColorWarning = lipgloss.Color("#FFB86C")
	ColorDanger  = lipgloss.Color("#FF5555")
	ColorPink    = lipgloss.Color("#FF79C6")

	// ColorUp and ColorDown mark crossing directions.
	ColorUp   = ColorSuccess
	ColorDown = ColorWarning
)

// SegmentColors colour ruler bands in threshold order, wrapping around.
var SegmentColors = []lipgloss.Color{ColorMuted, ColorInfo, ColorSuccess, ColorWarning, ColorPink, ColorPrimary}

// Theme bundles the styles the views share.
type Theme struct {
	Title     lipgloss.Style
	Badge     lipgloss.Style
	Subtle    lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Scrollbar lipgloss.Style
	Thumb     lipgloss.Style
	Box       lipgloss.Style
}

// DefaultTheme returns the standard dark theme.
func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBg).
			Background(ColorPrimary).
			Padding(0, 1),
		Subtle:    lipgloss.NewStyle().Foreground(ColorMuted),
		Status:    lipgloss.NewStyle().Foreground(ColorInfo).Italic(true),
		Error:     lipgloss.NewStyle().Foreground(ColorDanger),
		Scrollbar: lipgloss.NewStyle().Foreground(ColorBgHighlight),
		Thumb:     lipgloss.NewStyle().Foreground(ColorPrimary),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2),
	}
}

// RenderDirection returns a coloured arrow for a crossing direction.
func RenderDirection(dir string) string {
	switch dir {
	case "up":
		return lipgloss.NewStyle().Foreground(ColorUp).Bold(true).Render("↑")
	case "down":
		return lipgloss.NewStyle().Foreground(ColorDown).Bold(true).Render("↓")
	default:
		return lipgloss.NewStyle().Foreground(ColorMuted).Render("·")
	}
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
