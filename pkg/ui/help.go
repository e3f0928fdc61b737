package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# bpwatch

Follows the terminal width and logs every breakpoint it crosses.

## Keys

| Key | Action |
|-----|--------|
| ` + "`:`" + ` | evaluate a query |
| ` + "`/`" + ` | filter the crossing log |
| ` + "`c`" + ` | copy the current breakpoint |
| ` + "`x`" + ` | clear the crossing log |
| ` + "`j` `k`" + ` | scroll the log |
| ` + "`?`" + ` | toggle this help |
| ` + "`q`" + ` | quit |

## Queries

- ` + "`current`" + ` the active breakpoint
- ` + "`width`" + ` the measured width
- ` + "`is xs, md`" + ` true when one of the names is active
- ` + "`max md`" + ` true at md or smaller
- ` + "`min md`" + ` true at md or larger
- ` + "`to md`" + ` names up to md
- ` + "`from md`" + ` names from md
`

// HelpOverlayModel shows keyboard shortcuts and the query grammar.
type HelpOverlayModel struct {
	visible  bool
	width    int
	height   int
	theme    Theme
	rendered string
	renderW  int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	return HelpOverlayModel{theme: theme}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions and re-renders the help text when the wrap
// width changes.
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if wrap := m.wrapWidth(); wrap != m.renderW {
		m.rendered = renderMarkdown(helpMarkdown, wrap)
		m.renderW = wrap
	}
}

func (m HelpOverlayModel) wrapWidth() int {
	return max(m.width-8, 20)
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// View renders the help overlay
func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}
	text := m.rendered
	if text == "" {
		text = renderMarkdown(helpMarkdown, m.wrapWidth())
	}
	return m.theme.Box.Render(strings.TrimSpace(text))
}

// renderMarkdown renders md for the terminal, falling back to the source
// when glamour fails.
func renderMarkdown(md string, wrap int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
