// Package ui is the interactive watch screen: a live breakpoint ruler over
// a log of every threshold the terminal width crosses.
package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/resize"
)

// uiTag groups the callbacks the screen registers on its tracker.
const uiTag breakpoints.Tag = "ui"

// Options configures the watch screen.
type Options struct {
	Thresholds breakpoints.Thresholds
	// Debounce delays applying a terminal resize until the size has been
	// stable this long. Zero applies every resize immediately.
	Debounce time.Duration
	// Gutter is the scrollbar width taken from the content while the
	// crossing log overflows.
	Gutter int
	// Compensate adds the gutter back to the width the tracker sees.
	Compensate bool
	Logger     *slog.Logger
	Observers  []breakpoints.Observer
	Now        func() time.Time
	Clipboard  func(string) error
}

// ReloadMsg replaces the thresholds, for example after the config file
// changed on disk.
type ReloadMsg struct {
	Thresholds breakpoints.Thresholds
	Err        error
}

// StatusMsg sets the status line.
type StatusMsg string

type resizeSettledMsg struct {
	seq  int
	size resize.Size
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeQuery
	modeFilter
)

type logEntry struct {
	at       time.Time
	crossing breakpoints.Crossing
	active   string
}

func (e logEntry) text() string {
	arrow := "↑"
	if e.crossing.Direction == breakpoints.Down {
		arrow = "↓"
	}
	return fmt.Sprintf("%s %s %s %d → %d now %s",
		e.at.Format("15:04:05"), e.crossing.Name, arrow, e.crossing.From, e.crossing.To, e.active)
}

func (e logEntry) render(theme Theme) string {
	return fmt.Sprintf("%s %s %s %s",
		theme.Subtle.Render(e.at.Format("15:04:05")),
		lipgloss.NewStyle().Bold(true).Render(e.crossing.Name),
		RenderDirection(e.crossing.Direction.String()),
		theme.Subtle.Render(fmt.Sprintf("%d → %d now %s", e.crossing.From, e.crossing.To, e.active)),
	)
}

// crossingLog collects crossings from tracker callbacks. Callbacks run
// inside Update, so the log is only touched from the program goroutine.
type crossingLog struct {
	entries []logEntry
	now     func() time.Time
	tracker *breakpoints.Tracker
}

func (l *crossingLog) record(c breakpoints.Crossing) {
	l.entries = append(l.entries, logEntry{at: l.now(), crossing: c, active: l.tracker.Current()})
}

// Model is the bubbletea model of the watch screen.
type Model struct {
	opts      Options
	notifier  *resize.Notifier
	tracker   *breakpoints.Tracker
	frame     *Frame
	crossings *crossingLog

	theme   Theme
	keys    keyMap
	help    help.Model
	overlay HelpOverlayModel
	logView viewport.Model
	input   textinput.Model

	mode   inputMode
	filter string
	result string
	status string
	err    error

	width  int
	height int
	seq    int
	ready  bool
}

// NewModel creates the watch screen and its tracker.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if len(opts.Thresholds) == 0 {
		opts.Thresholds = breakpoints.Terminal
	}

	frame := NewFrame(0)
	frame.SetGutter(opts.Gutter)
	notifier := resize.NewNotifier(0, opts.Logger)
	tracker := breakpoints.New(notifier, frame.Viewport(opts.Compensate), breakpoints.Options{
		Logger:    opts.Logger,
		Observers: opts.Observers,
	})

	theme := DefaultTheme()
	input := textinput.New()
	input.Placeholder = "is md"

	m := Model{
		opts:      opts,
		notifier:  notifier,
		tracker:   tracker,
		frame:     frame,
		crossings: &crossingLog{now: opts.Now, tracker: tracker},
		theme:     theme,
		keys:      newKeyMap(),
		help:      help.New(),
		overlay:   NewHelpOverlayModel(theme),
		logView:   viewport.New(0, MinLogHeight),
		input:     input,
	}
	m.register(opts.Thresholds)
	tracker.Init(opts.Thresholds)
	return m
}

func (m *Model) register(ts breakpoints.Thresholds) {
	for _, name := range ts.Names() {
		m.tracker.Up(name, m.crossings.record, uiTag)
		m.tracker.Down(name, m.crossings.record, uiTag)
	}
}

func (m *Model) unregister(ts breakpoints.Thresholds) {
	for _, name := range ts.Names() {
		m.tracker.Remove(name, breakpoints.Up, uiTag)
		m.tracker.Remove(name, breakpoints.Down, uiTag)
	}
}

// Tracker returns the tracker driven by the screen.
func (m Model) Tracker() *breakpoints.Tracker { return m.tracker }

// Entries returns the visible crossing log lines, oldest first.
func (m Model) Entries() []string {
	vis := m.visibleEntries()
	out := make([]string, len(vis))
	for i, e := range vis {
		out[i] = e.text()
	}
	return out
}

// Result is the output of the last query.
func (m Model) Result() string { return m.result }

// Err is the last query, reload or clipboard error.
func (m Model) Err() error { return m.err }

// Status is the status line text.
func (m Model) Status() string { return m.status }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.seq++
		size := resize.Size{Width: msg.Width, Height: msg.Height}
		if m.opts.Debounce <= 0 || !m.ready {
			m.applySize(size)
			return m, nil
		}
		seq := m.seq
		return m, tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
			return resizeSettledMsg{seq: seq, size: size}
		})

	case resizeSettledMsg:
		// A newer resize superseded this one.
		if msg.seq == m.seq {
			m.applySize(msg.size)
		}
		return m, nil

	case ReloadMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("reload: %w", msg.Err)
			return m, nil
		}
		m.reload(msg.Thresholds)
		return m, nil

	case StatusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applySize(s resize.Size) {
	m.width, m.height = s.Width, s.Height
	m.layout()
	if !m.ready {
		m.ready = true
		m.tracker.Init(m.tracker.Thresholds())
	} else {
		m.notifier.Notify(s)
	}
	// The log may have grown; the tracker sees a changed gutter on the
	// next resize.
	m.layout()
	m.syncLog()
}

func (m *Model) reload(ts breakpoints.Thresholds) {
	m.unregister(m.tracker.Thresholds())
	m.register(ts)
	m.tracker.Init(ts)
	m.err = nil
	m.status = "breakpoints: " + ts.String()
	m.opts.Logger.Info("breakpoints reloaded", "thresholds", ts.String(), "current", m.tracker.Current())
}

func (m *Model) layout() {
	logHeight := max(m.height-ChromeHeight, MinLogHeight)
	m.frame.update(m.width, len(m.visibleEntries()) > logHeight)
	m.logView.Width = m.frame.ContentWidth()
	m.logView.Height = logHeight
	m.help.Width = m.width
	m.input.Width = max(m.width-4, 10)
	m.overlay.SetSize(m.width, m.height)
}

func (m *Model) syncLog() {
	vis := m.visibleEntries()
	if len(vis) == 0 {
		m.logView.SetContent(m.theme.Subtle.Render("no crossings yet"))
		return
	}
	lines := make([]string, len(vis))
	for i, e := range vis {
		lines[i] = e.render(m.theme)
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
	m.logView.GotoBottom()
}

func (m Model) visibleEntries() []logEntry {
	all := m.crossings.entries
	if m.filter == "" {
		return all
	}
	texts := make([]string, len(all))
	for i, e := range all {
		texts[i] = e.text()
	}
	matches := fuzzy.Find(m.filter, texts)
	idx := make([]int, len(matches))
	for i, match := range matches {
		idx[i] = match.Index
	}
	sort.Ints(idx)
	out := make([]logEntry, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay.IsVisible() {
		m.overlay, _ = m.overlay.Update(msg)
		return m, nil
	}
	if m.mode != modeNormal {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.tracker.Destroy()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.overlay.Show()
	case key.Matches(msg, m.keys.Query):
		m.mode = modeQuery
		m.input.Prompt = ": "
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.input.Prompt = "/ "
		m.input.SetValue(m.filter)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Copy):
		current := m.tracker.Current()
		if err := m.opts.Clipboard(current); err != nil {
			m.err = fmt.Errorf("copy: %w", err)
			return m, nil
		}
		m.err = nil
		m.status = "copied " + current
	case key.Matches(msg, m.keys.Clear):
		m.crossings.entries = nil
		m.layout()
		m.syncLog()
	case key.Matches(msg, m.keys.Close):
		m.filter = ""
		m.result = ""
		m.layout()
		m.syncLog()
	default:
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if m.mode == modeQuery {
			m.result, m.err = Eval(m.tracker, value)
		} else {
			m.filter = value
		}
		m.mode = modeNormal
		m.input.Blur()
		m.layout()
		m.syncLog()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeFilter {
		m.filter = strings.TrimSpace(m.input.Value())
		m.layout()
		m.syncLog()
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "measuring terminal…"
	}
	if m.overlay.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlay.View())
	}

	current := m.tracker.Current()
	header := m.theme.Title.Render("bpwatch") + " " +
		m.theme.Badge.Render(current) + " " +
		m.theme.Subtle.Render(fmt.Sprintf("%d cols", m.tracker.Width()))

	summary := ""
	if m.width >= BreakpointMedium {
		summary = m.theme.Subtle.Render(fmt.Sprintf("to %s │ from %s", m.tracker.To(current), m.tracker.From(current)))
	}

	body := m.logView.View()
	if bar := m.scrollbar(); bar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
	}

	return strings.Join([]string{
		header,
		renderRuler(m.tracker.Thresholds(), current, m.tracker.Width(), m.frame.ContentWidth()),
		summary,
		RenderDivider(m.frame.ContentWidth()),
		body,
		m.promptLine(),
		m.help.View(m.keys),
	}, "\n")
}

func (m Model) promptLine() string {
	switch {
	case m.mode != modeNormal:
		return m.input.View()
	case m.err != nil:
		return m.theme.Error.Render(m.err.Error())
	case m.result != "":
		return m.theme.Status.Render("= " + m.result)
	case m.filter != "":
		return m.theme.Status.Render("filter: " + m.filter)
	default:
		return m.theme.Status.Render(m.status)
	}
}

func (m Model) scrollbar() string {
	h := m.logView.Height
	total := m.logView.TotalLineCount()
	if !m.frame.Overflowing() || h <= 0 || total <= h {
		return ""
	}
	thumb := max(h*h/total, 1)
	pos := int(m.logView.ScrollPercent() * float64(h-thumb))
	lines := make([]string, h)
	for i := range lines {
		if i >= pos && i < pos+thumb {
			lines[i] = m.theme.Thumb.Render("┃")
		} else {
			lines[i] = m.theme.Scrollbar.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
