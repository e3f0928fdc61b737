package breakpoints

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/kraitsura/bpwatch/pkg/resize"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

// DefaultNamespace is the handler name used on the resize notifier.
const DefaultNamespace = "bpwatch-breakpoints"

// Notifier delivers resize notifications on ordered handler stacks.
type Notifier interface {
	Bind(namespace string, h resize.Handler, stack resize.Stack)
	Unbind(namespace string, stack resize.Stack)
}

// Observer receives every width change and crossing after the tracker
// state has been updated. Observers run before the registered callbacks.
type Observer interface {
	ObserveWidth(width int, active string)
	ObserveCrossing(c Crossing)
}

// Options configures a Tracker.
type Options struct {
	Logger    *slog.Logger
	Observers []Observer
	Namespace string
}

// Tracker follows the viewport width and fires callbacks when it crosses
// a threshold. Its state is guarded by a mutex that is released before
// callbacks run, so callbacks may call back into the tracker.
type Tracker struct {
	notifier  Notifier
	viewport  viewport.Viewport
	log       *slog.Logger
	observers []Observer
	namespace string

	mu         sync.Mutex
	thresholds Thresholds
	width      int
	active     string
	callbacks  registry
	bound      bool
}

// New creates a tracker reading widths from vp. A nil notifier is allowed;
// detection then only happens through Refresh.
func New(n Notifier, vp viewport.Viewport, opts Options) *Tracker {
	t := &Tracker{
		notifier:  n,
		viewport:  vp,
		log:       opts.Logger,
		observers: opts.Observers,
		namespace: opts.Namespace,
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	if t.namespace == "" {
		t.namespace = DefaultNamespace
	}
	return t
}

// Init replaces the thresholds, captures the current width and binds the
// tracker on the core resize stack. Calling Init again rebinds instead of
// binding twice. Registered callbacks are kept.
func (t *Tracker) Init(ts Thresholds) *Tracker {
	t.unbind()

	w := t.viewport.Width()

	t.mu.Lock()
	t.thresholds = ts.clone()
	t.width = w
	t.active = t.thresholds.Resolve(w)
	active := t.active
	t.mu.Unlock()

	t.log.Debug("breakpoints initialised", "thresholds", ts.String(), "width", w, "current", active)
	for _, o := range t.observers {
		o.ObserveWidth(w, active)
	}

	if t.notifier != nil {
		t.notifier.Bind(t.namespace, t.onResize, resize.StackCore)
		t.mu.Lock()
		t.bound = true
		t.mu.Unlock()
	}
	return t
}

// Destroy unbinds from the notifier. Callbacks and state are left in place
// and become active again after the next Init.
func (t *Tracker) Destroy() *Tracker {
	t.unbind()
	return t
}

func (t *Tracker) unbind() {
	t.mu.Lock()
	bound := t.bound
	t.bound = false
	t.mu.Unlock()
	if bound && t.notifier != nil {
		t.notifier.Unbind(t.namespace, resize.StackCore)
	}
}

func (t *Tracker) onResize(resize.Size) {
	t.Refresh()
}

type dispatch struct {
	crossing  Crossing
	callbacks []Callback
}

// Refresh reads the viewport width and runs one detection pass. The
// callbacks for every crossed threshold are captured before the first one
// runs; adds and removes made by a callback take effect on the next pass.
func (t *Tracker) Refresh() {
	w := t.viewport.Width()

	t.mu.Lock()
	prev := t.width
	dir, points := t.thresholds.Crossed(prev, w)
	t.width = w
	t.active = t.thresholds.Resolve(w)
	active := t.active
	plan := make([]dispatch, 0, len(points))
	for _, name := range points {
		plan = append(plan, dispatch{
			crossing:  Crossing{Name: name, Direction: dir, From: prev, To: w},
			callbacks: t.callbacks.snapshot(name, dir),
		})
	}
	t.mu.Unlock()

	for _, o := range t.observers {
		o.ObserveWidth(w, active)
	}

	for _, d := range plan {
		t.log.Debug("breakpoint crossed", "point", d.crossing.Name, "direction", dir.String(), "from", prev, "to", w)
		for _, o := range t.observers {
			o.ObserveCrossing(d.crossing)
		}
		for _, cb := range d.callbacks {
			cb(d.crossing)
		}
	}
}

// Add registers cb for name crossed in dir. An optional tag groups
// callbacks for Remove; without one DefaultTag is used. Unknown names are
// accepted and simply never fire.
func (t *Tracker) Add(name string, dir Direction, cb Callback, tag ...Tag) *Tracker {
	if cb == nil {
		return t
	}
	t.mu.Lock()
	t.callbacks.add(name, dir, tagOf(tag), cb)
	t.mu.Unlock()
	return t
}

// Up registers cb for name crossed while growing.
func (t *Tracker) Up(name string, cb Callback, tag ...Tag) *Tracker {
	return t.Add(name, Up, cb, tag...)
}

// Down registers cb for name crossed while shrinking.
func (t *Tracker) Down(name string, cb Callback, tag ...Tag) *Tracker {
	return t.Add(name, Down, cb, tag...)
}

// Remove drops every callback stored under (name, dir, tag). Removing a
// missing entry is a no-op.
func (t *Tracker) Remove(name string, dir Direction, tag ...Tag) *Tracker {
	t.mu.Lock()
	t.callbacks.remove(name, dir, tagOf(tag))
	t.mu.Unlock()
	return t
}

// Callbacks returns how many callbacks are registered for (name, dir)
// across all tags.
func (t *Tracker) Callbacks(name string, dir Direction) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.callbacks.count(name, dir)
}

func tagOf(tag []Tag) Tag {
	if len(tag) == 0 || tag[0] == "" {
		return DefaultTag
	}
	return tag[0]
}

// Is reports whether the current breakpoint is one of the comma-separated
// names in list, e.g. "xs, md".
func (t *Tracker) Is(list string) bool {
	current := t.Current()
	if current == "" {
		return false
	}
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == current {
			return true
		}
	}
	return false
}

// To returns the names from the first breakpoint up to name, joined by
// ", ". An unknown name yields every breakpoint.
func (t *Tracker) To(name string) string {
	return strings.Join(t.ToNames(name), ", ")
}

// From returns the names from name to the last breakpoint, joined by
// ", ". An unknown name yields "".
func (t *Tracker) From(name string) string {
	return strings.Join(t.FromNames(name), ", ")
}

// ToNames is To as a slice.
func (t *Tracker) ToNames(name string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.thresholds.To(name)
}

// FromNames is From as a slice.
func (t *Tracker) FromNames(name string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.thresholds.From(name)
}

// Max reports whether the current breakpoint is name or smaller.
func (t *Tracker) Max(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != "" && slices.Contains(t.thresholds.To(name), t.active)
}

// Min reports whether the current breakpoint is name or larger.
func (t *Tracker) Min(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != "" && slices.Contains(t.thresholds.From(name), t.active)
}

// Current returns the active breakpoint name.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Width returns the last observed width.
func (t *Tracker) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// Thresholds returns a copy of the configured breakpoints.
func (t *Tracker) Thresholds() Thresholds {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.thresholds.clone()
}
