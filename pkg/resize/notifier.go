// Package resize dispatches viewport size changes to named handlers, grouped
// into stacks that run in priority order.
package resize

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/kraitsura/bpwatch/pkg/watcher"
)

// Size is a viewport size.
type Size struct {
	Width  int
	Height int
}

// Handler receives the new size.
type Handler func(Size)

// Stack orders handlers: every handler on a lower stack runs before any
// handler on a higher one.
type Stack int

const (
	// StackCore is for state that other handlers read, such as breakpoints.
	StackCore Stack = iota
	// StackMain is the default stack for layout code.
	StackMain
	// StackLate runs after layout has settled.
	StackLate
)

func (s Stack) String() string {
	switch s {
	case StackCore:
		return "core"
	case StackMain:
		return "main"
	case StackLate:
		return "late"
	default:
		return "custom"
	}
}

type binding struct {
	namespace string
	handler   Handler
}

// Notifier fans resize events out to bound handlers. Dispatch runs on the
// goroutine that calls Notify, or on the debounce timer for NotifyDebounced.
type Notifier struct {
	mu        sync.Mutex
	stacks    map[Stack][]binding
	size      Size
	debouncer *watcher.Debouncer
	log       *slog.Logger
}

// NewNotifier creates a Notifier whose NotifyDebounced waits debounce.
func NewNotifier(debounce time.Duration, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		stacks:    make(map[Stack][]binding),
		debouncer: watcher.NewDebouncer(debounce),
		log:       log,
	}
}

// Bind registers h under namespace on stack. Binding a namespace that is
// already on the stack replaces its handler and keeps its position.
func (n *Notifier) Bind(namespace string, h Handler, stack Stack) {
	if h == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, b := range n.stacks[stack] {
		if b.namespace == namespace {
			n.stacks[stack][i].handler = h
			return
		}
	}
	n.stacks[stack] = append(n.stacks[stack], binding{namespace: namespace, handler: h})
}

// Unbind removes namespace from stack. Missing namespaces are ignored.
func (n *Notifier) Unbind(namespace string, stack Stack) {
	n.mu.Lock()
	defer n.mu.Unlock()
	bs := n.stacks[stack]
	for i, b := range bs {
		if b.namespace == namespace {
			n.stacks[stack] = append(bs[:i:i], bs[i+1:]...)
			return
		}
	}
}

// Bound reports whether namespace has a handler on stack.
func (n *Notifier) Bound(namespace string, stack Stack) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, b := range n.stacks[stack] {
		if b.namespace == namespace {
			return true
		}
	}
	return false
}

// Size returns the last notified size.
func (n *Notifier) Size() Size {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.size
}

// Notify records s and runs every handler synchronously.
func (n *Notifier) Notify(s Size) {
	n.mu.Lock()
	n.size = s
	n.mu.Unlock()
	n.dispatch(s)
}

// NotifyDebounced records s and dispatches once no further size has
// arrived within the debounce window.
func (n *Notifier) NotifyDebounced(s Size) {
	n.debouncer.Trigger(func() { n.Notify(s) })
}

// Refresh dispatches a pending debounced size immediately, or re-sends the
// last size when nothing is pending.
func (n *Notifier) Refresh() {
	if n.debouncer.Flush() {
		return
	}
	n.dispatch(n.Size())
}

// Close drops any pending debounced notification.
func (n *Notifier) Close() {
	n.debouncer.Cancel()
}

func (n *Notifier) dispatch(s Size) {
	n.mu.Lock()
	var handlers []binding
	for _, stack := range slices.Sorted(maps.Keys(n.stacks)) {
		handlers = append(handlers, n.stacks[stack]...)
	}
	n.mu.Unlock()

	n.log.Debug("resize", "width", s.Width, "height", s.Height, "handlers", len(handlers))
	for _, b := range handlers {
		b.handler(s)
	}
}
