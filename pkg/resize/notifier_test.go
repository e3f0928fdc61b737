package resize

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNotify_StackOrder(t *testing.T) {
	n := NewNotifier(time.Millisecond, nil)
	var order []string
	record := func(name string) Handler {
		return func(Size) { order = append(order, name) }
	}

	n.Bind("layout", record("layout"), StackMain)
	n.Bind("after", record("after"), StackLate)
	n.Bind("bp", record("bp"), StackCore)
	n.Bind("layout2", record("layout2"), StackMain)

	n.Notify(Size{Width: 100, Height: 40})

	want := "bp,layout,layout2,after"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("dispatch order = %s, want %s", got, want)
	}
	if got := n.Size(); got.Width != 100 || got.Height != 40 {
		t.Errorf("Size() = %+v", got)
	}
}

func TestBind_ReplacesInPlace(t *testing.T) {
	n := NewNotifier(time.Millisecond, nil)
	var order []string
	n.Bind("a", func(Size) { order = append(order, "a1") }, StackMain)
	n.Bind("b", func(Size) { order = append(order, "b") }, StackMain)
	n.Bind("a", func(Size) { order = append(order, "a2") }, StackMain)

	n.Notify(Size{Width: 1})

	if got := strings.Join(order, ","); got != "a2,b" {
		t.Errorf("Expected rebind to keep position, got %s", got)
	}
}

func TestUnbind(t *testing.T) {
	n := NewNotifier(time.Millisecond, nil)
	calls := 0
	n.Bind("a", func(Size) { calls++ }, StackCore)

	n.Unbind("a", StackMain) // wrong stack
	if !n.Bound("a", StackCore) {
		t.Fatal("Unbind on another stack removed the handler")
	}
	n.Unbind("a", StackCore)
	n.Unbind("missing", StackCore)
	if n.Bound("a", StackCore) {
		t.Fatal("Expected handler removed")
	}

	n.Notify(Size{Width: 1})
	if calls != 0 {
		t.Errorf("Unbound handler ran %d times", calls)
	}
}

func TestNotifyDebounced_LastSizeWins(t *testing.T) {
	n := NewNotifier(20*time.Millisecond, nil)
	var mu sync.Mutex
	var seen []int
	done := make(chan struct{}, 1)
	n.Bind("w", func(s Size) {
		mu.Lock()
		seen = append(seen, s.Width)
		mu.Unlock()
		done <- struct{}{}
	}, StackCore)

	for _, w := range []int{81, 90, 120} {
		n.NotifyDebounced(Size{Width: w})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced notify never dispatched")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != 120 {
		t.Errorf("Expected single dispatch with 120, got %v", seen)
	}
}

func TestRefresh(t *testing.T) {
	n := NewNotifier(time.Hour, nil)
	var seen []int
	n.Bind("w", func(s Size) { seen = append(seen, s.Width) }, StackCore)

	n.NotifyDebounced(Size{Width: 70})
	n.Refresh() // flushes the pending size
	n.Refresh() // nothing pending, re-sends the last size

	if len(seen) != 2 || seen[0] != 70 || seen[1] != 70 {
		t.Errorf("Expected [70 70], got %v", seen)
	}
}

func TestTerminalQuery_Error(t *testing.T) {
	_, err := TerminalQuery(-1)()
	if err == nil {
		t.Fatal("Expected error for invalid descriptor")
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("Expected wrapped error, got %v", err)
	}
}
