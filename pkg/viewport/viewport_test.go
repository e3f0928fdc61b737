package viewport

import "testing"

func TestStaticAndFunc(t *testing.T) {
	if got := Static(120).Width(); got != 120 {
		t.Errorf("Static width = %d, want 120", got)
	}
	n := 0
	f := Func(func() int { n += 10; return n })
	f.Width()
	if got := f.Width(); got != 20 {
		t.Errorf("Func width = %d, want 20", got)
	}
}

func TestCompensated(t *testing.T) {
	overflow := false
	c := Compensated{
		Base:        Static(99),
		Gutter:      1,
		Overflowing: func() bool { return overflow },
	}

	if got := c.Width(); got != 99 {
		t.Errorf("Expected 99 without overflow, got %d", got)
	}
	overflow = true
	if got := c.Width(); got != 100 {
		t.Errorf("Expected 100 with overflow, got %d", got)
	}

	c.Overflowing = nil
	if got := c.Width(); got != 99 {
		t.Errorf("Expected nil Overflowing to disable compensation, got %d", got)
	}
}

func TestTerminalFallback(t *testing.T) {
	// -1 is never a valid descriptor.
	if got := (Terminal{Fd: -1}).Width(); got != DefaultWidth {
		t.Errorf("Expected fallback %d, got %d", DefaultWidth, got)
	}
}
