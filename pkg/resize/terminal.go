package resize

import (
	"fmt"

	"golang.org/x/term"
)

// TerminalQuery returns a size query for the terminal on fd, for Watch.
func TerminalQuery(fd int) func() (Size, error) {
	return func() (Size, error) {
		w, h, err := term.GetSize(fd)
		if err != nil {
			return Size{}, fmt.Errorf("get terminal size: %w", err)
		}
		return Size{Width: w, Height: h}, nil
	}
}
