//go:build windows

package resize

import "context"

// Watch blocks until ctx is done. Windows has no SIGWINCH; sizes arrive
// through Notify from the UI event loop instead.
func (n *Notifier) Watch(ctx context.Context, query func() (Size, error)) error {
	<-ctx.Done()
	n.Close()
	return nil
}
