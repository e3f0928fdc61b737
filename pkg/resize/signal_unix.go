//go:build !windows

package resize

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Watch feeds terminal resizes into n until ctx is done. query is called on
// every SIGWINCH; failed queries are logged and skipped.
func (n *Notifier) Watch(ctx context.Context, query func() (Size, error)) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			n.Close()
			return nil
		case <-sig:
			s, err := query()
			if err != nil {
				n.log.Warn("read terminal size", "error", err)
				continue
			}
			n.NotifyDebounced(s)
		}
	}
}
