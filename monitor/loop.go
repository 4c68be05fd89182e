package monitor

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
)

// Log drains events until ctx is done, logging each one at debug level with
// the logger carried by ctx. It is meant to run on its own goroutine behind
// a machine.Forward listener.
func Log[T fmt.Stringer](ctx context.Context, source string, events <-chan T) {
	logger := charmlog.FromContext(ctx).With("source", source)
	count := 0
	for {
		select {
		case <-ctx.Done():
			logger.Debug("chan Done, quitting", "events", count)
			return
		case ev := <-events:
			count++
			logger.Debug("event", "n", count, "data", ev.String())
		}
	}
}
