package clock

import (
	"context"
	"time"
)

// Tick advances c by one second for every second that passes on src, n times.
// onTick, if non-nil, is called after each advance. Tick returns early with
// ctx.Err() when ctx is cancelled.
func Tick(ctx context.Context, c *WallClock, src Source, n int, onTick func(*WallClock)) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-src.After(time.Second):
		}
		c.AddSecond()
		if onTick != nil {
			onTick(c)
		}
	}
	return nil
}
