package clock

import (
	"context"
	"time"
)

// Sleep waits on c for d or returns early with the context error.
// With a mock clock it returns once the mock is advanced past d.
func Sleep(ctx context.Context, c Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := c.Timer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
