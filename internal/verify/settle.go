package verify

import (
	"context"
	"time"
)

// SettleWindow adds a fixed buffer to the batch interval.
func SettleWindow(batchInterval, buffer time.Duration) time.Duration {
	return batchInterval + buffer
}

// Waiter suspends the pipeline until the service has plausibly settled.
type Waiter struct {
	// Tick is the progress cadence. Zero disables ticks.
	Tick time.Duration
	// OnTick observes progress. It never changes the wait duration.
	OnTick func(elapsed, remaining time.Duration)
}

// Wait blocks for window. It only returns early when ctx is cancelled,
// which aborts the run.
func (w *Waiter) Wait(ctx context.Context, window time.Duration) error {
	if window <= 0 {
		return ctx.Err()
	}

	start := time.Now()
	timer := time.NewTimer(window)
	defer timer.Stop()

	var ticks <-chan time.Time
	if w != nil && w.OnTick != nil && w.Tick > 0 {
		ticker := time.NewTicker(w.Tick)
		defer ticker.Stop()

		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case now := <-ticks:
			elapsed := now.Sub(start)
			w.OnTick(elapsed, max(window-elapsed, 0))
		}
	}
}
