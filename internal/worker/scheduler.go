package worker

import (
	"context"
	"time"
)

// Scheduler repeatedly runs a task on an interval until the context is
// canceled. Abstracted so tests can step ticks manually without a real clock.
type Scheduler interface {
	Schedule(ctx context.Context, interval time.Duration, task func(context.Context))
}

type tickerScheduler struct{}

// NewTickerScheduler returns the production scheduler backed by time.Ticker.
func NewTickerScheduler() Scheduler {
	return tickerScheduler{}
}

func (tickerScheduler) Schedule(ctx context.Context, interval time.Duration, task func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}
