package core

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// Runner drives an AcquisitionTask from a clock.Clock on builds without a
// hardware timer: development hosts and tests. On target hardware the timer
// queue drives the task instead; the tick semantics are identical.
type Runner struct {
	task *AcquisitionTask
	clk  clock.Clock
}

// NewRunner creates a runner. Pass clock.New() for wall time or
// clock.NewMock() in tests.
func NewRunner(task *AcquisitionTask, clk clock.Clock) *Runner {
	return &Runner{task: task, clk: clk}
}

// Run ticks the task until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	period := time.Duration(TimerToUS(r.task.PeriodTicks())) * time.Microsecond
	ticker := r.clk.Ticker(period)
	defer ticker.Stop()

	start := r.clk.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			ticks := uint32(now.Sub(start).Microseconds())
			SetTime(ticks)
			r.task.RunTick(ticks)
		}
	}
}
