package search

import "time"

// CancelFunc cancels a scheduled task. Calling it after the task has
// fired is a no-op.
type CancelFunc func()

// Scheduler schedules a function to run once after a delay. The session
// keeps at most one pending schedule per logical intent: a new criteria
// change always cancels and reschedules rather than stacking timers.
// Cancellation on supersede and cancellation on close share this one
// code path.
//
// The production implementation uses the runtime timer; tests substitute
// a manual scheduler to drive the debounce deterministically.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) CancelFunc
}

// TimerScheduler is the production Scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
