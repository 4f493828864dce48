package testutil

import (
	"sync"
	"time"

	"github.com/tenwick/lettings/internal/search"
)

// ManualScheduler is a test double for the search package's debounce
// scheduler. Scheduled functions never fire on their own; the test
// decides the moment of quiescence by calling Fire.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualScheduler struct {
	mu        sync.Mutex
	tasks     []*manualTask
	cancelled int
}

type manualTask struct {
	fn        func()
	cancelled bool
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule records fn without starting any timer. The delay is ignored;
// it only matters to production code. The returned cancel func marks the
// task so Fire skips it.
func (s *ManualScheduler) Schedule(_ time.Duration, fn func()) search.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{fn: fn}
	s.tasks = append(s.tasks, task)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !task.cancelled {
			task.cancelled = true
			s.cancelled++
		}
	}
}

// Fire runs every pending non-cancelled task in its own goroutine and
// clears the queue. Goroutines keep blocking store doubles from
// deadlocking the test; callers synchronize on the double itself.
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	pending := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, task := range pending {
		if !task.cancelled {
			go task.fn()
		}
	}
}

// PendingCount returns the number of scheduled, non-cancelled tasks.
func (s *ManualScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, task := range s.tasks {
		if !task.cancelled {
			n++
		}
	}
	return n
}

// CancelledCount returns how many tasks have been cancelled so far.
func (s *ManualScheduler) CancelledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}
