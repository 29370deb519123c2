// Package uitest provides a manually driven Scheduler for tests.
package uitest

import (
	"sync"
	"time"
)

// ManualScheduler queues callbacks until the test fires them.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*task
}

type task struct {
	delay   time.Duration
	fn      func()
	done    bool
	stopped bool
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &task{delay: d, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.done || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// Fire runs every callback queued so far that is neither stopped nor run,
// and returns how many ran. Callbacks queued while firing wait for the next
// call.
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	var due []*task
	for _, t := range s.tasks {
		if !t.done && !t.stopped {
			t.done = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending returns the delays of callbacks waiting to run.
func (s *ManualScheduler) Pending() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, t := range s.tasks {
		if !t.done && !t.stopped {
			out = append(out, t.delay)
		}
	}
	return out
}
