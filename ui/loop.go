package ui

import (
	"sync"
	"time"
)

// Loop serializes everything that touches one page: each Do call runs to
// completion before the next starts. Do must not be called from inside
// another Do on the same Loop.
type Loop struct {
	mu sync.Mutex
}

func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Scheduler runs fn once after d. The returned stop function cancels a
// pending run and reports whether it did so.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// TimerScheduler runs callbacks on the loop after a wall-clock delay.
type TimerScheduler struct {
	loop *Loop
}

func NewTimerScheduler(loop *Loop) *TimerScheduler {
	return &TimerScheduler{loop: loop}
}

func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { s.loop.Do(fn) })
	return t.Stop
}
