// README: Clock abstraction and per-trip cancellable timer scheduler.
package trip

import (
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler owns the pending timers of one trip. Once Stop returns, no
// callback that has not already started will run.
type Scheduler struct {
	clock Clock

	mu      sync.Mutex
	stopped bool
	seq     int
	timers  map[int]Timer
}

func NewScheduler(clock Clock) *Scheduler {
	return &Scheduler{clock: clock, timers: make(map[int]Timer)}
}

// Schedule runs f after d. It reports false if the scheduler is stopped.
func (s *Scheduler) Schedule(d time.Duration, f func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	id := s.seq
	s.seq++
	s.timers[id] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()
		f()
	})
	return true
}

// Stop cancels every pending timer. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
