package trip

import (
	"sync"
	"testing"
	"time"
)

// fakeClock fires timers only from Advance, in deadline order, on the
// calling goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func TestScheduler_FiresInOrder(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	var got []string
	s.Schedule(2*time.Second, func() { got = append(got, "second") })
	s.Schedule(time.Second, func() { got = append(got, "first") })

	clock.Advance(1500 * time.Millisecond)
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("after 1.5s got %v", got)
	}
	clock.Advance(time.Second)
	if len(got) != 2 || got[1] != "second" {
		t.Fatalf("after 2.5s got %v", got)
	}
	if s.Pending() != 0 {
		t.Fatalf("Pending = %d, want 0", s.Pending())
	}
}

func TestScheduler_NoCallbackAfterStop(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	fired := 0
	s.Schedule(time.Second, func() { fired++ })
	s.Schedule(3*time.Second, func() { fired++ })
	s.Stop()
	s.Stop()

	if s.Schedule(time.Millisecond, func() { fired++ }) {
		t.Fatal("Schedule after Stop should report false")
	}
	clock.Advance(time.Minute)
	if fired != 0 {
		t.Fatalf("%d callbacks ran after Stop", fired)
	}
	if !s.Stopped() || s.Pending() != 0 {
		t.Fatalf("stopped=%v pending=%d", s.Stopped(), s.Pending())
	}
}

func TestScheduler_StopFromCallback(t *testing.T) {
	clock := newFakeClock()
	s := NewScheduler(clock)

	fired := 0
	s.Schedule(time.Second, func() {
		fired++
		s.Stop()
	})
	s.Schedule(2*time.Second, func() { fired++ })

	clock.Advance(5 * time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}

func TestScheduler_RealClockStop(t *testing.T) {
	s := NewScheduler(RealClock{})
	done := make(chan struct{}, 1)
	s.Schedule(20*time.Millisecond, func() { done <- struct{}{} })
	s.Stop()

	select {
	case <-done:
		t.Fatal("timer fired after Stop")
	case <-time.After(80 * time.Millisecond):
	}
}
