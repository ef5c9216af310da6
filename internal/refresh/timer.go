// Package refresh drives periodic re-fetching of the view a client is
// looking at.
package refresh

import (
	"sync"
	"time"
)

// Timer fires a callback on a fixed interval. Each owner (one websocket
// connection, in practice) holds at most one running timer: starting again
// replaces the previous schedule instead of stacking a second one. Stop is
// idempotent and safe after the timer has already stopped.
type Timer struct {
	interval time.Duration
	tick     func()

	mu       sync.Mutex
	cancel   chan struct{}
	running  bool
	ticks    int
	inFlight sync.WaitGroup
}

func NewTimer(interval time.Duration, tick func()) *Timer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Timer{interval: interval, tick: tick}
}

// Start begins the periodic schedule. A running timer is restarted, so the
// first tick after Start is always one full interval away.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		close(t.cancel)
	}
	t.cancel = make(chan struct{})
	t.running = true

	go t.loop(t.cancel)
}

func (t *Timer) loop(cancel chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			t.mu.Lock()
			if !t.running || t.cancel != cancel {
				t.mu.Unlock()
				return
			}
			// Registered under the lock, so Stop either sees this tick in
			// flight and waits for it, or the running check above bails out.
			t.ticks++
			t.inFlight.Add(1)
			t.mu.Unlock()
			t.tick()
			t.inFlight.Done()
		}
	}
}

// Stop halts the schedule and waits for any in-flight callback, so no tick
// fires after Stop returns. Must not be called from inside the callback.
func (t *Timer) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	close(t.cancel)
	t.running = false
	t.mu.Unlock()

	t.inFlight.Wait()
}

// Running reports whether the schedule is active.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Ticks returns how many times the callback has fired since creation.
func (t *Timer) Ticks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}
