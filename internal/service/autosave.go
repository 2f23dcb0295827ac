package service

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one invocation of fn after a
// quiet period. Typing into the notes editor schedules a save on every
// keystroke; only the last one in the burst actually runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

// NewDebouncer creates a debouncer that runs fn delay after the most
// recent Schedule call.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Schedule arms (or re-arms) the timer. Each call pushes the invocation
// out by the full delay.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

// Flush cancels any pending timer and, if one was pending, runs fn
// synchronously. Used before tab switches and shutdown so no edit is
// left sitting in the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()

	if pending {
		d.fn()
	}
}

// Stop cancels any pending invocation without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
