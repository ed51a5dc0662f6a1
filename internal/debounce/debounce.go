// Package debounce delays an action until input settles.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs only the most recently triggered function, once, after
// the delay has passed without another Trigger.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	gen     uint64
}

// New creates a debouncer. A delay of zero or less runs functions immediately.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the configured delay
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger replaces the pending function and restarts the delay.
// With no delay fn runs on the caller's goroutine.
func (d *Debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		d.Stop()
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen || d.pending == nil {
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.pending = nil
		d.mu.Unlock()
		run()
	})
}

// Flush runs the pending function now. It reports whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	run := d.take()
	d.mu.Unlock()
	if run == nil {
		return false
	}
	run()
	return true
}

// Stop drops the pending function without running it
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.take()
	d.mu.Unlock()
}

// Pending reports whether a function is waiting to run
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	run := d.pending
	d.pending = nil
	return run
}
