// Package debounce provides restartable quiet-period timers: only the last
// of a burst of triggers runs.
package debounce

import (
	"sync"
	"time"
)

// Dispatcher hands a fired callback to the goroutine that owns the state it
// touches. Nil runs the callback on the timer goroutine.
type Dispatcher func(func())

// Debouncer runs the most recently triggered func once the source has been
// quiet for delay.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	clock    Clock
	dispatch Dispatcher
	timer    Timer
	fn       func()
	gen      uint64
}

func New(delay time.Duration, clock Clock, dispatch Dispatcher) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &Debouncer{delay: delay, clock: clock, dispatch: dispatch}
}

// Trigger cancels any pending run and schedules fn after a fresh quiet
// period. It reports whether a pending run was replaced.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := d.cancelLocked()
	d.fn = fn
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.dispatch(func() { d.fire(gen) })
	})
	return replaced
}

// Cancel drops the pending run, if any.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.cancelLocked()
}

// Flush runs the pending func immediately on the caller's goroutine.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.fn
	d.cancelLocked()
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.fn != nil
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// fire runs fn if no trigger, cancel or flush happened since generation gen
// was scheduled. A timer that already fired cannot be stopped, so the
// generation is what drops it.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) cancelLocked() bool {
	pending := d.fn != nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.fn = nil
	d.gen++
	return pending
}
