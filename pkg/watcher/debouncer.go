// Package watcher provides debouncing and file watching with fallback polling.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// DebounceOptions selects which edges of a burst invoke the callback.
// The zero value behaves like Trailing: true.
type DebounceOptions struct {
	Leading  bool
	Trailing bool
}

// Debouncer coalesces rapid triggers into at most two callback invocations
// per burst: one on the leading edge (if enabled) and one after the burst
// settles (if enabled and at least one trigger arrived after the leading call).
type Debouncer struct {
	duration time.Duration
	fn       func()
	leading  bool
	trailing bool

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending bool // a burst is in progress
	queued  bool // a trigger arrived that the trailing edge still owes
}

// NewDebouncer creates a Debouncer that invokes fn.
// If duration is 0, DefaultDebounceDuration is used.
func NewDebouncer(duration time.Duration, fn func(), opts DebounceOptions) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	if !opts.Leading && !opts.Trailing {
		opts.Trailing = true
	}
	return &Debouncer{
		duration: duration,
		fn:       fn,
		leading:  opts.Leading,
		trailing: opts.Trailing,
	}
}

// Trigger records one event. Leading calls run on the caller's goroutine;
// trailing calls run on a timer goroutine.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	runNow := false
	if !d.pending {
		d.pending = true
		if d.leading {
			runNow = true
		} else {
			d.queued = true
		}
	} else {
		d.queued = true
	}
	d.schedule()
	d.mu.Unlock()

	if runNow {
		d.fn()
	}
}

// schedule (re)starts the wait timer. Caller holds d.mu.
func (d *Debouncer) schedule() {
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		shouldRun := func() bool {
			d.mu.Lock()
			defer d.mu.Unlock()

			// Only the most recently scheduled timer may settle the burst. Stop()
			// returns false once a timer has fired, so stale timers check seq.
			if seq != d.seq {
				return false
			}
			run := d.trailing && d.queued
			d.timer = nil
			d.pending = false
			d.queued = false
			return run
		}()
		if !shouldRun {
			return
		}

		d.fn()
	})
}

// Cancel drops any pending trailing call and resets the debouncer to idle.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Invalidate any callback that might already be executing due to timer races.
	d.seq++
	d.pending = false
	d.queued = false

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a burst is in progress.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
