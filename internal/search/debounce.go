package search

import (
	"sync"
	"time"
)

// Debouncer runs a function once a burst of calls has gone quiet.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the debounce duration. A call made before the
// previous one fired replaces it. The return value reports whether a pending
// call was replaced.
func (d *Debouncer) Debounce(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := false
	if d.timer != nil {
		replaced = d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
	return replaced
}

// Cancel stops any pending call and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Immediate cancels any pending call and runs fn on the caller's goroutine.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}
