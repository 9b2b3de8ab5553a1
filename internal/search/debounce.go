package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the input-inactivity window before a query is applied.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays acting on a query until input has been quiet for the
// window. Only the last triggered value fires; Stop cancels any pending
// fire so a torn-down caller never acts on stale input.
type Debouncer struct {
	window time.Duration
	apply  func(query string)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, apply func(query string)) *Debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window, apply: apply}
}

// Trigger schedules apply(query) after the window, replacing any pending
// schedule.
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.apply(query)
		}
	})
}

// Stop cancels any pending fire. Further triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
