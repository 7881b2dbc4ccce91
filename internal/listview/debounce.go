package listview

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period after the last keystroke before a
// search is emitted.
const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer collapses a burst of text inputs into one emitted value. Only the
// latest value of a burst is emitted; earlier ones are dropped, never queued.
type Debouncer struct {
	quiet time.Duration
	emit  func(string)

	// emitMu is held across emit and taken before mu, so a value is chosen
	// and emitted without another emit in between.
	emitMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending string
	stopped bool
}

// NewDebouncer returns a Debouncer calling emit after quiet has passed with no
// further input. emit runs on its own goroutine.
func NewDebouncer(quiet time.Duration, emit func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultSearchDebounce
	}
	return &Debouncer{quiet: quiet, emit: emit}
}

// Input records text as the latest value and restarts the quiet period.
func (d *Debouncer) Input(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	gen := d.gen
	d.pending = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen) })
}

// Flush emits text immediately and discards anything pending.
func (d *Debouncer) Flush(text string) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()
	d.mu.Unlock()
	d.emit(text)
}

// Clear emits the empty search immediately.
func (d *Debouncer) Clear() {
	d.Flush("")
}

// Pending reports whether a value is waiting for its quiet period to end.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop drops any pending value. Later inputs are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
}

func (d *Debouncer) fire(gen uint64) {
	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	text := d.pending
	d.timer = nil
	d.pending = ""
	d.mu.Unlock()
	d.emit(text)
}
