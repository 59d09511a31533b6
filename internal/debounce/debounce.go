// Package debounce coalesces bursts of values into a single emission of the
// latest value once the input has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// Debouncer emits the most recent pushed value after delay has elapsed with
// no newer push. It is safe for concurrent use and may be reused after an
// emission or a Cancel.
type Debouncer[T any] struct {
	timer *time.Timer
	emit  func(T)
	delay time.Duration
	gen   uint64
	mu    sync.Mutex
}

// New returns a debouncer that calls emit on its own goroutine.
func New[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		emit:  emit,
	}
}

// Push records v and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen, v)
	})
}

// Cancel drops any pending value without emitting it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a value is waiting for its quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Delay returns the configured quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// fire emits v unless a newer push or a cancel happened after it was
// scheduled. Stop cannot recall a timer whose func already started, so the
// generation check is what guarantees superseded values never escape.
func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.emit(v)
}
