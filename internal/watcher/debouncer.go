package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid change notifications into one event. State
// file rewrites often arrive as a burst (truncate, write, rename); the
// dashboard only needs to redraw once per burst.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timer   *time.Timer
	output  chan time.Time
	stopped bool
}

// NewDebouncer creates a debouncer with the given delay
func NewDebouncer(delayMs int) *Debouncer {
	return &Debouncer{
		delay:  time.Duration(delayMs) * time.Millisecond,
		output: make(chan time.Time, 1),
	}
}

// Events returns the channel of debounced notifications
func (d *Debouncer) Events() <-chan time.Time {
	return d.output
}

// Trigger records a change. The notification fires once the delay
// elapses without another trigger.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.emit)
}

func (d *Debouncer) emit() {
	d.mu.Lock()
	stopped := d.stopped
	d.timer = nil
	d.mu.Unlock()

	if stopped {
		return
	}

	select {
	case d.output <- time.Now():
	default:
		// A notification is already pending; one redraw covers both.
	}
}

// Flush immediately emits a pending notification, if any
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil
	if pending {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if pending {
		select {
		case d.output <- time.Now():
		default:
		}
	}
}

// Stop stops the debouncer; further triggers are ignored
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
