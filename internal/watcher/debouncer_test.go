package watcher

import (
	"testing"
	"time"
)

func TestDebouncer_SingleTrigger(t *testing.T) {
	d := NewDebouncer(50)
	defer d.Stop()

	d.Trigger()

	select {
	case <-d.Events():
	case <-time.After(200 * time.Millisecond):
		t.Error("timed out waiting for notification")
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := NewDebouncer(100)
	defer d.Stop()

	d.Trigger()
	d.Trigger()
	d.Trigger()

	count := 0
	timeout := time.After(300 * time.Millisecond)

loop:
	for {
		select {
		case <-d.Events():
			count++
		case <-timeout:
			break loop
		}
	}

	if count != 1 {
		t.Errorf("expected 1 coalesced notification, got %d", count)
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(5000) // Long debounce
	defer d.Stop()

	d.Trigger()
	d.Flush()

	select {
	case <-d.Events():
	case <-time.After(100 * time.Millisecond):
		t.Error("flush should emit immediately")
	}
}

func TestDebouncer_FlushWithoutPending(t *testing.T) {
	d := NewDebouncer(50)
	defer d.Stop()

	d.Flush()

	select {
	case <-d.Events():
		t.Error("flush with nothing pending should not emit")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StoppedIgnoresTriggers(t *testing.T) {
	d := NewDebouncer(10)
	d.Stop()

	d.Trigger()

	select {
	case <-d.Events():
		t.Error("stopped debouncer should not emit")
	case <-time.After(100 * time.Millisecond):
	}
}
