package input

import "time"

// Throttle lets through at most one event per interval. Events arriving
// inside the window are coalesced and the latest one is released by Flush
// once the window has passed.
type Throttle struct {
	Interval time.Duration

	last    time.Time
	fired   bool
	pending *Event
}

// Offer returns ev when the window is open, otherwise stores it.
func (t *Throttle) Offer(ev Event) (Event, bool) {
	if !t.fired || ev.At.Sub(t.last) >= t.Interval {
		t.fire(ev.At)
		return ev, true
	}
	t.pending = &ev
	return Event{}, false
}

// Flush releases the stored event when the window has passed by now.
func (t *Throttle) Flush(now time.Time) (Event, bool) {
	if t.pending == nil || now.Sub(t.last) < t.Interval {
		return Event{}, false
	}
	ev := *t.pending
	t.fire(now)
	return ev, true
}

// Drop discards any stored event.
func (t *Throttle) Drop() {
	t.pending = nil
}

func (t *Throttle) fire(at time.Time) {
	t.last = at
	t.fired = true
	t.pending = nil
}
