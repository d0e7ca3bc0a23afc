package core

import "time"

// Throttle lets an action run at most once per interval. Callers pass the
// current time so the schedule can be driven from a game loop or a test.
type Throttle struct {
	interval time.Duration
	last     time.Time
}

// NewThrottle returns a Throttle with the given interval. A non-positive
// interval disables the throttle.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Interval returns the configured interval.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Ready reports whether the interval has elapsed since the last firing and,
// if so, records now as the new firing time. The first call only arms the
// throttle.
func (t *Throttle) Ready(now time.Time) bool {
	if t.interval <= 0 {
		return false
	}
	if t.last.IsZero() {
		t.last = now
		return false
	}
	if now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset re-arms the throttle from now.
func (t *Throttle) Reset(now time.Time) { t.last = now }
