package logic

import "time"

// Debouncer filters edges on a single digital line.
//
// With a zero window every observation is accepted, which reproduces plain
// edge detection. With a non-zero window the first observation sets the
// baseline, and later observations are accepted only when the level differs
// from the last accepted level and the window has passed since that
// acceptance. A change seen inside the window is remembered as pending so the
// caller can re-read the line once the window expires.
type Debouncer struct {
	window time.Duration

	stable       bool
	lastAccepted time.Time
	baselined    bool
	pending      bool
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Accept reports whether an observation of level at now should be published.
func (d *Debouncer) Accept(level bool, now time.Time) bool {
	if d.window <= 0 {
		d.stable = level
		d.baselined = true
		return true
	}

	if !d.baselined {
		d.stable = level
		d.lastAccepted = now
		d.baselined = true
		return true
	}

	if level == d.stable {
		// Bounced back before the window expired.
		d.pending = false
		return false
	}

	if now.Sub(d.lastAccepted) < d.window {
		d.pending = true
		return false
	}

	d.stable = level
	d.lastAccepted = now
	d.pending = false
	return true
}

// Pending returns how long until a pending change may be accepted. ok is
// false when nothing is pending.
func (d *Debouncer) Pending(now time.Time) (wait time.Duration, ok bool) {
	if !d.pending {
		return 0, false
	}
	wait = d.window - now.Sub(d.lastAccepted)
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// Stable returns the last accepted level.
func (d *Debouncer) Stable() bool { return d.stable }
