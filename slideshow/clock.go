package slideshow

import "time"

// Timer is a single-shot timer that can be cancelled
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped a pending timer.
	Stop() bool
}

// Clock schedules single-shot callbacks. The real implementation wraps
// time.AfterFunc; tests substitute a manually fired clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
