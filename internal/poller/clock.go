package poller

import "time"

// Clock abstracts timer scheduling so polling is testable without real
// waits. The production clock delegates to time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled callback
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// timer was stopped before firing.
	Stop() bool
}

type realClock struct{}

// NewRealClock returns the wall-clock implementation
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
