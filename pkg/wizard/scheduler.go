package wizard

import "time"

// Timer is the handle returned by a Scheduler. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d elapses. Sessions use it for the
// self-clearing validation notice so tests can control time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler returns the Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler {
	return realScheduler{}
}
