package interact

import "time"

// Clock abstracts wall time and timer scheduling so the click settle
// window can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn after d and returns a handle that can
	// cancel it. fn may run on another goroutine, as time.AfterFunc
	// does; the controller serializes itself internally.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop cancels the call. It reports whether the call was still
	// pending.
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
