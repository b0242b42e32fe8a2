package scanner

import "time"

// Clock abstracts the snapshot timestamp source and the sleep between
// cycles.
type Clock interface {
	Now() time.Time
	Timer(d time.Duration) Timer
}

// Timer fires once on Chan after its duration.
type Timer interface {
	Chan() <-chan time.Time
	Stop() bool
}

// realClock implements Clock using the real time package.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Timer(d time.Duration) Timer {
	return &realTimer{t: time.NewTimer(d)}
}

type realTimer struct {
	t *time.Timer
}

func (r *realTimer) Chan() <-chan time.Time {
	return r.t.C
}

func (r *realTimer) Stop() bool {
	return r.t.Stop()
}
