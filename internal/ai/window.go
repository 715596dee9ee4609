package ai

import "time"

const (
	DefaultMaxRequests = 10
	DefaultPeriod      = 60 * time.Second
)

// Window is a sliding window request limiter. It is not safe for concurrent
// use on its own; Client serializes access.
type Window struct {
	max    int
	period time.Duration
	stamps []time.Time
	now    func() time.Time
}

func NewWindow(maxRequests int, period time.Duration) *Window {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Window{
		max:    maxRequests,
		period: period,
		stamps: make([]time.Time, 0, maxRequests),
		now:    time.Now,
	}
}

// Allow records a request and reports whether it fits in the window.
func (w *Window) Allow() bool {
	now := w.trim()
	if len(w.stamps) >= w.max {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}

// Full reports whether the next Allow would be denied without recording anything.
func (w *Window) Full() bool {
	w.trim()
	return len(w.stamps) >= w.max
}

func (w *Window) Len() int {
	return len(w.stamps)
}

func (w *Window) trim() time.Time {
	now := w.now()
	cutoff := now.Add(-w.period)
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[i:]...)
	}
	return now
}
