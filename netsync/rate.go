package netsync

import "time"

// RateEstimator keeps an exponential moving average of the wall-clock
// interval between snapshot arrivals.
//
// It is written from the packet handler and read from the frame loop. Both
// run on the frame loop goroutine (packets are handed over through a
// channel), so it is not locked.
type RateEstimator struct {
	intervalMS float64
	alpha      float64
	last       time.Time
	samples    int
}

// NewRateEstimator starts the average at nominalMS and smooths over an
// N-sample window (a = 2/(N+1)).
func NewRateEstimator(nominalMS float64, window int) *RateEstimator {
	if window < 1 {
		window = 1
	}
	return &RateEstimator{
		intervalMS: nominalMS,
		alpha:      2 / (float64(window) + 1),
	}
}

// Observe records an arrival at the given time and returns the delta that
// was folded into the average. The first arrival only sets the baseline.
func (r *RateEstimator) Observe(at time.Time) (deltaMS float64, ok bool) {
	if r.last.IsZero() {
		r.last = at
		return 0, false
	}
	deltaMS = float64(at.Sub(r.last)) / float64(time.Millisecond)
	r.last = at
	if deltaMS <= 0 {
		return deltaMS, false
	}
	r.intervalMS = r.intervalMS*(1-r.alpha) + deltaMS*r.alpha
	r.samples++
	return deltaMS, true
}

// Reset moves the baseline so the next arrival is measured from at.
func (r *RateEstimator) Reset(at time.Time) {
	r.last = at
}

func (r *RateEstimator) IntervalMS() float64 {
	return r.intervalMS
}

func (r *RateEstimator) Samples() int {
	return r.samples
}

// LastArrival is the current delta baseline.
func (r *RateEstimator) LastArrival() time.Time {
	return r.last
}
