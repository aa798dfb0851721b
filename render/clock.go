package render

import "time"

// clock tracks frame timing for the render loop: elapsed seconds since
// start and the delta since the previous update.
type clock struct {
	start time.Time
	last  time.Time
}

func newClock() *clock {
	now := time.Now()
	return &clock{start: now, last: now}
}

// update advances the clock and returns (elapsed, delta) in seconds.
func (c *clock) update() (elapsed, delta float64) {
	now := time.Now()
	elapsed = now.Sub(c.start).Seconds()
	delta = now.Sub(c.last).Seconds()
	c.last = now
	return elapsed, delta
}
