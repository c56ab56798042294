// Package clock measures level run time in wall-clock terms, independent of
// the physics frame count.
package clock

import (
	"fmt"
	"time"
)

// MinInterval is the smallest gap between two recomputations of the cached
// elapsed time.
const MinInterval = 16 * time.Millisecond

// Source returns the current time.
type Source func() time.Time

// Clock is a pausable stopwatch. The zero value is not usable; call New.
type Clock struct {
	now Source

	start      time.Time
	pauseStart time.Time
	paused     time.Duration
	lastUpdate time.Time

	running  bool
	isPaused bool
	elapsed  time.Duration
}

// New creates a stopped clock. A nil source uses time.Now.
func New(src Source) *Clock {
	if src == nil {
		src = time.Now
	}
	return &Clock{now: src}
}

// Start begins timing. It does nothing if the clock is already running.
func (c *Clock) Start() {
	if c.running {
		return
	}
	c.start = c.now()
	c.lastUpdate = c.start
	c.running = true
}

// Update refreshes the cached elapsed time, at most once per MinInterval.
func (c *Clock) Update() {
	if !c.running || c.isPaused {
		return
	}
	now := c.now()
	if now.Sub(c.lastUpdate) < MinInterval {
		return
	}
	c.recompute(now)
}

func (c *Clock) recompute(now time.Time) {
	c.elapsed = now.Sub(c.start) - c.paused
	c.lastUpdate = now
}

// Pause stops accumulating time until Resume.
func (c *Clock) Pause() {
	if !c.running || c.isPaused {
		return
	}
	c.pauseStart = c.now()
	c.isPaused = true
}

// Resume continues a paused clock.
func (c *Clock) Resume() {
	if !c.running || !c.isPaused {
		return
	}
	c.paused += c.now().Sub(c.pauseStart)
	c.isPaused = false
}

// Stop freezes the clock and returns the final elapsed time. Stopping a clock
// that is not running returns zero.
func (c *Clock) Stop() time.Duration {
	if !c.running {
		return 0
	}
	now := c.now()
	if c.isPaused {
		now = c.pauseStart
	}
	c.recompute(now)
	c.running = false
	c.isPaused = false
	return c.elapsed
}

// Reset returns the clock to its initial stopped state.
func (c *Clock) Reset() {
	*c = Clock{now: c.now}
}

// Elapsed returns the cached elapsed time, refreshing it first while running.
func (c *Clock) Elapsed() time.Duration {
	c.Update()
	return c.elapsed
}

// Running reports whether the clock has been started and not stopped.
func (c *Clock) Running() bool { return c.running }

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.isPaused }

// String renders the current elapsed time.
func (c *Clock) String() string {
	return Format(c.Elapsed())
}

// Format renders d as MM:SS.mmm. Minutes do not wrap.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}
