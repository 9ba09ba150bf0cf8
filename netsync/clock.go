package netsync

import (
	"math"
	"time"

	"github.com/automoto/doomerang-netclient/shared/netconfig"
)

// ClientClock is the fractional client tick, advanced every frame and
// time-dilated towards the newest server tick.
//
// The correction is a proportional controller with a dead zone: errors
// within DeadZoneTicks are ignored so the clock does not chase jitter,
// larger errors scale the advance rate by 1 + DilationGain*error.
type ClientClock struct {
	cfg      netconfig.SyncConfig
	tick     float64
	prevTick float64
	dilation float64
}

func NewClientClock(cfg netconfig.SyncConfig) *ClientClock {
	return &ClientClock{cfg: cfg, dilation: 1}
}

// Set jumps the clock. Only used on bootstrap and resync, never per frame.
func (c *ClientClock) Set(tick float64) {
	c.tick = tick
	c.prevTick = tick
	c.dilation = 1
}

func (c *ClientClock) Tick() float64 {
	return c.tick
}

// RenderTick is the client tick minus the visual delay buffer.
func (c *ClientClock) RenderTick() float64 {
	return c.tick - float64(c.cfg.BufferDepth)*c.cfg.TicksPerSend()
}

// LastDilation is the factor applied by the most recent Advance.
func (c *ClientClock) LastDilation() float64 {
	return c.dilation
}

// ErrorTicks is how far the clock is behind where it should be given the
// newest server tick. By the time a packet is processed another send
// interval has already elapsed server-side, hence the extra TicksPerSend.
func (c *ClientClock) ErrorTicks(newestServerTick float64) float64 {
	return newestServerTick - c.tick + c.cfg.TicksPerSend()
}

// Dilation maps a clock error to a rate multiplier.
func (c *ClientClock) Dilation(errorTicks float64) float64 {
	if math.Abs(errorTicks) <= c.cfg.DeadZoneTicks {
		return 1
	}
	d := 1 + c.cfg.DilationGain*errorTicks
	if c.cfg.MinDilation > 0 && d < c.cfg.MinDilation {
		d = c.cfg.MinDilation
	}
	if c.cfg.MaxDilation > 0 && d > c.cfg.MaxDilation {
		d = c.cfg.MaxDilation
	}
	return d
}

// Advance moves the clock forward by one frame and returns the tick delta.
// measuredIntervalMS is the smoothed wall-clock time between snapshots.
func (c *ClientClock) Advance(frameDelta time.Duration, measuredIntervalMS, newestServerTick float64) float64 {
	c.prevTick = c.tick
	if frameDelta <= 0 {
		return 0
	}
	if measuredIntervalMS <= 0 {
		measuredIntervalMS = c.cfg.NominalIntervalMS()
	}

	c.dilation = c.Dilation(c.ErrorTicks(newestServerTick))

	frameMS := float64(frameDelta) / float64(time.Millisecond)
	delta := frameMS / measuredIntervalMS * c.cfg.TicksPerSend() * c.dilation
	c.tick += delta
	return delta
}

// Hold records a frame in which the clock did not move, so interval
// boundaries crossed by an earlier Advance are not reported again.
func (c *ClientClock) Hold() {
	c.prevTick = c.tick
}

// HasIntervalElapsed reports whether the last frame crossed a boundary of
// an interval of the given length in real-time seconds. Gameplay code uses it
// to throttle periodic effects independently of the tick rate.
func (c *ClientClock) HasIntervalElapsed(seconds float64) bool {
	intervalTicks := seconds * c.cfg.TickRate
	if intervalTicks <= 0 {
		return false
	}
	return math.Floor(c.tick/intervalTicks) != math.Floor(c.prevTick/intervalTicks)
}
