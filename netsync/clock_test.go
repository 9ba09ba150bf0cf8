package netsync

import (
	"testing"
	"time"

	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/stretchr/testify/assert"
)

func TestDilationDirection(t *testing.T) {
	c := NewClientClock(netconfig.DefaultSync())

	tests := []struct {
		name       string
		errorTicks float64
		check      func(t *testing.T, d float64)
	}{
		{"client behind speeds up", 2, func(t *testing.T, d float64) { assert.Greater(t, d, 1.0) }},
		{"client ahead slows down", -2, func(t *testing.T, d float64) { assert.Less(t, d, 1.0) }},
		{"inside dead zone", 0.2, func(t *testing.T, d float64) { assert.Equal(t, 1.0, d) }},
		{"negative inside dead zone", -0.5, func(t *testing.T, d float64) { assert.Equal(t, 1.0, d) }},
		{"zero error", 0, func(t *testing.T, d float64) { assert.Equal(t, 1.0, d) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, c.Dilation(tc.errorTicks))
		})
	}

	assert.InDelta(t, 1.3, c.Dilation(2), 1e-9)
	assert.InDelta(t, 0.7, c.Dilation(-2), 1e-9)
}

func TestDilationClamp(t *testing.T) {
	cfg := netconfig.DefaultSync()
	c := NewClientClock(cfg)

	assert.Equal(t, cfg.MinDilation, c.Dilation(-100))
	assert.Equal(t, cfg.MaxDilation, c.Dilation(100))
}

func TestAdvanceNominal(t *testing.T) {
	cfg := netconfig.DefaultSync() // 60 ticks/s, 30 snapshots/s
	c := NewClientClock(cfg)
	c.Set(100)

	// newest = tick - ticksPerSend puts the error at exactly zero
	delta := c.Advance(time.Second/60, cfg.NominalIntervalMS(), 98)

	assert.InDelta(t, 1.0, delta, 1e-6)
	assert.InDelta(t, 101.0, c.Tick(), 1e-6)
	assert.Equal(t, 1.0, c.LastDilation())
	assert.InDelta(t, 101.0-4, c.RenderTick(), 1e-6)
}

func TestAdvanceUsesMeasuredInterval(t *testing.T) {
	cfg := netconfig.DefaultSync()
	c := NewClientClock(cfg)
	c.Set(100)

	// Server actually sends every 50ms instead of 33.3ms, so a 50ms frame is
	// one send interval.
	delta := c.Advance(50*time.Millisecond, 50, 98)
	assert.InDelta(t, 2.0, delta, 1e-6)

	// Zero interval falls back to nominal.
	c.Set(100)
	delta = c.Advance(time.Second/60, 0, 98)
	assert.InDelta(t, 1.0, delta, 1e-6)
}

func TestAdvanceIsMonotonic(t *testing.T) {
	c := NewClientClock(netconfig.DefaultSync())
	c.Set(500)

	prev := c.Tick()
	for i := 0; i < 200; i++ {
		// The server is far behind: maximum slowdown, but never backwards.
		c.Advance(16*time.Millisecond, 33.3, 100)
		assert.Greater(t, c.Tick(), prev)
		prev = c.Tick()
	}

	assert.Equal(t, 0.0, c.Advance(0, 33.3, 100))
	assert.Equal(t, 0.0, c.Advance(-time.Second, 33.3, 100))
}

func TestClockConvergesToServer(t *testing.T) {
	cfg := netconfig.DefaultSync()
	c := NewClientClock(cfg)
	c.Set(90)

	newest := 100.0
	for i := 0; i < 600; i++ {
		c.Advance(time.Second/60, cfg.NominalIntervalMS(), newest)
		// server produces 60 ticks/s as well
		newest += 1
	}

	assert.LessOrEqual(t, c.ErrorTicks(newest), cfg.DeadZoneTicks+1)
	assert.GreaterOrEqual(t, c.ErrorTicks(newest), -cfg.DeadZoneTicks-1)
}

func TestHasIntervalElapsed(t *testing.T) {
	cfg := netconfig.DefaultSync() // 60 ticks per second
	c := NewClientClock(cfg)
	c.Set(58.5)

	c.Advance(time.Second/60, cfg.NominalIntervalMS(), 56.5)
	assert.False(t, c.HasIntervalElapsed(1))

	c.Advance(time.Second/60, cfg.NominalIntervalMS(), 57.5)
	assert.True(t, c.HasIntervalElapsed(1), "crossed tick 60")
	assert.True(t, c.HasIntervalElapsed(0.5), "crossed tick 60 for 30-tick intervals too")
	assert.False(t, c.HasIntervalElapsed(0))

	c.Advance(time.Second/60, cfg.NominalIntervalMS(), 58.5)
	assert.False(t, c.HasIntervalElapsed(1))
}

func TestHoldClearsCrossedInterval(t *testing.T) {
	cfg := netconfig.DefaultSync()
	c := NewClientClock(cfg)
	c.Set(59.5)

	c.Advance(time.Second/60, cfg.NominalIntervalMS(), 59.5)
	assert.True(t, c.HasIntervalElapsed(1))
	before := c.Tick()

	c.Hold()
	assert.False(t, c.HasIntervalElapsed(1))
	assert.Equal(t, before, c.Tick(), "hold does not move the clock")
}
