package telemetry

import (
	"math"

	"github.com/pthm-cable/backdrop/components"
)

// Collector accumulates events within frame windows and produces WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int64
	dt                   float64

	windowStartFrame int64

	spawned  [components.NumKinds]int
	expired  [components.NumKinds]int
	bursts   int
	rebuilds int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each window lasts in simulated seconds
// dt: seconds per frame
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	frames := int64(math.Round(windowDurationSec / dt))
	if frames < 1 {
		frames = 1
	}
	return &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: frames,
		dt:                   dt,
	}
}

// RecordSpawn records n particles of kind added to a store.
func (c *Collector) RecordSpawn(kind components.Kind, n int) {
	if c == nil || int(kind) >= len(c.spawned) {
		return
	}
	c.spawned[kind] += n
}

// RecordExpired records n particles of kind removed by expiry.
func (c *Collector) RecordExpired(kind components.Kind, n int) {
	if c == nil || int(kind) >= len(c.expired) {
		return
	}
	c.expired[kind] += n
}

// RecordBurst records a click burst.
func (c *Collector) RecordBurst() {
	if c == nil {
		return
	}
	c.bursts++
}

// RecordRebuild records a grid rebuild.
func (c *Collector) RecordRebuild() {
	if c == nil {
		return
	}
	c.rebuilds++
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowDurationFrames
}

// Sample is the simulator state captured at window end.
type Sample struct {
	PhysicsLives     []float64
	LiquidLives      []float64
	GridPoints       int
	GridDisplacement float64
	Commands         int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(frame int64, s Sample) WindowStats {
	physMean, _, physP50, _ := ComputeLifeStats(s.PhysicsLives)
	liqMean, _, liqP50, _ := ComputeLifeStats(s.LiquidLives)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		SimTimeSec:       float64(frame) * c.dt,

		PhysicsCount: len(s.PhysicsLives),
		LiquidCount:  len(s.LiquidLives),
		GridPoints:   s.GridPoints,

		PhysicsSpawned: c.spawned[components.KindPhysics],
		LiquidSpawned:  c.spawned[components.KindLiquid],
		PhysicsExpired: c.expired[components.KindPhysics],
		LiquidExpired:  c.expired[components.KindLiquid],
		Bursts:         c.bursts,
		GridRebuilds:   c.rebuilds,

		PhysicsLifeMean: physMean,
		PhysicsLifeP50:  physP50,
		LiquidLifeMean:  liqMean,
		LiquidLifeP50:   liqP50,

		GridDisplacement: s.GridDisplacement,
		Commands:         s.Commands,
	}

	c.windowStartFrame = frame
	c.spawned = [components.NumKinds]int{}
	c.expired = [components.NumKinds]int{}
	c.bursts = 0
	c.rebuilds = 0

	return stats
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int64 {
	return c.windowDurationFrames
}
