package telemetry

import "github.com/pthm-cable/cinder/particles"

// Collector turns the cumulative lifecycle counters of a particle system
// into windowed statistics. It keeps the previous snapshot and diffs on
// flush, so the core stays free of telemetry bookkeeping.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32
	prev            particles.Counters
}

// NewCollector creates a collector that flushes a window every
// windowDurationSec of simulated time at the given tick step.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

// Flush produces a WindowStats for the window ending at currentTick and
// advances the window. Counters are read from the system's cascade root, so
// child spawns anywhere in the cascade are visible; age and size
// distributions are sampled from the root system's live particles only.
func (c *Collector) Flush(currentTick int32, sys *particles.System) WindowStats {
	cur := sys.CountersSnapshot()

	spawned := int(cur.Spawned - c.prev.Spawned)
	retired := int(cur.Retired - c.prev.Retired)
	truncated := int(cur.Truncated - c.prev.Truncated)
	childSpawns := int(cur.ChildSpawns - c.prev.ChildSpawns)

	var truncationRate float64
	if requested := spawned + truncated; requested > 0 {
		truncationRate = float64(truncated) / float64(requested)
	}

	active := sys.ActiveParticles()
	ages := make([]float64, 0, len(active))
	sizes := make([]float64, 0, len(active))
	for _, p := range active {
		ages = append(ages, p.Age)
		sizes = append(sizes, p.Size)
	}
	ageDist := Summarize(ages)
	sizeDist := Summarize(sizes)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		ActiveParticles: sys.ActiveCount(),
		PoolCapacity:    sys.Capacity(),
		ChildSystems:    sys.ChildCount(),

		Spawned:     spawned,
		Retired:     retired,
		Truncated:   truncated,
		ChildSpawns: childSpawns,

		TruncationRate: truncationRate,

		AgeMean: ageDist.Mean,
		AgeStd:  ageDist.Std,
		AgeP10:  ageDist.P10,
		AgeP50:  ageDist.P50,
		AgeP90:  ageDist.P90,

		SizeMean: sizeDist.Mean,
		SizeStd:  sizeDist.Std,
	}

	c.windowStartTick = currentTick
	c.prev = cur
	return stats
}
