// Package particles implements a pooled particle simulation engine: fixed
// capacity particle pools with swap-and-pop recycling, keyframe gradient
// tracks with per-particle cursors, polymorphic emitter shapes, fractional
// emission scheduling and death-triggered sub-emitter cascades.
//
// The engine is single threaded: one Tick call fully emits, ages and retires
// particles before returning. Rendering is external; renderers consume the
// packed active sequence exposed by System.ActiveParticles.
package particles

import "gonum.org/v1/gonum/spatial/r3"

// Color4 is an RGBA color with float64 channels, nominally in [0, 1].
type Color4 struct {
	R, G, B, A float64
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color4, t float64) Color4 {
	return Color4{
		R: lerp(a.R, b.R, t),
		G: lerp(a.G, b.G, t),
		B: lerp(a.B, b.B, t),
		A: lerp(a.A, b.A, t),
	}
}

// trackCursor caches a particle's position within one scalar track: the
// bracketing key pair it is currently between, and the concrete values rolled
// for those two keys. Sampling re-rolls only when the pair changes, so two
// particles sharing a track follow independent trajectories through any
// range-valued keys.
type trackCursor struct {
	segStart int // index of the bracketing pair's start key, -1 when unbound
	segEnd   int
	from     float64 // concrete value bound at the start key
	to       float64 // concrete value bound at the end key
}

func (c *trackCursor) unbind() {
	c.segStart = -1
	c.segEnd = -1
	c.from = 0
	c.to = 0
}

// colorCursor is the color-track analogue of trackCursor.
type colorCursor struct {
	segStart int
	segEnd   int
	from     Color4
	to       Color4
}

func (c *colorCursor) unbind() {
	c.segStart = -1
	c.segEnd = -1
	c.from = Color4{}
	c.to = Color4{}
}

// Particle is one pool-owned record, reused across lifetimes. A particle is
// either in the pool's packed active sequence (0 <= Age < LifeTime) or in the
// stock awaiting reuse, never both.
type Particle struct {
	// Kinematics
	Position     r3.Vec
	Direction    r3.Vec // velocity; scaled by the tick delta on integration
	Angle        float64
	AngularSpeed float64

	// Lifecycle
	Age      float64
	LifeTime float64

	// Appearance
	Color     Color4
	ColorStep Color4 // per-second linear delta, used only without a color track
	Size      float64
	ScaleX    float64
	ScaleY    float64
	CellIndex int

	// InitialDirection freezes the unit spawn direction when emit power
	// samples to exactly zero, so renderers can still orient the particle
	// instead of working from a degenerate zero-length Direction. The core
	// never reads it back.
	InitialDirection r3.Vec
	DirectionFrozen  bool

	// Gradient cursors, one per consumable track.
	sizeCursor     trackCursor
	angularCursor  trackCursor
	velocityCursor trackCursor
	limitCursor    trackCursor
	colorCursor    colorCursor

	cellClock float64 // sprite animation accumulator, seconds
}

// reset returns the record to its inert spawn-ready state.
func (p *Particle) reset() {
	p.Position = r3.Vec{}
	p.Direction = r3.Vec{}
	p.Angle = 0
	p.AngularSpeed = 0
	p.Age = 0
	p.LifeTime = 0
	p.Color = Color4{}
	p.ColorStep = Color4{}
	p.Size = 0
	p.ScaleX = 1
	p.ScaleY = 1
	p.CellIndex = 0
	p.InitialDirection = r3.Vec{}
	p.DirectionFrozen = false
	p.sizeCursor.unbind()
	p.angularCursor.unbind()
	p.velocityCursor.unbind()
	p.limitCursor.unbind()
	p.colorCursor.unbind()
	p.cellClock = 0
}

// LifeRatio returns Age/LifeTime clamped to [0, 1].
func (p *Particle) LifeRatio() float64 {
	if p.LifeTime <= 0 {
		return 1
	}
	return clamp01(p.Age / p.LifeTime)
}
