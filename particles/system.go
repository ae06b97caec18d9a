package particles

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// BlendMode selects how a renderer composites particles. The core only
// carries it through configuration.
type BlendMode int

const (
	BlendStandard BlendMode = iota // source-over alpha
	BlendAdd                       // additive with source alpha
	BlendOneOne                    // additive ignoring alpha
	BlendMultiply
)

// Default simulation parameters applied by NewSystem.
const (
	DefaultEmitRate    = 10.0
	DefaultUpdateSpeed = 1.0
	DefaultPreWarmStep = 1.0 / 60.0
)

// System owns one particle pool, one emission scheduler, the gradient tracks,
// an emitter shape and the sub-emitter cascade, and exposes the
// start/stop/tick lifecycle. All randomized min/max knobs sample uniformly
// over [min, max).
//
// Configuration fields may be set freely before Start. A System is not safe
// for concurrent use; one Tick fully emits, ages and retires before
// returning.
type System struct {
	Name string

	// Emission
	EmitRate     float64
	MinEmitPower float64
	MaxEmitPower float64
	MinLifeTime  float64
	MaxLifeTime  float64

	// Appearance ranges, sampled once per spawn.
	MinSize            float64
	MaxSize            float64
	MinScaleX          float64
	MaxScaleX          float64
	MinScaleY          float64
	MaxScaleY          float64
	MinAngularSpeed    float64
	MaxAngularSpeed    float64
	MinInitialRotation float64
	MaxInitialRotation float64

	// Spawn color is drawn between Color1 and Color2; without a color track
	// the particle then fades linearly toward ColorDead over its life.
	Color1    Color4
	Color2    Color4
	ColorDead Color4

	Gravity r3.Vec
	Frame   Frame // emitter world transform

	// Limit-velocity damping factor applied when a sampled cap is exceeded.
	LimitVelocityDamping float64

	// Lifecycle
	UpdateSpeed        float64 // scales every tick delta
	TargetStopDuration float64 // seconds of emission before auto-stop; 0 = unbounded
	PreWarmCycles      int     // silent ticks run by Start
	PreWarmStep        float64 // dt per pre-warm tick
	DisposeOnStop      bool    // dispose once stopped and drained

	Blend BlendMode

	// Sprite sheet animation.
	AnimateSprite         bool
	StartSpriteCell       int
	EndSpriteCell         int
	SpriteCellChangeSpeed float64 // cells per second
	SpriteCellLoop        bool

	// Gradient tracks. An empty track is inactive and the corresponding
	// fixed/range behavior applies.
	LifeTimeTrack      ScalarTrack
	SizeTrack          ScalarTrack
	AngularSpeedTrack  ScalarTrack
	VelocityTrack      ScalarTrack
	LimitVelocityTrack ScalarTrack
	ColorTrack         ColorTrack

	// Shape seeds spawn position and direction; the optional override
	// functions take precedence over the shape when non-nil.
	Shape            Shape
	StartPositionFn  func(f Frame, rng *rand.Rand) r3.Vec
	StartDirectionFn func(f Frame, pos r3.Vec, rng *rand.Rand) r3.Vec

	// Noise displacement. Nil field disables the step.
	Noise         NoiseField
	NoiseStrength r3.Vec

	// SubEmitters are templates cloned at a dying particle's position; the
	// clones are owned by the root system's children set.
	SubEmitters []*System

	// OnAnimationEnd fires exactly once when a stopped system's active count
	// reaches zero. OnDispose fires exactly once on disposal.
	OnAnimationEnd func()
	OnDispose      func()

	pool     *Pool
	sched    *Scheduler
	rng      *rand.Rand
	seed     int64
	counters Counters

	age      float64
	started  bool
	stopped  bool
	endFired bool
	disposed bool

	// Cascade bookkeeping: children only on the root, back-reference on the
	// clones (non-owning).
	root     *System
	children []*System
}

// NewSystem creates a system with the given fixed pool capacity and RNG
// seed, with engine defaults applied.
func NewSystem(name string, capacity int, seed int64) (*System, error) {
	pool, err := NewPool(capacity)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", name, err)
	}
	return &System{
		Name:         name,
		EmitRate:     DefaultEmitRate,
		MinEmitPower: 1,
		MaxEmitPower: 1,
		MinLifeTime:  1,
		MaxLifeTime:  1,
		MinSize:      1,
		MaxSize:      1,
		MinScaleX:    1,
		MaxScaleX:    1,
		MinScaleY:    1,
		MaxScaleY:    1,
		Color1:       Color4{R: 1, G: 1, B: 1, A: 1},
		Color2:       Color4{R: 1, G: 1, B: 1, A: 1},
		ColorDead:    Color4{},
		Frame:        IdentityFrame(r3.Vec{}),
		UpdateSpeed:  DefaultUpdateSpeed,
		PreWarmStep:  DefaultPreWarmStep,
		Shape:        &BoxShape{Direction1: r3.Vec{Y: 1}, Direction2: r3.Vec{Y: 1}},
		pool:         pool,
		sched:        NewScheduler(),
		rng:          rand.New(rand.NewSource(seed)),
		seed:         seed,
	}, nil
}

// Validate checks the caller-supplied configuration. Invalid configuration
// is reported here, at construction/start time, rather than producing
// undefined behavior mid-simulation.
func (s *System) Validate() error {
	type span struct {
		name     string
		min, max float64
	}
	for _, r := range []span{
		{"life_time", s.MinLifeTime, s.MaxLifeTime},
		{"emit_power", s.MinEmitPower, s.MaxEmitPower},
		{"size", s.MinSize, s.MaxSize},
		{"scale_x", s.MinScaleX, s.MaxScaleX},
		{"scale_y", s.MinScaleY, s.MaxScaleY},
		{"angular_speed", s.MinAngularSpeed, s.MaxAngularSpeed},
		{"initial_rotation", s.MinInitialRotation, s.MaxInitialRotation},
	} {
		if r.min > r.max {
			return fmt.Errorf("system %q: %s range min %g > max %g", s.Name, r.name, r.min, r.max)
		}
	}
	if s.EmitRate < 0 {
		return fmt.Errorf("system %q: emit rate %g < 0", s.Name, s.EmitRate)
	}
	if s.UpdateSpeed <= 0 {
		return fmt.Errorf("system %q: update speed %g <= 0", s.Name, s.UpdateSpeed)
	}
	for name, keys := range map[string][]float64{
		"life_time_track":      trackPositions(&s.LifeTimeTrack),
		"size_track":           trackPositions(&s.SizeTrack),
		"angular_speed_track":  trackPositions(&s.AngularSpeedTrack),
		"velocity_track":       trackPositions(&s.VelocityTrack),
		"limit_velocity_track": trackPositions(&s.LimitVelocityTrack),
		"color_track":          colorTrackPositions(&s.ColorTrack),
	} {
		for _, pos := range keys {
			if pos < 0 || pos > 1 {
				return fmt.Errorf("system %q: %s key position %g outside [0, 1]", s.Name, name, pos)
			}
		}
	}
	return nil
}

func trackPositions(t *ScalarTrack) []float64 {
	out := make([]float64, 0, t.Len())
	for _, k := range t.Keys() {
		out = append(out, k.Pos)
	}
	return out
}

func colorTrackPositions(t *ColorTrack) []float64 {
	out := make([]float64, 0, t.Len())
	for _, k := range t.Keys() {
		out = append(out, k.Pos)
	}
	return out
}

// Start validates the configuration, flips the system to running and runs
// any configured pre-warm cycles. Pre-warm ticks simulate at PreWarmStep
// without render side effects, so the first visible frame already shows
// steady state.
func (s *System) Start() error {
	if s.disposed {
		return fmt.Errorf("system %q: start after dispose", s.Name)
	}
	if s.started {
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s.started = true
	s.stopped = false
	s.endFired = false
	for i := 0; i < s.PreWarmCycles; i++ {
		s.Tick(s.PreWarmStep)
	}
	return nil
}

// Stop halts new emission; in-flight particles continue aging to natural
// death. When stopChildren is set, every active child system of this
// system's cascade is stopped as well and the children set is cleared.
func (s *System) Stop(stopChildren bool) {
	s.stopped = true
	if stopChildren {
		for _, child := range s.children {
			child.Stop(true)
		}
		s.children = nil
	}
}

// Emit requests exactly count particles on the next tick, overriding the
// rate-based schedule once.
func (s *System) Emit(count int) {
	s.sched.RequestManual(count)
}

// Tick advances the simulation by dt seconds (scaled by UpdateSpeed): emits
// scheduled particles, steps every active particle, retires expired ones
// (triggering the sub-emitter cascade) and advances this system's child
// systems.
func (s *System) Tick(dt float64) {
	if !s.started || s.disposed {
		return
	}
	scaled := dt * s.UpdateSpeed
	s.age += scaled

	if !s.stopped && s.TargetStopDuration > 0 && s.age >= s.TargetStopDuration {
		s.Stop(false)
	}

	if !s.stopped {
		want := s.sched.SpawnCount(s.EmitRate, scaled)
		if avail := s.pool.Available(); want > avail {
			s.counters.Truncated += uint64(want - avail)
			want = avail // capacity backpressure, not an error
		}
		for i := 0; i < want; i++ {
			s.initParticle(s.pool.Acquire())
		}
		s.counters.Spawned += uint64(want)
	}

	s.stepActive(scaled)
	s.tickChildren(dt)

	if s.stopped && s.pool.ActiveCount() == 0 && !s.endFired {
		s.endFired = true
		if s.OnAnimationEnd != nil {
			s.OnAnimationEnd()
		}
		if s.DisposeOnStop {
			s.Dispose()
		}
	}
}

// Reset hard-clears the particle pool, both active and stock, without
// running retirement callbacks or spawning sub-emitters, and clears the
// emission schedule.
func (s *System) Reset() {
	s.pool.Reset()
	s.sched.Reset()
	s.age = 0
}

// Dispose permanently shuts the system down, disposing any children it owns.
// The dispose observer fires exactly once.
func (s *System) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.started = false
	s.stopped = true
	for _, child := range s.children {
		child.Dispose()
	}
	s.children = nil
	s.pool.Reset()
	if s.OnDispose != nil {
		s.OnDispose()
	}
}

// ActiveParticles returns the packed active sequence for this tick, in the
// order a renderer should pack vertices. Callers must not retain the slice
// across ticks.
func (s *System) ActiveParticles() []*Particle { return s.pool.Active() }

// ActiveCount returns the number of live particles.
func (s *System) ActiveCount() int { return s.pool.ActiveCount() }

// Capacity returns the pool capacity.
func (s *System) Capacity() int { return s.pool.Capacity() }

// Age returns the system's accumulated scaled simulation time.
func (s *System) Age() float64 { return s.age }

// Started reports whether Start has run and Dispose has not.
func (s *System) Started() bool { return s.started }

// Stopped reports whether emission has been halted.
func (s *System) Stopped() bool { return s.stopped }

// Disposed reports whether the system has been disposed.
func (s *System) Disposed() bool { return s.disposed }

// Seed returns the RNG seed the system was created with.
func (s *System) Seed() int64 { return s.seed }

// Counters holds cumulative lifecycle event counts since construction.
// Truncated counts spawn requests dropped by capacity backpressure;
// ChildSpawns counts sub-emitter clones launched from dying particles.
type Counters struct {
	Spawned     uint64
	Retired     uint64
	Truncated   uint64
	ChildSpawns uint64
}

// CountersSnapshot returns the cumulative lifecycle counters. Windowed
// reporting is the caller's job: keep the previous snapshot and diff.
func (s *System) CountersSnapshot() Counters { return s.counters }

// Alive reports whether the system still has work: it is running, or
// stopped but draining.
func (s *System) Alive() bool {
	return s.started && !s.disposed && (!s.stopped || s.pool.ActiveCount() > 0)
}
