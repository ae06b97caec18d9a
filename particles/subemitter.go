package particles

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sub-emitter cascade: a dying particle can spawn a cloned child system at
// its last position. Children are owned by the ultimate root's children set;
// each clone carries only a non-owning back-reference to that root, so the
// parent/child graph never forms an ownership cycle.

// Root returns the ultimate root of this system's cascade (itself when the
// system was not spawned as a sub-emitter).
func (s *System) Root() *System {
	if s.root == nil {
		return s
	}
	return s.root
}

// Children returns the root-owned set of live child systems. Non-root
// systems always return nil.
func (s *System) Children() []*System { return s.children }

// ChildCount returns the number of live children owned by this system.
func (s *System) ChildCount() int { return len(s.children) }

// spawnChildAt instantiates one sub-emitter clone at a retired particle's
// last position. The template is chosen uniformly at random. No-op without
// templates.
func (s *System) spawnChildAt(at r3.Vec) {
	if len(s.SubEmitters) == 0 {
		return
	}
	tmpl := s.SubEmitters[s.rng.Intn(len(s.SubEmitters))]
	root := s.Root()

	child := tmpl.Clone(s.rng.Int63())
	child.Frame.Origin = at
	child.root = root
	child.DisposeOnStop = true
	if err := child.Start(); err != nil {
		// Template validity is checked when the parent starts; a clone can
		// only fail the same way.
		return
	}
	root.children = append(root.children, child)
	// Credit the root: child counters vanish with the clone on disposal.
	root.counters.ChildSpawns++
}

// tickChildren advances the cascade's children and drops the ones that have
// drained. Only the root holds children, so this is a no-op elsewhere.
func (s *System) tickChildren(dt float64) {
	if len(s.children) == 0 {
		return
	}
	// Detach the set first: cascades fired while ticking a child append new
	// grandchildren to s.children, which must not alias the batch being
	// walked.
	batch := s.children
	s.children = nil
	for _, child := range batch {
		child.Tick(dt)
		if child.Alive() {
			s.children = append(s.children, child)
		} else if !child.Disposed() {
			child.Dispose()
		}
	}
}

// Clone returns an unstarted deep copy of the system's configuration with a
// fresh pool, scheduler and RNG. Gradient key tables are copied; the shape
// and noise field are shared, both being immutable configuration. Callbacks
// and sub-emitter template references carry over.
func (s *System) Clone(seed int64) *System {
	c := &System{
		Name:                  s.Name,
		EmitRate:              s.EmitRate,
		MinEmitPower:          s.MinEmitPower,
		MaxEmitPower:          s.MaxEmitPower,
		MinLifeTime:           s.MinLifeTime,
		MaxLifeTime:           s.MaxLifeTime,
		MinSize:               s.MinSize,
		MaxSize:               s.MaxSize,
		MinScaleX:             s.MinScaleX,
		MaxScaleX:             s.MaxScaleX,
		MinScaleY:             s.MinScaleY,
		MaxScaleY:             s.MaxScaleY,
		MinAngularSpeed:       s.MinAngularSpeed,
		MaxAngularSpeed:       s.MaxAngularSpeed,
		MinInitialRotation:    s.MinInitialRotation,
		MaxInitialRotation:    s.MaxInitialRotation,
		Color1:                s.Color1,
		Color2:                s.Color2,
		ColorDead:             s.ColorDead,
		Gravity:               s.Gravity,
		Frame:                 s.Frame,
		LimitVelocityDamping:  s.LimitVelocityDamping,
		UpdateSpeed:           s.UpdateSpeed,
		TargetStopDuration:    s.TargetStopDuration,
		PreWarmCycles:         s.PreWarmCycles,
		PreWarmStep:           s.PreWarmStep,
		DisposeOnStop:         s.DisposeOnStop,
		Blend:                 s.Blend,
		AnimateSprite:         s.AnimateSprite,
		StartSpriteCell:       s.StartSpriteCell,
		EndSpriteCell:         s.EndSpriteCell,
		SpriteCellChangeSpeed: s.SpriteCellChangeSpeed,
		SpriteCellLoop:        s.SpriteCellLoop,
		LifeTimeTrack:         cloneScalarTrack(&s.LifeTimeTrack),
		SizeTrack:             cloneScalarTrack(&s.SizeTrack),
		AngularSpeedTrack:     cloneScalarTrack(&s.AngularSpeedTrack),
		VelocityTrack:         cloneScalarTrack(&s.VelocityTrack),
		LimitVelocityTrack:    cloneScalarTrack(&s.LimitVelocityTrack),
		ColorTrack:            cloneColorTrack(&s.ColorTrack),
		Shape:                 s.Shape,
		StartPositionFn:       s.StartPositionFn,
		StartDirectionFn:      s.StartDirectionFn,
		Noise:                 s.Noise,
		NoiseStrength:         s.NoiseStrength,
		SubEmitters:           append([]*System(nil), s.SubEmitters...),
		OnAnimationEnd:        s.OnAnimationEnd,
		OnDispose:             s.OnDispose,
		sched:                 NewScheduler(),
		rng:                   rand.New(rand.NewSource(seed)),
		seed:                  seed,
	}
	c.pool, _ = NewPool(s.pool.Capacity())
	return c
}

func cloneScalarTrack(t *ScalarTrack) ScalarTrack {
	return ScalarTrack{keys: append([]ScalarKey(nil), t.keys...)}
}

func cloneColorTrack(t *ColorTrack) ColorTrack {
	return ColorTrack{keys: append([]ColorKey(nil), t.keys...)}
}
