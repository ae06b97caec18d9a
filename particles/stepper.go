package particles

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Spawn-time initialization and the per-tick stepping loop.

// initParticle seeds a freshly acquired record: every randomized min/max
// range is sampled independently, active gradient tracks bind their first
// segment, and a zero emit power freezes the unit spawn direction for
// downstream renderers.
func (s *System) initParticle(p *Particle) {
	if p == nil {
		return
	}

	// Life time: the dedicated track is sampled once at spawn, keyed on the
	// system's progress toward its stop duration; otherwise the plain range.
	if s.LifeTimeTrack.Active() && s.TargetStopDuration > 0 {
		p.LifeTime = s.LifeTimeTrack.SampleOnce(clamp01(s.age/s.TargetStopDuration), s.rng)
	} else {
		p.LifeTime = sampleRange(s.rng, s.MinLifeTime, s.MaxLifeTime)
	}

	// Position and direction come from the override functions when present,
	// else from the configured shape.
	if s.StartPositionFn != nil {
		p.Position = s.StartPositionFn(s.Frame, s.rng)
	} else {
		p.Position = s.Shape.StartPosition(s.Frame, s.rng)
	}
	var dir r3.Vec
	if s.StartDirectionFn != nil {
		dir = s.StartDirectionFn(s.Frame, p.Position, s.rng)
	} else {
		dir = s.Shape.StartDirection(s.Frame, p.Position, s.rng)
	}

	power := sampleRange(s.rng, s.MinEmitPower, s.MaxEmitPower)
	if power == 0 {
		p.DirectionFrozen = true
		if r3.Norm(dir) == 0 {
			p.InitialDirection = s.Frame.Y
		} else {
			p.InitialDirection = r3.Unit(dir)
		}
	} else {
		p.Direction = dir.Scale(power)
	}

	p.Angle = sampleRange(s.rng, s.MinInitialRotation, s.MaxInitialRotation)
	p.AngularSpeed = sampleRange(s.rng, s.MinAngularSpeed, s.MaxAngularSpeed)
	p.ScaleX = sampleRange(s.rng, s.MinScaleX, s.MaxScaleX)
	p.ScaleY = sampleRange(s.rng, s.MinScaleY, s.MaxScaleY)
	p.Size = sampleRange(s.rng, s.MinSize, s.MaxSize)
	p.CellIndex = s.StartSpriteCell

	// Bind first segments so the spawn frame already reflects the tracks.
	if s.SizeTrack.Active() {
		p.Size = s.SizeTrack.Sample(&p.sizeCursor, 0, s.rng)
	}
	if s.AngularSpeedTrack.Active() {
		p.AngularSpeed = s.AngularSpeedTrack.Sample(&p.angularCursor, 0, s.rng)
	}
	if s.VelocityTrack.Active() {
		s.VelocityTrack.Sample(&p.velocityCursor, 0, s.rng)
	}
	if s.LimitVelocityTrack.Active() {
		s.LimitVelocityTrack.Sample(&p.limitCursor, 0, s.rng)
	}
	if s.ColorTrack.Active() {
		p.Color = s.ColorTrack.Sample(&p.colorCursor, 0, s.rng)
	} else {
		p.Color = lerpColor(s.Color1, s.Color2, s.rng.Float64())
		if p.LifeTime > 0 {
			inv := 1 / p.LifeTime
			p.ColorStep = Color4{
				R: (s.ColorDead.R - p.Color.R) * inv,
				G: (s.ColorDead.G - p.Color.G) * inv,
				B: (s.ColorDead.B - p.Color.B) * inv,
				A: (s.ColorDead.A - p.Color.A) * inv,
			}
		}
	}
}

// stepActive advances every active particle by one tick. Retirement uses
// swap-and-pop, so after retiring index i the slot holds a not-yet-stepped
// particle and the index is revisited.
func (s *System) stepActive(scaled float64) {
	active := s.pool.Active()
	for i := 0; i < len(active); {
		p := active[i]

		p.Age += scaled
		if p.Age >= p.LifeTime {
			// Capture the dying particle's state before the swap reuses
			// its slot.
			at := p.Position
			s.pool.Retire(i)
			s.counters.Retired++
			s.spawnChildAt(at)
			active = s.pool.Active()
			continue
		}

		ratio := p.Age / p.LifeTime
		s.stepParticle(p, ratio, scaled)
		i++
	}
}

// stepParticle applies one tick of attribute evolution to a live particle,
// in the fixed order: color, rotation, velocity scaling, limit velocity,
// position integration, noise, gravity, size, sprite cell.
func (s *System) stepParticle(p *Particle, ratio, scaled float64) {
	// Color: gradient-sampled, or linear step toward the dead color.
	if s.ColorTrack.Active() {
		p.Color = s.ColorTrack.Sample(&p.colorCursor, ratio, s.rng)
	} else {
		p.Color.R += p.ColorStep.R * scaled
		p.Color.G += p.ColorStep.G * scaled
		p.Color.B += p.ColorStep.B * scaled
		p.Color.A += p.ColorStep.A * scaled
		if p.Color.A < 0 {
			p.Color.A = 0
		}
	}

	// Rotation.
	if s.AngularSpeedTrack.Active() {
		p.AngularSpeed = s.AngularSpeedTrack.Sample(&p.angularCursor, ratio, s.rng)
	}
	p.Angle += p.AngularSpeed * scaled

	// Velocity scale for this tick's integration.
	dirScale := scaled
	if s.VelocityTrack.Active() {
		dirScale *= s.VelocityTrack.Sample(&p.velocityCursor, ratio, s.rng)
	}

	// Limit velocity: dampen when the sampled cap is exceeded.
	if s.LimitVelocityTrack.Active() {
		limit := s.LimitVelocityTrack.Sample(&p.limitCursor, ratio, s.rng)
		if r3.Norm(p.Direction) > limit {
			p.Direction = p.Direction.Scale(s.LimitVelocityDamping)
		}
	}

	// Integrate position.
	p.Position = p.Position.Add(p.Direction.Scale(dirScale))

	// Noise displacement feeds the direction, not the position, so it
	// shows up in the next integration step.
	if s.Noise != nil {
		rel := p.Position.Sub(s.Frame.Origin)
		force := r3.Vec{
			X: signed(s.Noise.Sample(rel.X, rel.Y)) * s.NoiseStrength.X,
			Y: signed(s.Noise.Sample(rel.Y, rel.Z)) * s.NoiseStrength.Y,
			Z: signed(s.Noise.Sample(rel.Z, rel.X)) * s.NoiseStrength.Z,
		}
		p.Direction = p.Direction.Add(force.Scale(scaled))
	}

	// Gravity.
	p.Direction = p.Direction.Add(s.Gravity.Scale(scaled))

	// Size.
	if s.SizeTrack.Active() {
		p.Size = s.SizeTrack.Sample(&p.sizeCursor, ratio, s.rng)
	}

	// Sprite sheet animation.
	if s.AnimateSprite {
		s.advanceSpriteCell(p, scaled)
	}
}

// advanceSpriteCell steps the discrete animation cell index.
func (s *System) advanceSpriteCell(p *Particle, scaled float64) {
	span := s.EndSpriteCell - s.StartSpriteCell + 1
	if span <= 1 || s.SpriteCellChangeSpeed <= 0 {
		return
	}
	p.cellClock += scaled
	step := int(p.cellClock * s.SpriteCellChangeSpeed)
	if s.SpriteCellLoop {
		p.CellIndex = s.StartSpriteCell + step%span
	} else {
		if step > span-1 {
			step = span - 1
		}
		p.CellIndex = s.StartSpriteCell + step
	}
}

// signed maps a [0, 1] noise sample to [-1, 1].
func signed(v float64) float64 {
	return v*2 - 1
}
