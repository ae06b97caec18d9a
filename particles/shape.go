package particles

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is the emitter's world transform: an origin and an orthonormal basis.
// Shapes sample in local space and map through the frame.
type Frame struct {
	Origin  r3.Vec
	X, Y, Z r3.Vec
}

// IdentityFrame returns an axis-aligned frame at origin.
func IdentityFrame(origin r3.Vec) Frame {
	return Frame{
		Origin: origin,
		X:      r3.Vec{X: 1},
		Y:      r3.Vec{Y: 1},
		Z:      r3.Vec{Z: 1},
	}
}

// Transform maps a local point into world space.
func (f Frame) Transform(local r3.Vec) r3.Vec {
	return f.Origin.
		Add(f.X.Scale(local.X)).
		Add(f.Y.Scale(local.Y)).
		Add(f.Z.Scale(local.Z))
}

// Rotate maps a local direction into world space (no translation).
func (f Frame) Rotate(local r3.Vec) r3.Vec {
	return f.X.Scale(local.X).
		Add(f.Y.Scale(local.Y)).
		Add(f.Z.Scale(local.Z))
}

// Shape seeds new particles with an initial position and direction. Shapes
// are stateless configuration: both methods are pure functions of the frame
// and the RNG, and a shape must not be mutated while systems reference it.
type Shape interface {
	// Name returns the shape's serialization tag.
	Name() string
	// StartPosition samples a world-space spawn position.
	StartPosition(f Frame, rng *rand.Rand) r3.Vec
	// StartDirection samples a world-space spawn direction for a particle
	// spawned at pos. The result is not necessarily unit length.
	StartDirection(f Frame, pos r3.Vec, rng *rand.Rand) r3.Vec
}

// Shape serialization tags.
const (
	ShapeBox            = "box"
	ShapeSphere         = "sphere"
	ShapeSphereDirected = "sphere_directed"
	ShapeCone           = "cone"
)

// BoxShape emits from an axis-aligned box between MinBounds and MaxBounds in
// emitter-local space, with directions drawn component-wise between
// Direction1 and Direction2.
type BoxShape struct {
	MinBounds  r3.Vec
	MaxBounds  r3.Vec
	Direction1 r3.Vec
	Direction2 r3.Vec
}

func (s *BoxShape) Name() string { return ShapeBox }

func (s *BoxShape) StartPosition(f Frame, rng *rand.Rand) r3.Vec {
	local := r3.Vec{
		X: sampleRange(rng, s.MinBounds.X, s.MaxBounds.X),
		Y: sampleRange(rng, s.MinBounds.Y, s.MaxBounds.Y),
		Z: sampleRange(rng, s.MinBounds.Z, s.MaxBounds.Z),
	}
	return f.Transform(local)
}

func (s *BoxShape) StartDirection(f Frame, _ r3.Vec, rng *rand.Rand) r3.Vec {
	local := randBetween(rng, s.Direction1, s.Direction2)
	return f.Rotate(local)
}

// SphereShape emits from within a spherical shell. Radius is the outer
// radius; RadiusRange in [0, 1] selects how deep inside the shell positions
// may fall (0 = surface only, 1 = anywhere down to the center). Directions
// point outward from the emitter origin, jittered component-wise by
// DirectionRandomizer.
type SphereShape struct {
	Radius              float64
	RadiusRange         float64
	DirectionRandomizer float64
}

func (s *SphereShape) Name() string { return ShapeSphere }

func (s *SphereShape) StartPosition(f Frame, rng *rand.Rand) r3.Vec {
	r := s.Radius - rng.Float64()*s.Radius*s.RadiusRange
	return f.Transform(randUnit(rng).Scale(r))
}

func (s *SphereShape) StartDirection(f Frame, pos r3.Vec, rng *rand.Rand) r3.Vec {
	out := pos.Sub(f.Origin)
	if r3.Norm(out) == 0 {
		out = randUnit(rng)
	} else {
		out = r3.Unit(out)
	}
	return out.Add(r3.Vec{
		X: (rng.Float64()*2 - 1) * s.DirectionRandomizer,
		Y: (rng.Float64()*2 - 1) * s.DirectionRandomizer,
		Z: (rng.Float64()*2 - 1) * s.DirectionRandomizer,
	})
}

// SphereDirectedShape emits from within a spherical shell like SphereShape
// but draws directions component-wise between Direction1 and Direction2
// instead of pointing outward.
type SphereDirectedShape struct {
	Radius      float64
	RadiusRange float64
	Direction1  r3.Vec
	Direction2  r3.Vec
}

func (s *SphereDirectedShape) Name() string { return ShapeSphereDirected }

func (s *SphereDirectedShape) StartPosition(f Frame, rng *rand.Rand) r3.Vec {
	r := s.Radius - rng.Float64()*s.Radius*s.RadiusRange
	return f.Transform(randUnit(rng).Scale(r))
}

func (s *SphereDirectedShape) StartDirection(f Frame, _ r3.Vec, rng *rand.Rand) r3.Vec {
	dir := randBetween(rng, s.Direction1, s.Direction2)
	if r3.Norm(dir) == 0 {
		return f.Rotate(r3.Vec{Y: 1})
	}
	return f.Rotate(r3.Unit(dir))
}

// ConeShape emits from the volume of a cone whose apex sits at the emitter
// origin and whose axis is the frame's Y. Radius is the base radius, Angle
// the full opening angle in radians (0 means a cylinder of radius Radius) and
// Height the cone height along the axis. HeightRange in [0, 1] restricts
// spawn heights to the top fraction of the cone (0 = base plane only).
// Directions follow the apex-to-position ray, jittered by
// DirectionRandomizer.
type ConeShape struct {
	Radius              float64
	Angle               float64
	Height              float64
	HeightRange         float64
	DirectionRandomizer float64
}

func (s *ConeShape) Name() string { return ShapeCone }

func (s *ConeShape) StartPosition(f Frame, rng *rand.Rand) r3.Vec {
	h := 1.0
	if s.HeightRange > 0 {
		h = 1 - rng.Float64()*s.HeightRange
	}
	radiusAt := s.Radius
	if s.Angle > 0 {
		radiusAt = s.Radius * h
	}
	r := radiusAt * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	local := r3.Vec{
		X: r * math.Cos(theta),
		Y: h * s.Height,
		Z: r * math.Sin(theta),
	}
	return f.Transform(local)
}

func (s *ConeShape) StartDirection(f Frame, pos r3.Vec, rng *rand.Rand) r3.Vec {
	axis := pos.Sub(f.Origin)
	if r3.Norm(axis) == 0 {
		axis = f.Y
	} else {
		axis = r3.Unit(axis)
	}
	return axis.Add(r3.Vec{
		X: (rng.Float64()*2 - 1) * s.DirectionRandomizer,
		Y: (rng.Float64()*2 - 1) * s.DirectionRandomizer,
		Z: (rng.Float64()*2 - 1) * s.DirectionRandomizer,
	})
}

// randBetween draws a vector component-wise uniform between a and b.
func randBetween(rng *rand.Rand, a, b r3.Vec) r3.Vec {
	return r3.Vec{
		X: sampleRange(rng, math.Min(a.X, b.X), math.Max(a.X, b.X)),
		Y: sampleRange(rng, math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)),
		Z: sampleRange(rng, math.Min(a.Z, b.Z), math.Max(a.Z, b.Z)),
	}
}

// randUnit draws a uniformly distributed unit vector.
func randUnit(rng *rand.Rand) r3.Vec {
	// Marsaglia: z uniform in [-1, 1], azimuth uniform.
	z := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return r3.Vec{X: r * math.Cos(theta), Y: z, Z: r * math.Sin(theta)}
}
