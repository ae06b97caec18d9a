package particles

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestBoxShapeSampling(t *testing.T) {
	shape := &BoxShape{
		MinBounds:  r3.Vec{X: -1, Y: 0, Z: -2},
		MaxBounds:  r3.Vec{X: 1, Y: 3, Z: 2},
		Direction1: r3.Vec{Y: 1},
		Direction2: r3.Vec{Y: 1},
	}
	frame := IdentityFrame(r3.Vec{X: 10})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		pos := shape.StartPosition(frame, rng)
		if pos.X < 9 || pos.X >= 11 || pos.Y < 0 || pos.Y >= 3 || pos.Z < -2 || pos.Z >= 2 {
			t.Fatalf("position %v outside configured extents", pos)
		}
		dir := shape.StartDirection(frame, pos, rng)
		if dir.X != 0 || dir.Y != 1 || dir.Z != 0 {
			t.Fatalf("fixed direction range produced %v", dir)
		}
	}
}

func TestSphereShapeSampling(t *testing.T) {
	shape := &SphereShape{Radius: 2, RadiusRange: 0.5}
	frame := IdentityFrame(r3.Vec{})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		pos := shape.StartPosition(frame, rng)
		r := r3.Norm(pos)
		// RadiusRange 0.5 keeps positions in the outer half of the shell.
		if r < 1-1e-9 || r > 2+1e-9 {
			t.Fatalf("radius %f outside [1, 2]", r)
		}

		dir := shape.StartDirection(frame, pos, rng)
		// No randomizer: direction is the unit outward ray.
		dot := dir.Dot(r3.Unit(pos))
		if math.Abs(dot-1) > 1e-9 {
			t.Fatalf("direction %v not outward from center", dir)
		}
	}
}

func TestSphereDirectedShapeDirection(t *testing.T) {
	shape := &SphereDirectedShape{
		Radius:     1,
		Direction1: r3.Vec{X: 0.5, Y: 1},
		Direction2: r3.Vec{X: 1, Y: 1},
	}
	frame := IdentityFrame(r3.Vec{})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		dir := shape.StartDirection(frame, r3.Vec{}, rng)
		if math.Abs(r3.Norm(dir)-1) > 1e-9 {
			t.Fatalf("direction %v not normalized", dir)
		}
		if dir.X <= 0 || dir.Y <= 0 {
			t.Fatalf("direction %v outside configured cone", dir)
		}
	}
}

func TestConeShapeSampling(t *testing.T) {
	shape := &ConeShape{Radius: 1, Angle: math.Pi / 4, Height: 2, HeightRange: 1}
	frame := IdentityFrame(r3.Vec{})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		pos := shape.StartPosition(frame, rng)
		if pos.Y < 0 || pos.Y > 2 {
			t.Fatalf("height %f outside [0, 2]", pos.Y)
		}
		lateral := math.Hypot(pos.X, pos.Z)
		if lateral > 1+1e-9 {
			t.Fatalf("lateral distance %f exceeds base radius", lateral)
		}

		dir := shape.StartDirection(frame, pos, rng)
		if r3.Norm(pos) > 0 {
			dot := dir.Dot(r3.Unit(pos))
			if math.Abs(dot-1) > 1e-9 {
				t.Fatalf("direction %v not along apex ray", dir)
			}
		}
	}
}

func TestFrameTransform(t *testing.T) {
	// Basis rotated 90 degrees around Z: local X maps to world Y.
	frame := Frame{
		Origin: r3.Vec{X: 1, Y: 2, Z: 3},
		X:      r3.Vec{Y: 1},
		Y:      r3.Vec{X: -1},
		Z:      r3.Vec{Z: 1},
	}

	world := frame.Transform(r3.Vec{X: 1})
	want := r3.Vec{X: 1, Y: 3, Z: 3}
	if world != want {
		t.Errorf("Transform: got %v, want %v", world, want)
	}

	dir := frame.Rotate(r3.Vec{X: 1})
	if (dir != r3.Vec{Y: 1}) {
		t.Errorf("Rotate: got %v, want {0 1 0}", dir)
	}
}

func TestRandUnitIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		v := randUnit(rng)
		if math.Abs(r3.Norm(v)-1) > 1e-9 {
			t.Fatalf("randUnit produced non-unit vector %v", v)
		}
	}
}
