package particles

import "github.com/ojrac/opensimplex-go"

// NoiseField is a read-back interface over an external 2D scalar field.
// Sample returns a value in [0, 1] for the given coordinates. A system with
// no configured field skips noise displacement entirely.
type NoiseField interface {
	Sample(u, v float64) float64
}

// SimplexField is a NoiseField backed by seeded OpenSimplex noise.
type SimplexField struct {
	noise     opensimplex.Noise
	seed      int64
	frequency float64
}

// NewSimplexField creates a simplex field. frequency scales the sample
// coordinates; values much below 1 produce smoother fields.
func NewSimplexField(seed int64, frequency float64) *SimplexField {
	if frequency <= 0 {
		frequency = 1
	}
	return &SimplexField{
		noise:     opensimplex.NewNormalized(seed),
		seed:      seed,
		frequency: frequency,
	}
}

// Sample returns the field value at (u, v) in [0, 1].
func (f *SimplexField) Sample(u, v float64) float64 {
	return f.noise.Eval2(u*f.frequency, v*f.frequency)
}

// Seed returns the field's seed.
func (f *SimplexField) Seed() int64 { return f.seed }

// Frequency returns the coordinate scale.
func (f *SimplexField) Frequency() float64 { return f.frequency }
