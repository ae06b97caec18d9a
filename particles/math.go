package particles

import "math/rand"

// Clamp and interpolation helpers shared across the engine.

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b.
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// sampleRange draws a uniform value from [min, max): inclusive of min,
// exclusive of max. A degenerate range (min >= max) returns min.
func sampleRange(rng *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rng.Float64()*(max-min)
}
