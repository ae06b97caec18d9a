package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cinder/particles"
)

// ParticleRenderer renders particle systems. Draw must be called between
// rl.BeginMode3D and rl.EndMode3D.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders a system and every child in its cascade.
func (r *ParticleRenderer) Draw(sys *particles.System) {
	r.drawOne(sys)
	for _, child := range sys.Children() {
		r.drawOne(child)
	}
}

func (r *ParticleRenderer) drawOne(sys *particles.System) {
	active := sys.ActiveParticles()
	if len(active) == 0 {
		return
	}

	rl.BeginBlendMode(blendMode(sys.Blend))
	for _, p := range active {
		pos := rl.Vector3{
			X: float32(p.Position.X),
			Y: float32(p.Position.Y),
			Z: float32(p.Position.Z),
		}
		size := rl.Vector3{
			X: float32(p.Size * p.ScaleX),
			Y: float32(p.Size * p.ScaleY),
			Z: float32(p.Size),
		}
		rl.DrawCubeV(pos, size, particleColor(p.Color))
	}
	rl.EndBlendMode()
}

// blendMode maps an effect blend mode to the raylib blend state.
func blendMode(b particles.BlendMode) rl.BlendMode {
	switch b {
	case particles.BlendAdd:
		return rl.BlendAdditive
	case particles.BlendOneOne:
		return rl.BlendAddColors
	case particles.BlendMultiply:
		return rl.BlendMultiplied
	default:
		return rl.BlendAlpha
	}
}

// particleColor converts a normalized color to 8-bit, clamping overshoot
// from additive tracks.
func particleColor(c particles.Color4) rl.Color {
	return rl.Color{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A),
	}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
