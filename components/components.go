// Package components defines ECS components for the demo scene.
package components

import "github.com/pthm-cable/cinder/particles"

// Transform represents an entity's world position.
type Transform struct {
	X, Y, Z float64
}

// Orbit moves an entity on a circular path around a center point, used to
// animate emitters through the scene.
type Orbit struct {
	CenterX, CenterZ float64
	Radius           float64
	AngularSpeed     float64 // radians per second
	Phase            float64 // current angle
}

// Emitter attaches a particle system to an entity. The system's emitter
// frame follows the entity's transform every tick.
type Emitter struct {
	System *particles.System
}
