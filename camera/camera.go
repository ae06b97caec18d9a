// Package camera provides an orbit camera for viewing the 3D scene.
package camera

import "math"

// Pitch limits keep the camera off the poles, where the orbit basis
// degenerates.
const (
	minPitch = -1.45
	maxPitch = 1.45
)

// Camera orbits a target point at a distance, described by yaw and pitch
// angles in radians. Eye position is derived, never stored.
type Camera struct {
	// Target is the point the camera looks at, in world coordinates.
	TargetX, TargetY, TargetZ float64

	// Yaw rotates around the vertical axis; pitch lifts above the
	// horizontal plane.
	Yaw   float64
	Pitch float64

	// Distance from the target to the eye.
	Distance float64

	// Vertical field of view in degrees.
	FOV float64

	// Distance constraints
	MinDistance, MaxDistance float64
}

// New creates a camera orbiting the origin with the given starting pose.
func New(distance, yaw, pitch, fov float64) *Camera {
	c := &Camera{
		Yaw:         yaw,
		Pitch:       pitch,
		Distance:    distance,
		FOV:         fov,
		MinDistance: 1,
		MaxDistance: 200,
	}
	c.Pitch = clamp(c.Pitch, minPitch, maxPitch)
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	return c
}

// Eye returns the camera position in world coordinates.
func (c *Camera) Eye() (x, y, z float64) {
	cp := math.Cos(c.Pitch)
	x = c.TargetX + c.Distance*cp*math.Cos(c.Yaw)
	y = c.TargetY + c.Distance*math.Sin(c.Pitch)
	z = c.TargetZ + c.Distance*cp*math.Sin(c.Yaw)
	return x, y, z
}

// Orbit rotates the camera around the target by the given angle deltas.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, minPitch, maxPitch)
}

// Dolly scales the orbit distance, clamped to the configured range. Factors
// below 1 move in, above 1 move out.
func (c *Camera) Dolly(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Pan shifts the target in the camera's horizontal plane: dRight along the
// screen-right axis, dForward along the view direction projected to the
// ground.
func (c *Camera) Pan(dRight, dForward float64) {
	sy, cy := math.Sincos(c.Yaw)

	// Screen-right is perpendicular to the ground projection of the view ray.
	c.TargetX += dRight*-sy + dForward*-cy
	c.TargetZ += dRight*cy + dForward*-sy
}

// LookAt recenters the camera on a new target point.
func (c *Camera) LookAt(x, y, z float64) {
	c.TargetX, c.TargetY, c.TargetZ = x, y, z
}

// Reset returns the camera to the given pose, keeping the target.
func (c *Camera) Reset(distance, yaw, pitch float64) {
	c.Distance = clamp(distance, c.MinDistance, c.MaxDistance)
	c.Yaw = yaw
	c.Pitch = clamp(pitch, minPitch, maxPitch)
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
