package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cinder/config"
)

// Burst size for the manual emit key.
const emitBurst = 50

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Effect controls
	if rl.IsKeyPressed(rl.KeyE) {
		g.root.Emit(emitBurst)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.root.Stop(true)
	}

	g.handleCameraInput()
	g.handleResize()
}

// handleResize tracks window size changes for HUD layout.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
}

// handleCameraInput processes orbit camera controls.
func (g *Game) handleCameraInput() {
	// Mouse drag orbits
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		g.camera.Orbit(float64(delta.X)*0.005, float64(delta.Y)*0.005)
	}

	// Arrow keys orbit too
	const keyOrbit = 0.02
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -keyOrbit)
	}

	// Mouse wheel dollies in and out
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.Dolly(1 - float64(wheelMove)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.Dolly(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.Dolly(1.25)
	}

	// Home key resets the camera
	if rl.IsKeyPressed(rl.KeyHome) {
		cam := config.Cfg().Camera
		g.camera.Reset(cam.Distance, cam.Yaw, cam.Pitch)
		g.camera.LookAt(0, 0, 0)
	}
}
