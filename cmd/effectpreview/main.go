// Effect preview tool - interactive particle effect tuning with sliders.
//
// Usage: go run ./cmd/effectpreview [-config path] [-effect name]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cinder/camera"
	"github.com/pthm-cable/cinder/config"
	"github.com/pthm-cable/cinder/particles"
	"github.com/pthm-cable/cinder/renderer"
)

const (
	windowWidth  = 1200
	windowHeight = 720
	panelWidth   = 340
	previewWidth = windowWidth - panelWidth
)

// EffectParams holds the tunable parameters exposed by the sliders.
type EffectParams struct {
	EmitRate      float32
	MinEmitPower  float32
	MaxEmitPower  float32
	MinLifeTime   float32
	MaxLifeTime   float32
	GravityY      float32
	NoiseStrength float32
	UpdateSpeed   float32
}

func paramsFrom(cfg particles.EffectConfig) EffectParams {
	return EffectParams{
		EmitRate:      float32(cfg.EmitRate),
		MinEmitPower:  float32(cfg.MinEmitPower),
		MaxEmitPower:  float32(cfg.MaxEmitPower),
		MinLifeTime:   float32(cfg.MinLifeTime),
		MaxLifeTime:   float32(cfg.MaxLifeTime),
		GravityY:      float32(cfg.Gravity.Y),
		NoiseStrength: float32(cfg.Noise.Strength.X),
		UpdateSpeed:   float32(cfg.UpdateSpeed),
	}
}

func (p EffectParams) apply(cfg particles.EffectConfig) particles.EffectConfig {
	cfg.EmitRate = float64(p.EmitRate)
	cfg.MinEmitPower = float64(p.MinEmitPower)
	cfg.MaxEmitPower = float64(p.MaxEmitPower)
	if cfg.MaxEmitPower < cfg.MinEmitPower {
		cfg.MaxEmitPower = cfg.MinEmitPower
	}
	cfg.MinLifeTime = float64(p.MinLifeTime)
	cfg.MaxLifeTime = float64(p.MaxLifeTime)
	if cfg.MaxLifeTime < cfg.MinLifeTime {
		cfg.MaxLifeTime = cfg.MinLifeTime
	}
	cfg.Gravity.Y = float64(p.GravityY)
	cfg.Noise.Strength.X = float64(p.NoiseStrength)
	cfg.Noise.Strength.Z = float64(p.NoiseStrength)
	cfg.UpdateSpeed = float64(p.UpdateSpeed)
	return cfg
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	effectName := flag.String("effect", "", "Effect preset to load (empty = config default)")
	savePath := flag.String("save", "effect.yaml", "Path written by the Save button")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *effectName != "" {
		cfg.Sim.Effect = *effectName
	}

	baseCfg, err := cfg.Effect()
	if err != nil {
		slog.Error("failed to resolve effect", "error", err)
		os.Exit(1)
	}

	sys, err := particles.FromConfig(baseCfg)
	if err != nil {
		slog.Error("failed to build effect", "error", err)
		os.Exit(1)
	}
	if err := sys.Start(); err != nil {
		slog.Error("failed to start effect", "error", err)
		os.Exit(1)
	}

	params := paramsFrom(baseCfg)
	defaults := params

	rl.InitWindow(windowWidth, windowHeight, "Effect Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(cfg.Camera.Distance, cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.FOV)
	particleRenderer := renderer.NewParticleRenderer()

	rebuild := func() {
		sys.Dispose()
		next, err := particles.FromConfig(params.apply(baseCfg))
		if err != nil {
			slog.Error("rebuild failed", "error", err)
			return
		}
		if err := next.Start(); err != nil {
			slog.Error("restart failed", "error", err)
			return
		}
		sys = next
	}

	for !rl.WindowShouldClose() {
		// Camera controls
		if rl.IsMouseButtonDown(rl.MouseLeftButton) && rl.GetMousePosition().X < previewWidth {
			delta := rl.GetMouseDelta()
			cam.Orbit(float64(delta.X)*0.005, float64(delta.Y)*0.005)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.Dolly(1 - float64(wheel)*0.1)
		}
		if rl.IsKeyPressed(rl.KeyE) {
			sys.Emit(50)
		}

		sys.Tick(float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		ex, ey, ez := cam.Eye()
		rl.BeginMode3D(rl.Camera3D{
			Position:   rl.Vector3{X: float32(ex), Y: float32(ey), Z: float32(ez)},
			Target:     rl.Vector3{},
			Up:         rl.Vector3{Y: 1},
			Fovy:       float32(cam.FOV),
			Projection: rl.CameraPerspective,
		})
		rl.DrawGrid(20, 1)
		particleRenderer.Draw(sys)
		rl.EndMode3D()

		// Control panel
		panelX := float32(previewWidth + 10)
		panelY := float32(10)
		changed := false

		rl.DrawText(fmt.Sprintf("Effect: %s", baseCfg.Name), int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 30
		rl.DrawText(fmt.Sprintf("Active: %d/%d | Children: %d",
			sys.ActiveCount(), sys.Capacity(), sys.ChildCount()), int32(panelX), int32(panelY), 14, rl.LightGray)
		panelY += 30

		changed = slider(&panelY, panelX, "Emit rate", &params.EmitRate, 0, 1000, "%.0f") || changed
		changed = slider(&panelY, panelX, "Min emit power", &params.MinEmitPower, 0, 20, "%.1f") || changed
		changed = slider(&panelY, panelX, "Max emit power", &params.MaxEmitPower, 0, 20, "%.1f") || changed
		changed = slider(&panelY, panelX, "Min life time", &params.MinLifeTime, 0.1, 10, "%.1f") || changed
		changed = slider(&panelY, panelX, "Max life time", &params.MaxLifeTime, 0.1, 10, "%.1f") || changed
		changed = slider(&panelY, panelX, "Gravity Y", &params.GravityY, -20, 20, "%.1f") || changed
		changed = slider(&panelY, panelX, "Noise strength", &params.NoiseStrength, 0, 10, "%.1f") || changed
		changed = slider(&panelY, panelX, "Update speed", &params.UpdateSpeed, 0.1, 4, "%.2f") || changed

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 150, Height: 30}, "Reset") {
			params = defaults
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 160, Y: panelY, Width: 150, Height: 30}, "Save YAML") {
			out := params.apply(baseCfg)
			if err := out.WriteYAML(*savePath); err != nil {
				slog.Error("save failed", "error", err)
			} else {
				slog.Info("effect saved", "path", *savePath)
			}
		}
		panelY += 45
		rl.DrawText("Drag: orbit | Wheel: zoom | E: emit burst", int32(panelX), int32(windowHeight-30), 12, rl.Gray)

		rl.EndDrawing()

		if changed {
			rebuild()
		}
	}
}

// slider draws one labeled slider row and reports whether the value moved.
func slider(y *float32, x float32, label string, value *float32, min, max float32, format string) bool {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: panelWidth - 90, Height: 20},
		"", "",
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(x+panelWidth-80), int32(*y+2), 16, rl.RayWhite)
	*y += 32
	if next != *value {
		*value = next
		return true
	}
	return false
}
