// Package game orchestrates the demo scene: an ECS world of emitter
// entities, the orbit camera, rendering and telemetry.
package game

import (
	"log/slog"
	"math"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cinder/camera"
	"github.com/pthm-cable/cinder/components"
	"github.com/pthm-cable/cinder/config"
	"github.com/pthm-cable/cinder/particles"
	"github.com/pthm-cable/cinder/renderer"
	"github.com/pthm-cable/cinder/telemetry"
	"github.com/pthm-cable/cinder/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int
}

// Game holds the complete demo state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	emitterMapper *ecs.Map3[components.Transform, components.Orbit, components.Emitter]
	emitterFilter *ecs.Filter3[components.Transform, components.Orbit, components.Emitter]

	// The root particle system, for telemetry and the HUD. The ECS entity
	// owns the same pointer.
	root       *particles.System
	effectName string

	camera           *camera.Camera
	particleRenderer *renderer.ParticleRenderer
	hud              *ui.HUD

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	dt             float64
	tick           int32
	paused         bool
	stepsPerUpdate int
	headless       bool
	logStats       bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game instance from the loaded configuration.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = cfg.Sim.StepsPerUpdate
	}
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		emitterMapper:  ecs.NewMap3[components.Transform, components.Orbit, components.Emitter](world),
		emitterFilter:  ecs.NewFilter3[components.Transform, components.Orbit, components.Emitter](world),
		camera:         camera.New(cfg.Camera.Distance, cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.FOV),
		hud:            ui.NewHUD(),
		dt:             cfg.Sim.DT,
		stepsPerUpdate: stepsPerUpdate,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	if !opts.Headless {
		g.particleRenderer = renderer.NewParticleRenderer()
	}

	g.collector = telemetry.NewCollector(opts.StatsWindowSec, g.dt)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	g.output = output

	g.spawnEffect(opts.Seed)
	return g
}

// spawnEffect builds the configured effect preset and attaches it to an
// emitter entity.
func (g *Game) spawnEffect(seed int64) {
	cfg := config.Cfg()

	effCfg, err := cfg.Effect()
	if err != nil {
		slog.Error("failed to resolve effect", "error", err)
		os.Exit(1)
	}
	if seed != 0 {
		effCfg.Seed = seed
	}

	sys, err := particles.FromConfig(effCfg)
	if err != nil {
		slog.Error("failed to build effect", "effect", effCfg.Name, "error", err)
		os.Exit(1)
	}
	if err := sys.Start(); err != nil {
		slog.Error("failed to start effect", "effect", effCfg.Name, "error", err)
		os.Exit(1)
	}

	g.root = sys
	g.effectName = effCfg.Name

	tr := components.Transform{}
	orbit := components.Orbit{}
	em := components.Emitter{System: sys}
	g.emitterMapper.NewEntity(&tr, &orbit, &em)

	if err := g.output.WriteEffect(effCfg); err != nil {
		slog.Error("failed to write effect config", "error", err)
	}

	slog.Info("effect started",
		"effect", effCfg.Name,
		"capacity", sys.Capacity(),
		"seed", sys.Seed(),
	)
}

// Update runs input handling and one or more simulation steps.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
	g.perf.RecordFrame()
}

// UpdateHeadless runs simulation steps without any input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick.
func (g *Game) simulationStep() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseSimulation)
	g.updateEmitters()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	g.tick++
}

// updateEmitters advances orbit motion and ticks every emitter's system.
// Cascade children are ticked by their root inside System.Tick.
func (g *Game) updateEmitters() {
	query := g.emitterFilter.Query()
	for query.Next() {
		tr, orbit, em := query.Get()

		if orbit.Radius > 0 {
			orbit.Phase += orbit.AngularSpeed * g.dt
			tr.X = orbit.CenterX + orbit.Radius*math.Cos(orbit.Phase)
			tr.Z = orbit.CenterZ + orbit.Radius*math.Sin(orbit.Phase)
		}

		sys := em.System
		sys.Frame.Origin.X = tr.X
		sys.Frame.Origin.Y = tr.Y
		sys.Frame.Origin.Z = tr.Z
		sys.Tick(g.dt)
	}
}

// Draw renders the scene.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	ex, ey, ez := g.camera.Eye()
	cam := rl.Camera3D{
		Position:   rl.Vector3{X: float32(ex), Y: float32(ey), Z: float32(ez)},
		Target:     rl.Vector3{X: float32(g.camera.TargetX), Y: float32(g.camera.TargetY), Z: float32(g.camera.TargetZ)},
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(g.camera.FOV),
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(cam)
	rl.DrawGrid(20, 1)

	query := g.emitterFilter.Query()
	for query.Next() {
		_, _, em := query.Get()
		g.particleRenderer.Draw(em.System)
	}
	rl.EndMode3D()

	g.hud.Draw(ui.HUDData{
		Title:        "Cinder",
		Effect:       g.effectName,
		Active:       g.root.ActiveCount(),
		Capacity:     g.root.Capacity(),
		ChildSystems: g.root.ChildCount(),
		Tick:         g.tick,
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight),
		"Space: pause | < >: speed | Drag: orbit | Wheel: zoom | E: emit burst | S: stop | Home: reset camera")

	rl.EndDrawing()
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	g.root.Dispose()
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Root returns the root particle system of the demo effect.
func (g *Game) Root() *particles.System {
	return g.root
}
