package particles

import (
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// buildFullSystem exercises every serializable knob.
func buildFullSystem(t *testing.T) *System {
	t.Helper()
	s, err := NewSystem("inferno", 500, 1234)
	if err != nil {
		t.Fatal(err)
	}
	s.EmitRate = 42.5
	s.MinEmitPower = 1
	s.MaxEmitPower = 3
	s.MinLifeTime = 0.5
	s.MaxLifeTime = 2
	s.MinSize = 0.1
	s.MaxSize = 0.4
	s.MinScaleX = 0.9
	s.MaxScaleX = 1.1
	s.MinScaleY = 0.8
	s.MaxScaleY = 1.2
	s.MinAngularSpeed = -1
	s.MaxAngularSpeed = 1
	s.MinInitialRotation = 0
	s.MaxInitialRotation = 6.28
	s.Color1 = Color4{R: 1, G: 0.6, B: 0.1, A: 1}
	s.Color2 = Color4{R: 1, G: 0.3, B: 0, A: 1}
	s.ColorDead = Color4{R: 0.2, A: 0}
	s.Gravity = r3.Vec{Y: -9.81}
	s.Frame = IdentityFrame(r3.Vec{X: 1, Y: 2, Z: 3})
	s.LimitVelocityDamping = 0.7
	s.UpdateSpeed = 0.5
	s.TargetStopDuration = 5
	s.PreWarmCycles = 30
	s.PreWarmStep = 1.0 / 60.0
	s.DisposeOnStop = true
	s.Blend = BlendAdd
	s.AnimateSprite = true
	s.StartSpriteCell = 2
	s.EndSpriteCell = 9
	s.SpriteCellChangeSpeed = 12
	s.SpriteCellLoop = true

	s.LifeTimeTrack.AddKey(0, 1)
	s.LifeTimeTrack.AddKey(1, 0.25)
	s.SizeTrack.AddKey(0, 0.1)
	s.SizeTrack.AddRangeKey(1, 0.3, 0.6)
	s.AngularSpeedTrack.AddKey(0.5, 2)
	s.VelocityTrack.AddKey(0, 1)
	s.VelocityTrack.AddKey(1, 0)
	s.LimitVelocityTrack.AddKey(0, 10)
	s.ColorTrack.AddKey(0, Color4{R: 1, A: 1})
	s.ColorTrack.AddRangeKey(1, Color4{R: 0.5}, Color4{R: 0.9})

	s.Shape = &ConeShape{Radius: 0.5, Angle: 0.6, Height: 1.5, HeightRange: 0.8, DirectionRandomizer: 0.1}
	s.Noise = NewSimplexField(77, 0.25)
	s.NoiseStrength = r3.Vec{X: 2, Y: 0, Z: 2}

	sub, err := NewSystem("sparks", 50, 99)
	if err != nil {
		t.Fatal(err)
	}
	sub.EmitRate = 200
	sub.TargetStopDuration = 0.3
	sub.Shape = &SphereShape{Radius: 0.1, RadiusRange: 1, DirectionRandomizer: 0.5}
	s.SubEmitters = []*System{sub}
	return s
}

func TestConfigRoundTrip(t *testing.T) {
	s := buildFullSystem(t)
	cfg := s.Config()

	rebuilt, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rebuilt.Config(), cfg) {
		t.Errorf("config changed across parse:\n got: %+v\nwant: %+v", rebuilt.Config(), cfg)
	}
}

func TestConfigRoundTripThroughYAML(t *testing.T) {
	s := buildFullSystem(t)
	cfg := s.Config()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var decoded EffectConfig
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, cfg) {
		t.Errorf("YAML round trip changed the config:\n got: %+v\nwant: %+v", decoded, cfg)
	}

	rebuilt, err := FromConfig(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rebuilt.Config(), cfg) {
		t.Error("system rebuilt from YAML differs from the original")
	}
}

func TestEffectFileRoundTrip(t *testing.T) {
	s := buildFullSystem(t)
	cfg := s.Config()
	path := filepath.Join(t.TempDir(), "inferno.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadEffect(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Config(), cfg) {
		t.Error("effect loaded from file differs from the original")
	}
}

func TestFromConfigRejectsInvalid(t *testing.T) {
	base := buildFullSystem(t).Config()

	bad := base
	bad.Capacity = 0
	if _, err := FromConfig(bad); err == nil {
		t.Error("expected error for capacity 0")
	}

	bad = base
	bad.MinLifeTime = 3
	bad.MaxLifeTime = 1
	if _, err := FromConfig(bad); err == nil {
		t.Error("expected error for inverted life time range")
	}

	bad = base
	bad.Shape = ShapeConfig{Type: "torus"}
	if _, err := FromConfig(bad); err == nil {
		t.Error("expected error for unknown shape type")
	}

	bad = base
	bad.Blend = "screen"
	if _, err := FromConfig(bad); err == nil {
		t.Error("expected error for unknown blend mode")
	}
}

func TestShapeConfigVariants(t *testing.T) {
	shapes := []Shape{
		&BoxShape{MinBounds: r3.Vec{X: -1}, MaxBounds: r3.Vec{X: 1}, Direction1: r3.Vec{Y: 1}, Direction2: r3.Vec{Y: 1}},
		&SphereShape{Radius: 2, RadiusRange: 0.3, DirectionRandomizer: 0.1},
		&SphereDirectedShape{Radius: 1, Direction1: r3.Vec{Y: 1}, Direction2: r3.Vec{X: 1, Y: 1}},
		&ConeShape{Radius: 1, Angle: 0.5, Height: 2, HeightRange: 1, DirectionRandomizer: 0.2},
	}
	for _, shape := range shapes {
		cfg := shapeConfig(shape)
		rebuilt, err := shapeFromConfig(cfg)
		if err != nil {
			t.Fatalf("%s: %v", shape.Name(), err)
		}
		if !reflect.DeepEqual(rebuilt, shape) {
			t.Errorf("%s: round trip changed shape:\n got: %+v\nwant: %+v", shape.Name(), rebuilt, shape)
		}
	}
}
