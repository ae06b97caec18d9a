package particles

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Structured persistence: every configuration knob of a System round-trips
// through EffectConfig and YAML, field for field. Runtime state (pool
// contents, scheduler remainder, system age) is deliberately not persisted.

// Vec3Config is a serializable 3D vector.
type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func vec3Config(v r3.Vec) Vec3Config { return Vec3Config{X: v.X, Y: v.Y, Z: v.Z} }
func (v Vec3Config) vec() r3.Vec     { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// ColorConfig is a serializable RGBA color.
type ColorConfig struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

func colorConfig(c Color4) ColorConfig { return ColorConfig{R: c.R, G: c.G, B: c.B, A: c.A} }
func (c ColorConfig) color() Color4    { return Color4{R: c.R, G: c.G, B: c.B, A: c.A} }

// KeyConfig is one serialized scalar track key. Max, when present, makes the
// key a [value, max) range rolled at bind time.
type KeyConfig struct {
	Pos   float64  `yaml:"pos"`
	Value float64  `yaml:"value"`
	Max   *float64 `yaml:"max,omitempty"`
}

// ColorKeyConfig is one serialized color track key.
type ColorKeyConfig struct {
	Pos   float64      `yaml:"pos"`
	Color ColorConfig  `yaml:"color"`
	Max   *ColorConfig `yaml:"max,omitempty"`
}

// ShapeConfig is a tagged union over the emitter shape variants. Type
// selects the variant; only that variant's fields are meaningful.
type ShapeConfig struct {
	Type string `yaml:"type"`

	// box
	MinBounds  Vec3Config `yaml:"min_bounds,omitempty"`
	MaxBounds  Vec3Config `yaml:"max_bounds,omitempty"`
	Direction1 Vec3Config `yaml:"direction1,omitempty"`
	Direction2 Vec3Config `yaml:"direction2,omitempty"`

	// sphere, sphere_directed, cone
	Radius              float64 `yaml:"radius,omitempty"`
	RadiusRange         float64 `yaml:"radius_range,omitempty"`
	DirectionRandomizer float64 `yaml:"direction_randomizer,omitempty"`

	// cone
	Angle       float64 `yaml:"angle,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
	HeightRange float64 `yaml:"height_range,omitempty"`
}

// NoiseConfig configures the optional noise displacement field.
type NoiseConfig struct {
	Enabled   bool       `yaml:"enabled"`
	Seed      int64      `yaml:"seed,omitempty"`
	Frequency float64    `yaml:"frequency,omitempty"`
	Strength  Vec3Config `yaml:"strength,omitempty"`
}

// EffectConfig is the full serializable configuration of a particle system,
// sub-emitter templates included.
type EffectConfig struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	Seed     int64  `yaml:"seed"`

	EmitRate     float64 `yaml:"emit_rate"`
	MinEmitPower float64 `yaml:"min_emit_power"`
	MaxEmitPower float64 `yaml:"max_emit_power"`
	MinLifeTime  float64 `yaml:"min_life_time"`
	MaxLifeTime  float64 `yaml:"max_life_time"`

	MinSize            float64 `yaml:"min_size"`
	MaxSize            float64 `yaml:"max_size"`
	MinScaleX          float64 `yaml:"min_scale_x"`
	MaxScaleX          float64 `yaml:"max_scale_x"`
	MinScaleY          float64 `yaml:"min_scale_y"`
	MaxScaleY          float64 `yaml:"max_scale_y"`
	MinAngularSpeed    float64 `yaml:"min_angular_speed"`
	MaxAngularSpeed    float64 `yaml:"max_angular_speed"`
	MinInitialRotation float64 `yaml:"min_initial_rotation"`
	MaxInitialRotation float64 `yaml:"max_initial_rotation"`

	Color1    ColorConfig `yaml:"color1"`
	Color2    ColorConfig `yaml:"color2"`
	ColorDead ColorConfig `yaml:"color_dead"`

	Gravity Vec3Config `yaml:"gravity"`
	Emitter Vec3Config `yaml:"emitter"`

	LimitVelocityDamping float64 `yaml:"limit_velocity_damping"`

	UpdateSpeed        float64 `yaml:"update_speed"`
	TargetStopDuration float64 `yaml:"target_stop_duration"`
	PreWarmCycles      int     `yaml:"pre_warm_cycles"`
	PreWarmStep        float64 `yaml:"pre_warm_step"`
	DisposeOnStop      bool    `yaml:"dispose_on_stop"`

	Blend string `yaml:"blend"`

	AnimateSprite         bool    `yaml:"animate_sprite"`
	StartSpriteCell       int     `yaml:"start_sprite_cell"`
	EndSpriteCell         int     `yaml:"end_sprite_cell"`
	SpriteCellChangeSpeed float64 `yaml:"sprite_cell_change_speed"`
	SpriteCellLoop        bool    `yaml:"sprite_cell_loop"`

	LifeTimeTrack      []KeyConfig      `yaml:"life_time_track,omitempty"`
	SizeTrack          []KeyConfig      `yaml:"size_track,omitempty"`
	AngularSpeedTrack  []KeyConfig      `yaml:"angular_speed_track,omitempty"`
	VelocityTrack      []KeyConfig      `yaml:"velocity_track,omitempty"`
	LimitVelocityTrack []KeyConfig      `yaml:"limit_velocity_track,omitempty"`
	ColorTrack         []ColorKeyConfig `yaml:"color_track,omitempty"`

	Shape ShapeConfig `yaml:"shape"`
	Noise NoiseConfig `yaml:"noise"`

	SubEmitters []EffectConfig `yaml:"sub_emitters,omitempty"`
}

// Blend mode names used in serialized form.
var blendNames = map[BlendMode]string{
	BlendStandard: "standard",
	BlendAdd:      "add",
	BlendOneOne:   "one_one",
	BlendMultiply: "multiply",
}

func parseBlend(name string) (BlendMode, error) {
	for mode, n := range blendNames {
		if n == name {
			return mode, nil
		}
	}
	return BlendStandard, fmt.Errorf("unknown blend mode %q", name)
}

// Config captures the system's full configuration.
func (s *System) Config() EffectConfig {
	cfg := EffectConfig{
		Name:                  s.Name,
		Capacity:              s.pool.Capacity(),
		Seed:                  s.seed,
		EmitRate:              s.EmitRate,
		MinEmitPower:          s.MinEmitPower,
		MaxEmitPower:          s.MaxEmitPower,
		MinLifeTime:           s.MinLifeTime,
		MaxLifeTime:           s.MaxLifeTime,
		MinSize:               s.MinSize,
		MaxSize:               s.MaxSize,
		MinScaleX:             s.MinScaleX,
		MaxScaleX:             s.MaxScaleX,
		MinScaleY:             s.MinScaleY,
		MaxScaleY:             s.MaxScaleY,
		MinAngularSpeed:       s.MinAngularSpeed,
		MaxAngularSpeed:       s.MaxAngularSpeed,
		MinInitialRotation:    s.MinInitialRotation,
		MaxInitialRotation:    s.MaxInitialRotation,
		Color1:                colorConfig(s.Color1),
		Color2:                colorConfig(s.Color2),
		ColorDead:             colorConfig(s.ColorDead),
		Gravity:               vec3Config(s.Gravity),
		Emitter:               vec3Config(s.Frame.Origin),
		LimitVelocityDamping:  s.LimitVelocityDamping,
		UpdateSpeed:           s.UpdateSpeed,
		TargetStopDuration:    s.TargetStopDuration,
		PreWarmCycles:         s.PreWarmCycles,
		PreWarmStep:           s.PreWarmStep,
		DisposeOnStop:         s.DisposeOnStop,
		Blend:                 blendNames[s.Blend],
		AnimateSprite:         s.AnimateSprite,
		StartSpriteCell:       s.StartSpriteCell,
		EndSpriteCell:         s.EndSpriteCell,
		SpriteCellChangeSpeed: s.SpriteCellChangeSpeed,
		SpriteCellLoop:        s.SpriteCellLoop,
		LifeTimeTrack:         keysConfig(&s.LifeTimeTrack),
		SizeTrack:             keysConfig(&s.SizeTrack),
		AngularSpeedTrack:     keysConfig(&s.AngularSpeedTrack),
		VelocityTrack:         keysConfig(&s.VelocityTrack),
		LimitVelocityTrack:    keysConfig(&s.LimitVelocityTrack),
		ColorTrack:            colorKeysConfig(&s.ColorTrack),
		Shape:                 shapeConfig(s.Shape),
	}
	if field, ok := s.Noise.(*SimplexField); ok && field != nil {
		cfg.Noise = NoiseConfig{
			Enabled:   true,
			Seed:      field.Seed(),
			Frequency: field.Frequency(),
			Strength:  vec3Config(s.NoiseStrength),
		}
	}
	for _, tmpl := range s.SubEmitters {
		cfg.SubEmitters = append(cfg.SubEmitters, tmpl.Config())
	}
	return cfg
}

// FromConfig constructs and validates a System from its serialized form.
// Sub-emitter templates are built recursively.
func FromConfig(cfg EffectConfig) (*System, error) {
	s, err := NewSystem(cfg.Name, cfg.Capacity, cfg.Seed)
	if err != nil {
		return nil, err
	}
	s.EmitRate = cfg.EmitRate
	s.MinEmitPower = cfg.MinEmitPower
	s.MaxEmitPower = cfg.MaxEmitPower
	s.MinLifeTime = cfg.MinLifeTime
	s.MaxLifeTime = cfg.MaxLifeTime
	s.MinSize = cfg.MinSize
	s.MaxSize = cfg.MaxSize
	s.MinScaleX = cfg.MinScaleX
	s.MaxScaleX = cfg.MaxScaleX
	s.MinScaleY = cfg.MinScaleY
	s.MaxScaleY = cfg.MaxScaleY
	s.MinAngularSpeed = cfg.MinAngularSpeed
	s.MaxAngularSpeed = cfg.MaxAngularSpeed
	s.MinInitialRotation = cfg.MinInitialRotation
	s.MaxInitialRotation = cfg.MaxInitialRotation
	s.Color1 = cfg.Color1.color()
	s.Color2 = cfg.Color2.color()
	s.ColorDead = cfg.ColorDead.color()
	s.Gravity = cfg.Gravity.vec()
	s.Frame = IdentityFrame(cfg.Emitter.vec())
	s.LimitVelocityDamping = cfg.LimitVelocityDamping
	s.UpdateSpeed = cfg.UpdateSpeed
	s.TargetStopDuration = cfg.TargetStopDuration
	s.PreWarmCycles = cfg.PreWarmCycles
	s.PreWarmStep = cfg.PreWarmStep
	s.DisposeOnStop = cfg.DisposeOnStop
	s.AnimateSprite = cfg.AnimateSprite
	s.StartSpriteCell = cfg.StartSpriteCell
	s.EndSpriteCell = cfg.EndSpriteCell
	s.SpriteCellChangeSpeed = cfg.SpriteCellChangeSpeed
	s.SpriteCellLoop = cfg.SpriteCellLoop

	if cfg.Blend != "" {
		mode, err := parseBlend(cfg.Blend)
		if err != nil {
			return nil, fmt.Errorf("system %q: %w", cfg.Name, err)
		}
		s.Blend = mode
	}

	s.LifeTimeTrack = trackFromConfig(cfg.LifeTimeTrack)
	s.SizeTrack = trackFromConfig(cfg.SizeTrack)
	s.AngularSpeedTrack = trackFromConfig(cfg.AngularSpeedTrack)
	s.VelocityTrack = trackFromConfig(cfg.VelocityTrack)
	s.LimitVelocityTrack = trackFromConfig(cfg.LimitVelocityTrack)
	s.ColorTrack = colorTrackFromConfig(cfg.ColorTrack)

	shape, err := shapeFromConfig(cfg.Shape)
	if err != nil {
		return nil, fmt.Errorf("system %q: %w", cfg.Name, err)
	}
	s.Shape = shape

	if cfg.Noise.Enabled {
		s.Noise = NewSimplexField(cfg.Noise.Seed, cfg.Noise.Frequency)
		s.NoiseStrength = cfg.Noise.Strength.vec()
	}

	for _, sub := range cfg.SubEmitters {
		tmpl, err := FromConfig(sub)
		if err != nil {
			return nil, fmt.Errorf("system %q: sub-emitter: %w", cfg.Name, err)
		}
		s.SubEmitters = append(s.SubEmitters, tmpl)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func keysConfig(t *ScalarTrack) []KeyConfig {
	if t.Len() == 0 {
		return nil
	}
	out := make([]KeyConfig, 0, t.Len())
	for _, k := range t.Keys() {
		kc := KeyConfig{Pos: k.Pos, Value: k.Low}
		if k.HasRange {
			high := k.High
			kc.Max = &high
		}
		out = append(out, kc)
	}
	return out
}

func trackFromConfig(keys []KeyConfig) ScalarTrack {
	var t ScalarTrack
	for _, k := range keys {
		if k.Max != nil {
			t.AddRangeKey(k.Pos, k.Value, *k.Max)
		} else {
			t.AddKey(k.Pos, k.Value)
		}
	}
	return t
}

func colorKeysConfig(t *ColorTrack) []ColorKeyConfig {
	if t.Len() == 0 {
		return nil
	}
	out := make([]ColorKeyConfig, 0, t.Len())
	for _, k := range t.Keys() {
		kc := ColorKeyConfig{Pos: k.Pos, Color: colorConfig(k.Low)}
		if k.HasRange {
			high := colorConfig(k.High)
			kc.Max = &high
		}
		out = append(out, kc)
	}
	return out
}

func colorTrackFromConfig(keys []ColorKeyConfig) ColorTrack {
	var t ColorTrack
	for _, k := range keys {
		if k.Max != nil {
			t.AddRangeKey(k.Pos, k.Color.color(), k.Max.color())
		} else {
			t.AddKey(k.Pos, k.Color.color())
		}
	}
	return t
}

func shapeConfig(shape Shape) ShapeConfig {
	switch v := shape.(type) {
	case *BoxShape:
		return ShapeConfig{
			Type:       ShapeBox,
			MinBounds:  vec3Config(v.MinBounds),
			MaxBounds:  vec3Config(v.MaxBounds),
			Direction1: vec3Config(v.Direction1),
			Direction2: vec3Config(v.Direction2),
		}
	case *SphereShape:
		return ShapeConfig{
			Type:                ShapeSphere,
			Radius:              v.Radius,
			RadiusRange:         v.RadiusRange,
			DirectionRandomizer: v.DirectionRandomizer,
		}
	case *SphereDirectedShape:
		return ShapeConfig{
			Type:        ShapeSphereDirected,
			Radius:      v.Radius,
			RadiusRange: v.RadiusRange,
			Direction1:  vec3Config(v.Direction1),
			Direction2:  vec3Config(v.Direction2),
		}
	case *ConeShape:
		return ShapeConfig{
			Type:                ShapeCone,
			Radius:              v.Radius,
			Angle:               v.Angle,
			Height:              v.Height,
			HeightRange:         v.HeightRange,
			DirectionRandomizer: v.DirectionRandomizer,
		}
	default:
		return ShapeConfig{Type: shape.Name()}
	}
}

func shapeFromConfig(cfg ShapeConfig) (Shape, error) {
	switch cfg.Type {
	case ShapeBox, "":
		return &BoxShape{
			MinBounds:  cfg.MinBounds.vec(),
			MaxBounds:  cfg.MaxBounds.vec(),
			Direction1: cfg.Direction1.vec(),
			Direction2: cfg.Direction2.vec(),
		}, nil
	case ShapeSphere:
		return &SphereShape{
			Radius:              cfg.Radius,
			RadiusRange:         cfg.RadiusRange,
			DirectionRandomizer: cfg.DirectionRandomizer,
		}, nil
	case ShapeSphereDirected:
		return &SphereDirectedShape{
			Radius:      cfg.Radius,
			RadiusRange: cfg.RadiusRange,
			Direction1:  cfg.Direction1.vec(),
			Direction2:  cfg.Direction2.vec(),
		}, nil
	case ShapeCone:
		return &ConeShape{
			Radius:              cfg.Radius,
			Angle:               cfg.Angle,
			Height:              cfg.Height,
			HeightRange:         cfg.HeightRange,
			DirectionRandomizer: cfg.DirectionRandomizer,
		}, nil
	default:
		return nil, fmt.Errorf("unknown shape type %q", cfg.Type)
	}
}

// LoadEffect reads an EffectConfig from a YAML file and constructs the
// system.
func LoadEffect(path string) (*System, error) {
	cfg, err := LoadEffectConfig(path)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// LoadEffectConfig reads an EffectConfig from a YAML file.
func LoadEffectConfig(path string) (EffectConfig, error) {
	var cfg EffectConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading effect file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing effect file: %w", err)
	}
	return cfg, nil
}

// WriteYAML writes the serialized configuration to a YAML file.
func (cfg EffectConfig) WriteYAML(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling effect: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing effect file: %w", err)
	}
	return nil
}
