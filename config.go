package leaffall

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the engine. DefaultConfig returns the values
// the leaf field was designed around; LoadConfig overlays a YAML file on top
// of those defaults so partial files are valid.
type Config struct {
	// Seed drives every RNG the engine creates. Same seed and season produce
	// identical populations.
	Seed   int64  `yaml:"seed"`
	Season Season `yaml:"season"`

	Noise   NoiseConfig   `yaml:"noise"`
	Field   FieldConfig   `yaml:"field"`
	Physics PhysicsConfig `yaml:"physics"`
	Pile    PileConfig    `yaml:"pile"`
	Camera  CameraConfig  `yaml:"camera"`
	UI      UIConfig      `yaml:"ui"`
	SlowMo  SlowMoConfig  `yaml:"slowMo"`
}

// FieldConfig tunes the instanced flow field.
type FieldConfig struct {
	Count int `yaml:"count"`
	// WrapWidth is the horizontal span instances loop across; WrapHeight is
	// the vertical span seeds are scattered over.
	WrapWidth  float64 `yaml:"wrapWidth"`
	WrapHeight float64 `yaml:"wrapHeight"`

	Depth    Range `yaml:"depth"`
	Speed    Range `yaml:"speed"`
	SwayFreq Range `yaml:"swayFreq"`
	SwayAmp  Range `yaml:"swayAmp"`
	RotFreq  Range `yaml:"rotFreq"`
	RotAmp   Range `yaml:"rotAmp"`
	Scale    Range `yaml:"scale"`

	// Noise term coefficients: spatial frequency, time drift and amplitude.
	NoiseSpatial float64 `yaml:"noiseSpatial"`
	NoiseTime    float64 `yaml:"noiseTime"`
	NoiseAmp     float64 `yaml:"noiseAmp"`

	MinScale float64 `yaml:"minScale"`
	MaxScale float64 `yaml:"maxScale"`
	// ReferenceWidth is the visible world width at which the viewport factor
	// is exactly 1.
	ReferenceWidth float64 `yaml:"referenceWidth"`
	// LowBoost is the extra scale a leaf at the bottom of the view receives.
	LowBoost float64 `yaml:"lowBoost"`
	QuadSize float64 `yaml:"quadSize"`
}

// PhysicsConfig tunes the rigid-body leaves and the world they live in.
type PhysicsConfig struct {
	Count      int     `yaml:"count"`
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`

	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Depth       Range   `yaml:"depth"`
	Scale       Range   `yaml:"scale"`
	Tilt        Range   `yaml:"tilt"`
	SpawnHeight float64 `yaml:"spawnHeight"`

	LinearDamping  float64 `yaml:"linearDamping"`
	AngularDamping float64 `yaml:"angularDamping"`
	SettleDamping  float64 `yaml:"settleDamping"`

	Drag      float64 `yaml:"drag"`
	Lift      float64 `yaml:"lift"`
	Wind      float64 `yaml:"wind"`
	WindBias  float64 `yaml:"windBias"`
	Torque    float64 `yaml:"torque"`
	MaxTorque float64 `yaml:"maxTorque"`

	// HotSpotRadius bounds the square around the origin, on each axis,
	// where a leaf gets a one-shot outward push.
	HotSpotRadius float64 `yaml:"hotSpotRadius"`
	HotSpotPush   float64 `yaml:"hotSpotPush"`

	// SettleMargin is the height above the ground that starts settling.
	SettleMargin float64 `yaml:"settleMargin"`
	// SettleDelay is the simulation time, in seconds, between entering
	// Settling and the forced sleep.
	SettleDelay float64 `yaml:"settleDelay"`
	SteerGain   float64 `yaml:"steerGain"`
	PileJitter  float64 `yaml:"pileJitter"`

	FloorThickness float64 `yaml:"floorThickness"`
}

// PileConfig tunes the decorative ground pile.
type PileConfig struct {
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"`
	Height float64 `yaml:"height"`
	// Margin keeps edge anchors this far inside the visible ground.
	Margin float64 `yaml:"margin"`
	Scale  Range   `yaml:"scale"`
}

// CameraConfig describes the perspective camera the scene is viewed through.
type CameraConfig struct {
	Position Vec3    `yaml:"position"`
	FOV      float64 `yaml:"fov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	// FocusDuration is the focus/unfocus tween length in seconds.
	FocusDuration float32 `yaml:"focusDuration"`
}

// UIConfig tunes the colliders that track interface elements.
type UIConfig struct {
	// PlaneZ is the world depth element colliders are placed at.
	PlaneZ float64 `yaml:"planeZ"`
	// Depth is the collider thickness along Z.
	Depth          float64 `yaml:"depth"`
	FallbackWidth  float64 `yaml:"fallbackWidth"`
	FallbackHeight float64 `yaml:"fallbackHeight"`
	Friction       float64 `yaml:"friction"`
	Restitution    float64 `yaml:"restitution"`
}

// SlowMoConfig controls the slow-motion time scale.
type SlowMoConfig struct {
	TimeScale float64 `yaml:"timeScale"`
	// Ramp is how long, in seconds, the time scale takes to ease in or out.
	Ramp float32 `yaml:"ramp"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Seed:   1,
		Season: SeasonSpring,
		Noise:  NoiseConfig{Kind: NoiseSimplex, Seed: 1, Frequency: 1},
		Field: FieldConfig{
			Count:          100,
			WrapWidth:      40,
			WrapHeight:     22,
			Depth:          Range{-5, 5},
			Speed:          Range{0.008, 0.04},
			SwayFreq:       Range{0.3, 1.2},
			SwayAmp:        Range{0.08, 0.6},
			RotFreq:        Range{0.2, 0.9},
			RotAmp:         Range{0.15, 0.7},
			Scale:          Range{0.45, 1.12},
			NoiseSpatial:   0.15,
			NoiseTime:      0.1,
			NoiseAmp:       0.35,
			MinScale:       0.3,
			MaxScale:       1.6,
			ReferenceWidth: 14,
			LowBoost:       0.25,
			QuadSize:       0.6,
		},
		Physics: PhysicsConfig{
			Count:          8,
			Gravity:        -3.2,
			Iterations:     2,
			Mass:           1,
			Restitution:    0.06,
			Friction:       1.0,
			Depth:          Range{-3, 3},
			Scale:          Range{0.6, 1.15},
			Tilt:           Range{-0.5, 0.5},
			SpawnHeight:    11,
			LinearDamping:  0.45,
			AngularDamping: 0.8,
			SettleDamping:  10,
			Drag:           0.6,
			Lift:           1.1,
			Wind:           0.9,
			WindBias:       0.25,
			Torque:         0.04,
			MaxTorque:      0.08,
			HotSpotRadius:  1.2,
			HotSpotPush:    1.5,
			SettleMargin:   0.5,
			SettleDelay:    0.3,
			SteerGain:      0.35,
			PileJitter:     2,
			FloorThickness: 0.5,
		},
		Pile: PileConfig{
			Count:  40,
			Spread: 2.5,
			Height: 0.45,
			Margin: 2.5,
			Scale:  Range{0.5, 1.1},
		},
		Camera: CameraConfig{
			Position:      Vec3{0, 0, 10},
			FOV:           55,
			Near:          0.1,
			Far:           1000,
			FocusDuration: 0.8,
		},
		UI: UIConfig{
			PlaneZ:         -2,
			Depth:          0.1,
			FallbackWidth:  0.5,
			FallbackHeight: 0.2,
			Friction:       1.5,
			Restitution:    0.1,
		},
		SlowMo: SlowMoConfig{TimeScale: 0.25, Ramp: 0.4},
	}
}

// LoadConfig reads a YAML config from path, overlays it on DefaultConfig and
// validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("leaffall: failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig is LoadConfig for in-memory YAML.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("leaffall: failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Field.Count >= 0, "field.count must be >= 0, got %d", c.Field.Count)
	check(c.Field.WrapWidth > 0, "field.wrapWidth must be > 0, got %v", c.Field.WrapWidth)
	check(c.Field.WrapHeight > 0, "field.wrapHeight must be > 0, got %v", c.Field.WrapHeight)
	check(c.Field.MinScale > 0 && c.Field.MinScale <= c.Field.MaxScale,
		"field.minScale must be in (0, maxScale], got %v/%v", c.Field.MinScale, c.Field.MaxScale)
	check(c.Field.ReferenceWidth > 0, "field.referenceWidth must be > 0, got %v", c.Field.ReferenceWidth)
	check(c.Field.Speed.Min >= 0 && c.Field.Speed.Min <= c.Field.Speed.Max,
		"field.speed must be a non-negative range, got %v", c.Field.Speed)

	check(c.Physics.Count >= 0, "physics.count must be >= 0, got %d", c.Physics.Count)
	check(c.Physics.Iterations >= 1, "physics.iterations must be >= 1, got %d", c.Physics.Iterations)
	check(c.Physics.Mass > 0, "physics.mass must be > 0, got %v", c.Physics.Mass)
	check(c.Physics.SettleDelay > 0, "physics.settleDelay must be > 0, got %v", c.Physics.SettleDelay)
	check(c.Physics.MaxTorque >= 0, "physics.maxTorque must be >= 0, got %v", c.Physics.MaxTorque)

	check(c.Pile.Count >= 0, "pile.count must be >= 0, got %d", c.Pile.Count)

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near,
		"camera near/far must satisfy 0 < near < far, got %v/%v", c.Camera.Near, c.Camera.Far)
	check(c.Camera.Position.Z > c.UI.PlaneZ, "ui.planeZ must be in front of the camera, got %v", c.UI.PlaneZ)

	check(c.SlowMo.TimeScale > 0 && c.SlowMo.TimeScale <= 1,
		"slowMo.timeScale must be in (0, 1], got %v", c.SlowMo.TimeScale)

	switch c.Noise.Kind {
	case "", NoiseSimplex, NoisePerlin:
	default:
		errs = append(errs, fmt.Errorf("noise.kind %q is not simplex or perlin", c.Noise.Kind))
	}

	if len(errs) > 0 {
		return fmt.Errorf("leaffall: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
