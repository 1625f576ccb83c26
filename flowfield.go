package leaffall

import "math"

// LeafSeed holds the immutable spawn parameters of one instanced leaf.
type LeafSeed struct {
	BaseX, BaseY, BaseZ float64
	// Speed is the signed horizontal drift per tick. Its sign follows the
	// season's wind direction.
	Speed float64

	SwayFreq, SwayAmp float64
	RotBase           float64
	RotFreq, RotAmp   float64
	Scale             float64
	Phase             float64
}

// InstanceBuffer receives one column-major transform per instance each
// tick. The caller owns it and may reuse it across frames.
type InstanceBuffer struct {
	Transforms []Mat4
}

// resize grows or shrinks the buffer to n, reusing capacity.
func (b *InstanceBuffer) resize(n int) {
	if cap(b.Transforms) < n {
		b.Transforms = make([]Mat4, n)
	}
	b.Transforms = b.Transforms[:n]
}

// Len returns the number of transforms in the buffer.
func (b *InstanceBuffer) Len() int { return len(b.Transforms) }

// FieldEnv carries everything ComputeTransform reads besides the seed.
type FieldEnv struct {
	// Noise is optional; nil disables the noise terms.
	Noise *NoiseField

	NoiseSpatial float64
	NoiseTime    float64
	NoiseAmp     float64

	SeasonScale float64
	// ViewportFactor shrinks leaves on narrow screens and grows them on
	// wide ones.
	ViewportFactor float64
	// HalfHeight is half the visible world height at z = 0.
	HalfHeight float64

	LowBoost           float64
	MinScale, MaxScale float64
}

// Viewport factor bounds. A phone-width view still gets readable leaves.
const (
	minViewportFactor = 0.6
	maxViewportFactor = 1.4
)

// NewFieldEnv builds the environment for a field configured by cfg, themed
// by profile and seen through a view visibleW × visibleH world units wide.
func NewFieldEnv(cfg FieldConfig, profile SeasonProfile, noise *NoiseField, visibleW, visibleH float64) FieldEnv {
	env := FieldEnv{
		Noise:        noise,
		NoiseSpatial: cfg.NoiseSpatial,
		NoiseTime:    cfg.NoiseTime,
		NoiseAmp:     cfg.NoiseAmp,
		SeasonScale:  profile.Scale,
		LowBoost:     cfg.LowBoost,
		MinScale:     cfg.MinScale,
		MaxScale:     cfg.MaxScale,
	}
	env.setVisibleSize(cfg.ReferenceWidth, visibleW, visibleH)
	return env
}

func (e *FieldEnv) setVisibleSize(refWidth, visibleW, visibleH float64) {
	e.ViewportFactor = 1
	if refWidth > 0 {
		e.ViewportFactor = clamp(visibleW/refWidth, minViewportFactor, maxViewportFactor)
	}
	e.HalfHeight = math.Max(visibleH/2, 1e-6)
}

// noise returns the noise term at (x, y), or 0 without a noise field.
func (e *FieldEnv) noise(x, y float64) float64 {
	if e.Noise == nil {
		return 0
	}
	return e.Noise.Sample(x, y)
}

// ComputeTransform returns the world transform of a seeded leaf whose drift
// offset is offset, at elapsed simulation time t. It has no side effects.
func ComputeTransform(seed LeafSeed, offset, t float64, env FieldEnv) Mat4 {
	k1, k2, k3 := env.NoiseSpatial, env.NoiseTime, env.NoiseAmp

	x := seed.BaseX + offset
	y := seed.BaseY +
		math.Sin(t*seed.SwayFreq+seed.Phase)*seed.SwayAmp*(1+seed.BaseZ/6) +
		env.noise(seed.BaseX*k1+t*k2, seed.BaseY*k1)*k3
	z := seed.BaseZ +
		math.Sin(t*(0.4+seed.SwayFreq*0.1)+seed.Phase*0.5)*0.06 +
		env.noise(seed.BaseZ*k1-t*k2, seed.BaseX*k1)*k3*0.15
	rotZ := seed.RotBase +
		math.Sin(t*seed.RotFreq+seed.Phase*0.7)*seed.RotAmp +
		env.noise(seed.BaseY*k1, seed.BaseX*k1+t*k2)*k3*0.5

	boost := 1.0
	if y < 0 {
		boost += env.LowBoost * math.Min(1, -y/env.HalfHeight)
	}
	scale := clamp(seed.Scale*env.SeasonScale*env.ViewportFactor*boost, env.MinScale, env.MaxScale)

	return composeZ(Vec3{x, y, z}, rotZ, scale)
}

// FlowField is the large, non-physical leaf population. Each instance
// drifts horizontally at its seeded speed and loops across WrapWidth.
type FlowField struct {
	wrapWidth float64
	refWidth  float64
	env       FieldEnv
	seeds     []LeafSeed
	offsets   []float64
}

// NewFlowField seeds cfg.Count instances from rng. The same rng state and
// profile always produce the same seed table.
func NewFlowField(cfg FieldConfig, profile SeasonProfile, rng *RNG, noise *NoiseField) *FlowField {
	seeds := make([]LeafSeed, cfg.Count)
	for i := range seeds {
		seeds[i] = LeafSeed{
			BaseX:    rng.Spread(cfg.WrapWidth),
			BaseY:    rng.Spread(cfg.WrapHeight),
			BaseZ:    cfg.Depth.Sample(rng),
			Speed:    cfg.Speed.Sample(rng) * profile.WindSign,
			SwayFreq: cfg.SwayFreq.Sample(rng),
			SwayAmp:  cfg.SwayAmp.Sample(rng),
			RotBase:  rng.Angle(),
			RotFreq:  cfg.RotFreq.Sample(rng),
			RotAmp:   cfg.RotAmp.Sample(rng),
			Scale:    cfg.Scale.Sample(rng),
			Phase:    rng.Angle(),
		}
	}
	return newFlowFieldFromSeeds(cfg, NewFieldEnv(cfg, profile, noise, cfg.ReferenceWidth, cfg.WrapHeight), seeds)
}

func newFlowFieldFromSeeds(cfg FieldConfig, env FieldEnv, seeds []LeafSeed) *FlowField {
	return &FlowField{
		wrapWidth: cfg.WrapWidth,
		refWidth:  cfg.ReferenceWidth,
		env:       env,
		seeds:     seeds,
		offsets:   make([]float64, len(seeds)),
	}
}

// Len returns the number of instances.
func (f *FlowField) Len() int { return len(f.seeds) }

// Seeds returns the seed table. The returned slice MUST NOT be mutated.
func (f *FlowField) Seeds() []LeafSeed { return f.seeds }

// Offsets returns the runtime drift offsets. The returned slice MUST NOT be
// mutated.
func (f *FlowField) Offsets() []float64 { return f.offsets }

// Env returns the current transform environment.
func (f *FlowField) Env() FieldEnv { return f.env }

// SetVisibleSize updates the viewport-dependent scale terms.
func (f *FlowField) SetVisibleSize(width, height float64) {
	f.env.setVisibleSize(f.refWidth, width, height)
}

// Tick advances every instance's drift by speed·timeScale, re-bases offsets
// that left the wrap span and writes the resulting transforms into buf.
// A non-positive dt is a paused frame: transforms are written but nothing
// drifts.
func (f *FlowField) Tick(elapsed, dt, timeScale float64, buf *InstanceBuffer) {
	buf.resize(len(f.seeds))
	half := f.wrapWidth / 2
	for i := range f.seeds {
		s := &f.seeds[i]
		if dt > 0 {
			f.offsets[i] += s.Speed * timeScale
		}
		if f.wrapWidth > 0 {
			x := s.BaseX + f.offsets[i]
			for x > half {
				f.offsets[i] -= f.wrapWidth
				x -= f.wrapWidth
			}
			for x < -half {
				f.offsets[i] += f.wrapWidth
				x += f.wrapWidth
			}
		}
		buf.Transforms[i] = ComputeTransform(*s, f.offsets[i], elapsed, f.env)
	}
}
