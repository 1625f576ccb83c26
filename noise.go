package leaffall

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the gradient-noise backend behind a NoiseField.
type NoiseKind string

const (
	NoiseSimplex NoiseKind = "simplex" // OpenSimplex, the default
	NoisePerlin  NoiseKind = "perlin"  // classic Perlin, slightly blockier gusts
)

// NoiseConfig controls NoiseField construction.
type NoiseConfig struct {
	Kind NoiseKind `yaml:"kind"`
	Seed int64     `yaml:"seed"`
	// Frequency multiplies both input coordinates before sampling.
	// Zero means 1.
	Frequency float64 `yaml:"frequency"`
}

// Perlin octave parameters (alpha = amplitude falloff, beta = frequency gain).
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// NoiseField is a deterministic, continuous 2D noise sampler. It is the sole
// source of wind perturbation for both leaf populations.
type NoiseField struct {
	kind    NoiseKind
	freq    float64
	simplex opensimplex.Noise
	perlin  *perlin.Perlin
}

// NewNoiseField builds a sampler for cfg. An empty Kind selects simplex.
func NewNoiseField(cfg NoiseConfig) (*NoiseField, error) {
	f := &NoiseField{kind: cfg.Kind, freq: cfg.Frequency}
	if f.freq == 0 {
		f.freq = 1
	}
	switch cfg.Kind {
	case "", NoiseSimplex:
		f.kind = NoiseSimplex
		f.simplex = opensimplex.New(cfg.Seed)
	case NoisePerlin:
		f.perlin = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed)
	default:
		return nil, fmt.Errorf("leaffall: unknown noise kind %q", cfg.Kind)
	}
	return f, nil
}

// Kind returns the backend in use.
func (f *NoiseField) Kind() NoiseKind { return f.kind }

// Sample returns the noise value at (x, y), in [-1, 1].
func (f *NoiseField) Sample(x, y float64) float64 {
	x *= f.freq
	y *= f.freq
	if f.perlin != nil {
		// Summed octaves can overshoot the unit range slightly.
		return clamp(f.perlin.Noise2D(x, y), -1, 1)
	}
	return f.simplex.Eval2(x, y)
}
