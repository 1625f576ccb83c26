package leaffall

import "math"

// PileEnv is the ground and tuning a pile is laid out against.
type PileEnv struct {
	Ground
	PileConfig
}

// pileTilt is the maximum X tilt of a piled leaf; piled leaves lie almost
// flat against the ground.
const pileTilt = 0.08

// LayoutPile returns count decorative transforms clustered around the
// season's pile anchor. Leaves near the anchor stack higher, giving a mound
// that falls off toward the edges. The result is computed once per season.
func LayoutPile(profile SeasonProfile, env PileEnv, rng *RNG, count int) []Mat4 {
	if count <= 0 {
		return nil
	}
	anchorX := profile.PileAnchorX(env.HalfWidth, env.Margin)
	spread := math.Max(env.Spread, 1e-6)

	out := make([]Mat4, count)
	for i := range out {
		// Sum of two uniforms clusters toward the anchor.
		dx := (rng.Float64() + rng.Float64() - 1) * spread
		falloff := 1 - math.Min(1, math.Abs(dx)/spread)
		y := env.Y + env.Height*falloff*falloff*rng.Between(0.4, 1)
		z := rng.Spread(1.2)
		scale := env.Scale.Sample(rng) * profile.Scale

		out[i] = ComposeTRS(
			Vec3{anchorX + dx, y, z},
			Vec3{X: rng.Spread(2 * pileTilt), Z: rng.Angle()},
			Vec3{scale, scale, scale},
		)
	}
	return out
}
