package leaffall

import (
	"math"
	"testing"
)

func testPileEnv() PileEnv {
	return PileEnv{Ground: testGround, PileConfig: DefaultConfig().Pile}
}

func TestLayoutPileEmpty(t *testing.T) {
	if got := LayoutPile(ProfileFor(SeasonSpring), testPileEnv(), NewRNG(1), 0); got != nil {
		t.Errorf("LayoutPile(0) = %v, want nil", got)
	}
	if got := LayoutPile(ProfileFor(SeasonSpring), testPileEnv(), NewRNG(1), -3); got != nil {
		t.Errorf("LayoutPile(-3) = %v, want nil", got)
	}
}

func TestLayoutPileAroundAnchor(t *testing.T) {
	env := testPileEnv()
	for _, s := range Seasons {
		p := ProfileFor(s)
		anchor := p.PileAnchorX(env.HalfWidth, env.Margin)
		pile := LayoutPile(p, env, NewRNG(9), 40)
		if len(pile) != 40 {
			t.Fatalf("%s: len = %d, want 40", s, len(pile))
		}
		var sumX float64
		for i, m := range pile {
			pos := m.Position()
			if math.Abs(pos.X-anchor) > env.Spread {
				t.Errorf("%s: leaf %d x = %v, want within %v of %v", s, i, pos.X, env.Spread, anchor)
			}
			if pos.Y < env.Y || pos.Y > env.Y+env.Height {
				t.Errorf("%s: leaf %d y = %v, want in [%v, %v]", s, i, pos.Y, env.Y, env.Y+env.Height)
			}
			sumX += pos.X
		}
		if mean := sumX / 40; math.Abs(mean-anchor) > env.Spread/2 {
			t.Errorf("%s: mean x = %v, want clustered at %v", s, mean, anchor)
		}
	}
}

func TestLayoutPileMound(t *testing.T) {
	env := testPileEnv()
	pile := LayoutPile(ProfileFor(SeasonAutumn), env, NewRNG(4), 400)
	var inner, outer, nIn, nOut float64
	for _, m := range pile {
		pos := m.Position()
		h := pos.Y - env.Y
		if math.Abs(pos.X) < env.Spread/4 {
			inner += h
			nIn++
		} else if math.Abs(pos.X) > env.Spread*3/4 {
			outer += h
			nOut++
		}
	}
	if nIn == 0 || nOut == 0 {
		t.Fatalf("no samples: inner %v outer %v", nIn, nOut)
	}
	if inner/nIn <= outer/nOut {
		t.Errorf("mean height near anchor %v, want above edge %v", inner/nIn, outer/nOut)
	}
}

func TestLayoutPileLiesFlat(t *testing.T) {
	pile := LayoutPile(ProfileFor(SeasonFall), testPileEnv(), NewRNG(2), 30)
	for i, m := range pile {
		// Local Z axis (column 2) stays close to world Z.
		z := Vec3{m[8], m[9], m[10]}.Normalize()
		if z.Z < math.Cos(pileTilt)-1e-9 {
			t.Errorf("leaf %d tilted %v rad, want <= %v", i, math.Acos(z.Z), pileTilt)
		}
	}
}

func TestLayoutPileDeterministic(t *testing.T) {
	a := LayoutPile(ProfileFor(SeasonFall), testPileEnv(), NewRNG(5), 20)
	b := LayoutPile(ProfileFor(SeasonFall), testPileEnv(), NewRNG(5), 20)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("transform %d differs for the same seed", i)
		}
	}
}

func TestLayoutPileSeasonScale(t *testing.T) {
	env := testPileEnv()
	env.Scale = Range{1, 1}
	pile := LayoutPile(ProfileFor(SeasonFall), env, NewRNG(1), 5)
	for i, m := range pile {
		s := Vec3{m[0], m[1], m[2]}.Len()
		if !approxEqual(s, 1.1, 1e-9) {
			t.Errorf("leaf %d scale = %v, want season scale 1.1", i, s)
		}
	}
}
