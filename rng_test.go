package leaffall

import (
	"math"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(99), NewRNG(99)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs for equal seeds", i)
		}
	}
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		if v := r.Between(-2, 3); v < -2 || v >= 3 {
			t.Fatalf("Between = %v", v)
		}
		if v := r.Spread(4); v < -2 || v >= 2 {
			t.Fatalf("Spread = %v", v)
		}
		if v := r.Angle(); v < 0 || v >= 2*math.Pi {
			t.Fatalf("Angle = %v", v)
		}
		if v := r.Sign(); v != 1 && v != -1 {
			t.Fatalf("Sign = %v", v)
		}
		if v := r.IntN(3); v < 0 || v >= 3 {
			t.Fatalf("IntN = %v", v)
		}
	}
	if r.IntN(0) != 0 {
		t.Error("IntN(0) should be 0")
	}
}

func TestSettleStateString(t *testing.T) {
	want := map[SettleState]string{
		StateAirborne:  "airborne",
		StateSettling:  "settling",
		StateSleeping:  "sleeping",
		SettleState(9): "unknown",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("String() = %q, want %q", s.String(), name)
		}
	}
}
