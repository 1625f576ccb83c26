package leaffall

import (
	"strings"
	"testing"
)

func TestNoiseFieldDeterministic(t *testing.T) {
	for _, kind := range []NoiseKind{NoiseSimplex, NoisePerlin} {
		a, err := NewNoiseField(NoiseConfig{Kind: kind, Seed: 42})
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		b, _ := NewNoiseField(NoiseConfig{Kind: kind, Seed: 42})
		for i := 0; i < 50; i++ {
			x, y := float64(i)*0.37, float64(i)*-0.21
			if a.Sample(x, y) != b.Sample(x, y) {
				t.Fatalf("%s: Sample(%v,%v) differs between equal seeds", kind, x, y)
			}
		}
	}
}

func TestNoiseFieldRange(t *testing.T) {
	for _, kind := range []NoiseKind{NoiseSimplex, NoisePerlin} {
		f, err := NewNoiseField(NoiseConfig{Kind: kind, Seed: 7, Frequency: 1.3})
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		for x := -20.0; x <= 20; x += 0.73 {
			for y := -20.0; y <= 20; y += 0.91 {
				if v := f.Sample(x, y); v < -1 || v > 1 {
					t.Fatalf("%s: Sample(%v,%v) = %v, out of [-1,1]", kind, x, y, v)
				}
			}
		}
	}
}

func TestNoiseFieldContinuous(t *testing.T) {
	f, _ := NewNoiseField(NoiseConfig{Seed: 1})
	prev := f.Sample(0, 0)
	for i := 1; i <= 1000; i++ {
		v := f.Sample(float64(i)*0.001, 0)
		if d := v - prev; d > 0.05 || d < -0.05 {
			t.Fatalf("jump of %v between adjacent samples at step %d", d, i)
		}
		prev = v
	}
}

func TestNoiseFieldVaries(t *testing.T) {
	f, _ := NewNoiseField(NoiseConfig{Seed: 1})
	first := f.Sample(0.5, 0.5)
	for i := 1; i < 20; i++ {
		if f.Sample(0.5+float64(i)*0.7, 0.5) != first {
			return
		}
	}
	t.Error("noise is constant")
}

func TestNoiseFieldDefaults(t *testing.T) {
	f, err := NewNoiseField(NoiseConfig{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	if f.Kind() != NoiseSimplex {
		t.Errorf("Kind = %q, want simplex", f.Kind())
	}
	one, _ := NewNoiseField(NoiseConfig{Seed: 3, Frequency: 1})
	if f.Sample(1.5, 2.5) != one.Sample(1.5, 2.5) {
		t.Error("zero frequency should behave as 1")
	}
}

func TestNoiseFieldUnknownKind(t *testing.T) {
	_, err := NewNoiseField(NoiseConfig{Kind: "worley"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "worley") {
		t.Errorf("error = %q, want it to name the kind", err)
	}
}
