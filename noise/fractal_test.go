package noise

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/gator/config"
)

func TestFractalSingleOctaveIsBasis(t *testing.T) {
	f := NewFractal(Alligator{Seed: 5})
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		p := Vec3{rng.Float64() * 10, rng.Float64() * 10, rng.Float64() * 10}
		if got, want := f.Eval(p), (Alligator{Seed: 5}).Eval(p); got != want {
			t.Fatalf("Fractal.Eval(%v) = %v, basis = %v", p, got, want)
		}
	}
}

// constBasis returns the same value everywhere.
type constBasis float64

func (c constBasis) Eval3(_, _, _ float64) float64 { return float64(c) }

func TestFractalOctaveSum(t *testing.T) {
	tests := []struct {
		name    string
		octaves int
		amp     float64
		rough   float64
		want    float64
	}{
		{"one octave", 1, 1, 0.5, 0.5},
		{"three octaves", 3, 1, 0.5, 0.5 * (1 + 0.5 + 0.25)},
		{"amplitude", 2, 2, 0.5, 0.5 * (2 + 1)},
		{"zero octaves clamps to one", 0, 1, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFractal(constBasis(0.5))
			f.Octaves = tt.octaves
			f.Amplitude = tt.amp
			f.Roughness = tt.rough
			if got := f.Eval(Vec3{}); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFractalAttenuation(t *testing.T) {
	tests := []struct {
		value float64
		atten float64
		want  float64
	}{
		{0.25, 1, 0.25},
		{0.25, 0.5, 0.5},
		{0.5, 2, 0.25},
		{-0.25, 0.5, -0.5},
		{0, 2, 0},
	}
	for _, tt := range tests {
		f := NewFractal(constBasis(tt.value))
		f.Attenuation = tt.atten
		if got := f.Eval(Vec3{}); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("value %v atten %v: got %v, want %v", tt.value, tt.atten, got, tt.want)
		}
	}
}

func TestFractalFrequencyAndOffset(t *testing.T) {
	a := Alligator{}
	f := NewFractal(a)
	f.Frequency = Vec3{2, 3, 4}
	f.Offset = Vec3{0.25, 0.5, 0.75}

	p := Vec3{1.1, 0.3, -2.2}
	want := a.Eval(Add(Mul(p, f.Frequency), f.Offset))
	if got := f.Eval(p); got != want {
		t.Errorf("Eval = %v, want %v", got, want)
	}
}

func TestNewBasis(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"alligator", false},
		{"", false},
		{"Perlin", false},
		{"simplex", false},
		{"worley", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			b, err := NewBasis(tt.kind, 1)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownBasis) {
					t.Errorf("NewBasis(%q) error = %v, want ErrUnknownBasis", tt.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBasis(%q): %v", tt.kind, err)
			}
			v := b.Eval3(0.3, 1.7, -2.1)
			if math.IsNaN(v) {
				t.Errorf("NewBasis(%q) produced NaN", tt.kind)
			}
		})
	}
}

func TestPerlinLatticeZero(t *testing.T) {
	p := NewPerlin(42)
	for _, c := range [][3]float64{{0, 0, 0}, {3, -2, 7}, {100, 5, -40}} {
		if v := p.Eval3(c[0], c[1], c[2]); v != 0 {
			t.Errorf("Perlin at lattice point %v = %v, want 0", c, v)
		}
	}
}

func TestPerlinSeeded(t *testing.T) {
	a, b := NewPerlin(1), NewPerlin(1)
	c := NewPerlin(2)
	differs := false
	for i := 0; i < 100; i++ {
		x := float64(i)*0.37 + 0.11
		if a.Eval3(x, 0.5, 0.25) != b.Eval3(x, 0.5, 0.25) {
			t.Fatal("same seed should give same noise")
		}
		if a.Eval3(x, 0.5, 0.25) != c.Eval3(x, 0.5, 0.25) {
			differs = true
		}
	}
	if !differs {
		t.Error("different seeds should give different noise")
	}
}

func TestSimplexNormalised(t *testing.T) {
	s := NewSimplex(9)
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 2000; i++ {
		v := s.Eval3(rng.Float64()*50, rng.Float64()*50, rng.Float64()*50)
		if v < 0 || v > 1 {
			t.Fatalf("simplex value %v outside [0,1]", v)
		}
	}
}

func TestWarp(t *testing.T) {
	a := Alligator{}
	still := NewWarp(a, 0, 1, 1)
	if got, want := still.Eval3(1.2, 3.4, 5.6), a.Eval3(1.2, 3.4, 5.6); got != want {
		t.Errorf("zero warp changed value: %v vs %v", got, want)
	}

	w := NewWarp(a, 0.75, 0.5, 1)
	moved := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.173
		if w.Eval3(x, 1, 2) != a.Eval3(x, 1, 2) {
			moved++
		}
	}
	if moved == 0 {
		t.Error("warp should move samples")
	}
}

func TestNewSamplerDefaults(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSampler(cfg.Noise)
	if err != nil {
		t.Fatal(err)
	}

	p := Vec3{0.5, 0.5, 0.5}
	if got, want := s.Eval(p), Evaluate(p); got != want {
		t.Errorf("default sampler = %v, want Evaluate = %v", got, want)
	}
	if got := s.Eval32(0.5, 0.5, 0.5); math.Abs(float64(got)-Evaluate(p)) > 1e-4 {
		t.Errorf("default sampler Eval32 = %v", got)
	}
}

func TestNewSamplerUnknownBasis(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Noise.Basis = "cellular"
	if _, err := NewSampler(cfg.Noise); !errors.Is(err, ErrUnknownBasis) {
		t.Errorf("error = %v, want ErrUnknownBasis", err)
	}
}

func TestSamplerEval32Fallback(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Noise.Basis = "perlin"
	cfg.Noise.Octaves = 3
	s, err := NewSampler(cfg.Noise)
	if err != nil {
		t.Fatal(err)
	}
	got := s.Eval32(0.3, 0.6, 0.9)
	want := s.Eval(Vec3{float64(float32(0.3)), float64(float32(0.6)), float64(float32(0.9))})
	if got != float32(want) {
		t.Errorf("Eval32 = %v, want %v", got, float32(want))
	}
}

func TestSamplerFastPathOctaves(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Noise.Octaves = 4
	cfg.Noise.Frequency = config.Vec{X: 1.5, Y: 1.5, Z: 1.5}
	s, err := NewSampler(cfg.Noise)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 500; i++ {
		x, y, z := rng.Float32()*4, rng.Float32()*4, rng.Float32()*4
		want := s.Eval(Vec3{float64(x), float64(y), float64(z)})
		if got := s.Eval32(x, y, z); math.Abs(float64(got)-want) > 1e-3 {
			t.Fatalf("Eval32(%v,%v,%v) = %v, Eval = %v", x, y, z, got, want)
		}
	}
}
