package noise

import (
	"fmt"

	"github.com/pthm-cable/gator/config"
)

// Sampler is a configured noise field: a basis, an optional domain warp and
// a fractal octave sum on top.
type Sampler struct {
	fractal *Fractal

	// fast is set when the basis is a plain Alligator, so Eval32 can stay
	// in float32 end to end.
	fast      bool
	alligator Alligator
}

// NewSampler builds a Sampler from noise config.
func NewSampler(cfg config.NoiseConfig) (*Sampler, error) {
	basis, err := NewBasis(cfg.Basis, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("building sampler: %w", err)
	}

	s := &Sampler{}
	if a, ok := basis.(Alligator); ok && cfg.Warp.Amount == 0 {
		s.fast = true
		s.alligator = a
	}
	if cfg.Warp.Amount != 0 {
		basis = NewWarp(basis, cfg.Warp.Amount, cfg.Warp.Frequency, cfg.Seed+1)
	}

	s.fractal = &Fractal{
		Basis:       basis,
		Frequency:   Vec3{cfg.Frequency.X, cfg.Frequency.Y, cfg.Frequency.Z},
		Offset:      Vec3{cfg.Offset.X, cfg.Offset.Y, cfg.Offset.Z},
		Amplitude:   cfg.Amplitude,
		Roughness:   cfg.Roughness,
		Lacunarity:  cfg.Lacunarity,
		Octaves:     cfg.Octaves,
		Attenuation: cfg.Attenuation,
	}
	return s, nil
}

// NewAlligatorSampler returns a single-octave alligator sampler with the
// given seed.
func NewAlligatorSampler(seed uint32) *Sampler {
	a := Alligator{Seed: seed}
	return &Sampler{fractal: NewFractal(a), fast: true, alligator: a}
}

// Fractal exposes the underlying octave parameters.
func (s *Sampler) Fractal() *Fractal {
	return s.fractal
}

// Eval returns the field value at p.
func (s *Sampler) Eval(p Vec3) float64 {
	return s.fractal.Eval(p)
}

// Eval3 implements Basis.
func (s *Sampler) Eval3(x, y, z float64) float64 {
	return s.fractal.Eval(Vec3{x, y, z})
}

// Eval32 returns the field value at (x, y, z) as float32.
func (s *Sampler) Eval32(x, y, z float32) float32 {
	if s.fast {
		return s.fractal.eval32(s.alligator, x, y, z)
	}
	return float32(s.fractal.Eval(Vec3{float64(x), float64(y), float64(z)}))
}
