package noise

import "math"

// Fractal sums octaves of a basis:
//
//	sum(amp_i * basis(p*Frequency*Lacunarity^i + Offset)), amp_0 = Amplitude,
//	amp_{i+1} = amp_i * Roughness
//
// and shapes the sum with sign(s)*|s|^Attenuation.
type Fractal struct {
	Basis       Basis
	Frequency   Vec3
	Offset      Vec3
	Amplitude   float64
	Roughness   float64
	Lacunarity  float64
	Octaves     int
	Attenuation float64
}

// NewFractal returns a single-octave fractal that reproduces basis.
func NewFractal(basis Basis) *Fractal {
	return &Fractal{
		Basis:       basis,
		Frequency:   Vec3{1, 1, 1},
		Amplitude:   1,
		Roughness:   0.5,
		Lacunarity:  2,
		Octaves:     1,
		Attenuation: 1,
	}
}

func (f *Fractal) octaves() int {
	if f.Octaves < 1 {
		return 1
	}
	return f.Octaves
}

// Eval returns the fractal sum at p.
func (f *Fractal) Eval(p Vec3) float64 {
	q := Mul(p, f.Frequency)
	amp := f.Amplitude

	var sum float64
	for i := f.octaves(); i > 0; i-- {
		s := Add(q, f.Offset)
		sum += amp * f.Basis.Eval3(s.X, s.Y, s.Z)
		q = Scale(q, f.Lacunarity)
		amp *= f.Roughness
	}
	return attenuate(sum, f.Attenuation)
}

// eval32 runs the octave loop on the float32 alligator path.
func (f *Fractal) eval32(a Alligator, x, y, z float32) float32 {
	qx := x * float32(f.Frequency.X)
	qy := y * float32(f.Frequency.Y)
	qz := z * float32(f.Frequency.Z)
	ox, oy, oz := float32(f.Offset.X), float32(f.Offset.Y), float32(f.Offset.Z)
	lac := float32(f.Lacunarity)
	rough := float32(f.Roughness)
	amp := float32(f.Amplitude)

	var sum float32
	for i := f.octaves(); i > 0; i-- {
		sum += amp * a.Eval32(qx+ox, qy+oy, qz+oz)
		qx, qy, qz = qx*lac, qy*lac, qz*lac
		amp *= rough
	}
	return float32(attenuate(float64(sum), f.Attenuation))
}

func attenuate(s, atten float64) float64 {
	if atten <= 0 || atten == 1 || s == 0 {
		return s
	}
	if s < 0 {
		return -math.Pow(-s, atten)
	}
	return math.Pow(s, atten)
}
