package noise

import (
	"math"
	"math/rand"
)

// Perlin is classic gradient noise over a seeded permutation table.
// The table is read-only after construction. Output is roughly in [-1, 1].
type Perlin struct {
	perm [512]uint8
}

// NewPerlin builds a Perlin basis from seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	rng := rand.New(rand.NewSource(seed))

	var table [256]uint8
	for i := range table {
		table[i] = uint8(i)
	}
	rng.Shuffle(len(table), func(i, j int) {
		table[i], table[j] = table[j], table[i]
	})

	// Doubled so corner lookups never need wrapping.
	for i := 0; i < 256; i++ {
		p.perm[i] = table[i]
		p.perm[i+256] = table[i]
	}
	return p
}

// Eval3 implements Basis.
func (p *Perlin) Eval3(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	A := int(p.perm[X]) + Y
	AA := int(p.perm[A]) + Z
	AB := int(p.perm[A+1]) + Z
	B := int(p.perm[X+1]) + Y
	BA := int(p.perm[B]) + Z
	BB := int(p.perm[B+1]) + Z

	return lerp(w,
		lerp(v,
			lerp(u, grad(p.perm[AA], x, y, z), grad(p.perm[BA], x-1, y, z)),
			lerp(u, grad(p.perm[AB], x, y-1, z), grad(p.perm[BB], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(p.perm[AA+1], x, y, z-1), grad(p.perm[BA+1], x-1, y, z-1)),
			lerp(u, grad(p.perm[AB+1], x, y-1, z-1), grad(p.perm[BB+1], x-1, y-1, z-1))))
}

// fade is the quintic interpolant 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad dots (x, y, z) with one of 12 edge gradients picked by hash.
func grad(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	u := x
	if h >= 8 {
		u = y
	}
	v := y
	if h >= 4 {
		if h == 12 || h == 14 {
			v = x
		} else {
			v = z
		}
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
