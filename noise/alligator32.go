package noise

import "github.com/chewxy/math32"

// hash32 is Hash3 without the float64 round trip.
func hash32(seed uint32, x, y, z int) float32 {
	return float32(hashBits(seed, x, y, z)>>8) * hashScale
}

// Falloff32 is Falloff on float32.
func Falloff32(d float32) float32 {
	if d >= 1 {
		return 0
	}
	if d <= 0 {
		return 1
	}
	u := 1 - d
	return u * u * (3 - 2*u)
}

// Eval32 is Eval computed in float32 for per-pixel use. Hash values are
// identical to the float64 path; only the distance arithmetic rounds
// differently.
func (a Alligator) Eval32(x, y, z float32) float32 {
	fx, fy, fz := math32.Floor(x), math32.Floor(y), math32.Floor(z)
	cx, cy, cz := int(fx), int(fy), int(fz)
	ox, oy, oz := x-fx, y-fy, z-fz

	var first, second float32
	n := 0
	for _, off := range neighbors {
		nx, ny, nz := cx+off[0], cy+off[1], cz+off[2]

		dx := ox - (float32(off[0]) + hash32(a.Seed, nx, ny, nz))
		dy := oy - (float32(off[1]) + hash32(a.Seed, ny, nz, nx))
		dz := oz - (float32(off[2]) + hash32(a.Seed, nz, nx, ny))
		d := math32.Sqrt(dx*dx + dy*dy + dz*dz)
		if d >= 1 {
			continue
		}

		c := hash32(a.Seed, nx, nz, ny) * Falloff32(d)
		if n == 0 || c > first {
			second = first
			first = c
		} else if c > second {
			second = c
		}
		n++
	}

	switch n {
	case 0:
		return 0
	case 1:
		return first
	}
	return first - second
}
