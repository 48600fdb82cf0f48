// Package noise implements alligator noise: a jittered-grid cell noise that
// blends a hashed feature point per cell with a smooth radial falloff and
// keeps the difference between the two strongest contributions.
//
// Everything in this package is stateless and safe for concurrent use.
package noise

import "math"

// neighbors enumerates the 3x3x3 block of cell offsets around a base cell.
var neighbors = func() [27][3]int {
	var n [27][3]int
	i := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				n[i] = [3]int{dx, dy, dz}
				i++
			}
		}
	}
	return n
}()

// Falloff is the radial smoothing kernel. It is 1 at distance 0, 0 for
// distances >= 1, and has zero slope at both ends.
func Falloff(d float64) float64 {
	if d >= 1 {
		return 0
	}
	if d <= 0 {
		return 1
	}
	u := 1 - d
	return u * u * (3 - 2*u)
}

// FeaturePoint returns the jittered point and scalar value for the
// neighbour of cell at offset off. The position is in the same frame as
// cell (not relative to it).
func FeaturePoint(seed uint32, cell Cell, off [3]int) (Vec3, float64) {
	nx, ny, nz := cell.X+off[0], cell.Y+off[1], cell.Z+off[2]
	ch := Channels(seed, nx, ny, nz)
	pos := Vec3{
		X: float64(nx) + ch[0],
		Y: float64(ny) + ch[1],
		Z: float64(nz) + ch[2],
	}
	return pos, ch[3]
}

// Alligator is a seeded alligator noise basis.
type Alligator struct {
	Seed uint32
}

// Evaluate returns alligator noise at p with seed 0.
func Evaluate(p Vec3) float64 {
	return Alligator{}.Eval(p)
}

// Eval returns the noise value at p, in [0,1).
//
// Each of the 27 neighbouring cells contributes value*Falloff(d) when its
// feature point is closer than 1 to p; the result is the largest
// contribution minus the runner-up (or the largest alone if it is the only
// one). Non-finite input gives an unspecified value.
func (a Alligator) Eval(p Vec3) float64 {
	cell, frac := Split(p)

	var first, second float64
	n := 0
	for _, off := range neighbors {
		nx, ny, nz := cell.X+off[0], cell.Y+off[1], cell.Z+off[2]

		// Local frame: feature point relative to the base cell.
		dx := frac.X - (float64(off[0]) + Hash3(a.Seed, nx, ny, nz))
		dy := frac.Y - (float64(off[1]) + Hash3(a.Seed, ny, nz, nx))
		dz := frac.Z - (float64(off[2]) + Hash3(a.Seed, nz, nx, ny))
		d := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if d >= 1 {
			continue
		}

		c := Hash3(a.Seed, nx, nz, ny) * Falloff(d)
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

// Eval3 implements Basis.
func (a Alligator) Eval3(x, y, z float64) float64 {
	return a.Eval(Vec3{x, y, z})
}
