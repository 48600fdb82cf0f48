package noise

import "math"

// Vec3 is a position in the noise domain.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns a + b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product of a and b.
func Mul(a, b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Scale returns v * s.
func Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean length of v.
func Length(v Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Cell is an integer grid cell coordinate.
type Cell struct {
	X, Y, Z int
}

// Split returns the cell containing p and the offset of p inside it.
// The offset lies in [0,1) on each axis for finite p.
func Split(p Vec3) (Cell, Vec3) {
	fx := math.Floor(p.X)
	fy := math.Floor(p.Y)
	fz := math.Floor(p.Z)
	return Cell{int(fx), int(fy), int(fz)}, Vec3{p.X - fx, p.Y - fy, p.Z - fz}
}
