// Package field samples noise onto dense grids.
package field

import (
	"math"

	"github.com/pthm-cable/gator/noise"
)

// Evaluator is anything that can be sampled at a float32 position.
// noise.Sampler satisfies it.
type Evaluator interface {
	Eval32(x, y, z float32) float32
}

// Field is a dense W x H x D grid of samples, x fastest.
type Field struct {
	W, H, D int
	Data    []float32
}

// New allocates a zeroed field. Depth below 1 is treated as 1.
func New(w, h, d int) *Field {
	if d < 1 {
		d = 1
	}
	return &Field{W: w, H: h, D: d, Data: make([]float32, w*h*d)}
}

// Index returns the offset of (x, y, z) in Data.
func (f *Field) Index(x, y, z int) int {
	return (z*f.H+y)*f.W + x
}

// At returns the sample at (x, y, z).
func (f *Field) At(x, y, z int) float32 {
	return f.Data[f.Index(x, y, z)]
}

// Set stores v at (x, y, z).
func (f *Field) Set(x, y, z int, v float32) {
	f.Data[f.Index(x, y, z)] = v
}

// Slice returns the samples of slice z. The result aliases Data.
func (f *Field) Slice(z int) []float32 {
	n := f.W * f.H
	return f.Data[z*n : (z+1)*n]
}

// MinMax returns the smallest and largest sample. An empty field returns 0, 0.
func (f *Field) MinMax() (lo, hi float32) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	lo, hi = float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range f.Data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Normalize rescales samples to [0,1]. A constant field becomes all zeros.
func (f *Field) Normalize() {
	lo, hi := f.MinMax()
	span := hi - lo
	if span == 0 {
		for i := range f.Data {
			f.Data[i] = 0
		}
		return
	}
	inv := 1 / span
	for i, v := range f.Data {
		f.Data[i] = (v - lo) * inv
	}
}

// Float64s copies the samples into a new float64 slice.
func (f *Field) Float64s() []float64 {
	out := make([]float64, len(f.Data))
	for i, v := range f.Data {
		out[i] = float64(v)
	}
	return out
}

// Region places a field in the noise domain: voxel (i, j, k) sits at
// Origin + (i, j, k) * Spacing.
type Region struct {
	Origin  noise.Vec3
	Spacing noise.Vec3
}

// UniformRegion returns a region with equal spacing on every axis.
func UniformRegion(origin noise.Vec3, spacing float64) Region {
	return Region{Origin: origin, Spacing: noise.Vec3{X: spacing, Y: spacing, Z: spacing}}
}

// Position returns the domain position of voxel (i, j, k).
func (r Region) Position(i, j, k int) noise.Vec3 {
	return noise.Vec3{
		X: r.Origin.X + float64(i)*r.Spacing.X,
		Y: r.Origin.Y + float64(j)*r.Spacing.Y,
		Z: r.Origin.Z + float64(k)*r.Spacing.Z,
	}
}
