package noise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ojrac/opensimplex-go"
)

// Basis is a scalar 3D noise function.
type Basis interface {
	Eval3(x, y, z float64) float64
}

// Basis names accepted by NewBasis.
const (
	BasisAlligator = "alligator"
	BasisPerlin    = "perlin"
	BasisSimplex   = "simplex"
)

// ErrUnknownBasis is returned by NewBasis for unrecognised names.
var ErrUnknownBasis = errors.New("unknown noise basis")

// NewBasis resolves a basis by name.
func NewBasis(kind string, seed int64) (Basis, error) {
	switch strings.ToLower(kind) {
	case "", BasisAlligator:
		return Alligator{Seed: uint32(seed)}, nil
	case BasisPerlin:
		return NewPerlin(seed), nil
	case BasisSimplex:
		return NewSimplex(seed), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBasis, kind)
}

// Simplex is OpenSimplex noise normalised to [0,1].
type Simplex struct {
	os opensimplex.Noise
}

// NewSimplex builds a simplex basis from seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{os: opensimplex.NewNormalized(seed)}
}

// Eval3 implements Basis.
func (s *Simplex) Eval3(x, y, z float64) float64 {
	return s.os.Eval3(x, y, z)
}

// Warp displaces the query point with three simplex fields before
// evaluating Inner. Amount is in domain units.
type Warp struct {
	Inner     Basis
	Amount    float64
	Frequency float64

	field opensimplex.Noise
}

// Offsets that decorrelate the three displacement axes.
var warpOffsets = [3]Vec3{
	{0, 0, 0},
	{5.2, 1.3, 7.1},
	{1.7, 9.2, 3.4},
}

// NewWarp wraps inner with a domain warp seeded by seed.
func NewWarp(inner Basis, amount, frequency float64, seed int64) *Warp {
	if frequency == 0 {
		frequency = 1
	}
	return &Warp{
		Inner:     inner,
		Amount:    amount,
		Frequency: frequency,
		field:     opensimplex.New(seed),
	}
}

// Eval3 implements Basis.
func (w *Warp) Eval3(x, y, z float64) float64 {
	if w.Amount == 0 {
		return w.Inner.Eval3(x, y, z)
	}
	var d [3]float64
	for i, o := range warpOffsets {
		d[i] = w.field.Eval3(x*w.Frequency+o.X, y*w.Frequency+o.Y, z*w.Frequency+o.Z)
	}
	return w.Inner.Eval3(x+d[0]*w.Amount, y+d[1]*w.Amount, z+d[2]*w.Amount)
}
