// Package imaging turns sampled noise fields into images.
package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// rampSize is the number of precomputed ramp entries.
const rampSize = 256

// Ramp maps values in [0,1] to colours. Stops are blended in Lab space and
// tabulated once, so At is a table lookup.
type Ramp struct {
	table [rampSize]color.RGBA
}

// Grayscale returns a black-to-white ramp.
func Grayscale() *Ramp {
	r := &Ramp{}
	for i := range r.table {
		v := uint8(i)
		r.table[i] = color.RGBA{v, v, v, 255}
	}
	return r
}

// NewRamp builds a ramp from evenly spaced hex colour stops. No stops gives
// Grayscale; one stop gives a flat ramp.
func NewRamp(stops []string) (*Ramp, error) {
	if len(stops) == 0 {
		return Grayscale(), nil
	}

	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("ramp stop %d: %w", i, err)
		}
		cols[i] = c
	}

	r := &Ramp{}
	for i := range r.table {
		t := float64(i) / (rampSize - 1)
		r.table[i] = toRGBA(sample(cols, t))
	}
	return r, nil
}

// sample blends the two stops around t.
func sample(cols []colorful.Color, t float64) colorful.Color {
	if len(cols) == 1 {
		return cols[0]
	}
	pos := t * float64(len(cols)-1)
	i := int(pos)
	if i >= len(cols)-1 {
		return cols[len(cols)-1]
	}
	return cols[i].BlendLab(cols[i+1], pos-float64(i)).Clamped()
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// At returns the colour for v; values outside [0,1] are clamped.
func (r *Ramp) At(v float32) color.RGBA {
	switch {
	case v != v || v <= 0: // NaN maps to the low end
		return r.table[0]
	case v >= 1:
		return r.table[rampSize-1]
	}
	return r.table[int(v*(rampSize-1)+0.5)]
}
